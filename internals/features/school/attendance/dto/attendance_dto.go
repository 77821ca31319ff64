package dto

import (
	"time"

	"github.com/google/uuid"

	"schooladmin_backend/internals/features/school/attendance/model"
)

const DateLayout = "2006-01-02"

type MarkAttendanceRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string    `json:"status" validate:"required,oneof=Present Absent Late 'Half Day'"`
	Remarks   *string   `json:"remarks" validate:"omitempty,max=500"`
}

type BulkAttendanceItem struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=Present Absent Late 'Half Day'"`
	Remarks   *string   `json:"remarks" validate:"omitempty,max=500"`
}

type BulkAttendanceRequest struct {
	ClassID uuid.UUID            `json:"class_id" validate:"required"`
	Date    string               `json:"date" validate:"required,datetime=2006-01-02"`
	Records []BulkAttendanceItem `json:"records" validate:"required,min=1,dive"`
}

type BulkItemError struct {
	StudentID uuid.UUID `json:"student_id"`
	Error     string    `json:"error"`
}

type BulkAttendanceResult struct {
	Successful int                     `json:"successful"`
	Failed     int                     `json:"failed"`
	Results    []model.AttendanceModel `json:"results"`
	Errors     []BulkItemError         `json:"errors"`
}

type StudentBrief struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	RollNumber    *int      `json:"roll_number,omitempty"`
	ScholarNumber string    `json:"scholar_number"`
}

type ClassAttendanceRow struct {
	Student    StudentBrief           `json:"student"`
	Attendance *model.AttendanceModel `json:"attendance"`
}

type ClassAttendanceResponse struct {
	Date       string               `json:"date"`
	ClassID    uuid.UUID            `json:"class_id"`
	Attendance []ClassAttendanceRow `json:"attendance"`
	Summary    Stats                `json:"summary"`
}

type Stats struct {
	TotalDays            int     `json:"total_days"`
	PresentDays          int     `json:"present_days"`
	AbsentDays           int     `json:"absent_days"`
	LateDays             int     `json:"late_days"`
	HalfDays             int     `json:"half_days"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

type StudentAttendanceResponse struct {
	StudentID  uuid.UUID               `json:"student_id"`
	StartDate  string                  `json:"start_date"`
	EndDate    string                  `json:"end_date"`
	Statistics Stats                   `json:"statistics"`
	Attendance []model.AttendanceModel `json:"attendance"`
}

type MonthlyStudentRow struct {
	Student StudentBrief `json:"student"`
	Stats   Stats        `json:"stats"`
}

type MonthlyReportResponse struct {
	ClassID      uuid.UUID           `json:"class_id"`
	Month        int                 `json:"month"`
	Year         int                 `json:"year"`
	WorkingDays  int                 `json:"working_days"`
	Students     []MonthlyStudentRow `json:"students"`
	ClassAverage float64             `json:"class_average"`
}

// ParseDate reads a YYYY-MM-DD value as a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
