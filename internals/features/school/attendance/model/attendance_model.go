package model

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLate    AttendanceStatus = "Late"
	AttendanceHalfDay AttendanceStatus = "Half Day"
)

// AttendanceModel: one row per (student, date). Month and week of month are
// stored for the monthly reports.
type AttendanceModel struct {
	AttendanceID           uuid.UUID        `gorm:"column:attendance_id;type:uuid;default:gen_random_uuid();primaryKey" json:"attendance_id"`
	AttendanceStudentID    uuid.UUID        `gorm:"column:attendance_student_id;type:uuid;not null;uniqueIndex:uq_attendances_student_date,priority:1" json:"attendance_student_id"`
	AttendanceDate         time.Time        `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendances_student_date,priority:2;index" json:"attendance_date"`
	AttendanceStatus       AttendanceStatus `gorm:"column:attendance_status;type:varchar(10);not null" json:"attendance_status"`
	AttendanceClassName    string           `gorm:"column:attendance_class_name;size:50;not null;index:idx_attendances_class,priority:1" json:"attendance_class_name"`
	AttendanceSection      string           `gorm:"column:attendance_section;size:10;not null;index:idx_attendances_class,priority:2" json:"attendance_section"`
	AttendanceAcademicYear string           `gorm:"column:attendance_academic_year;size:20;not null" json:"attendance_academic_year"`
	AttendanceMonth        int              `gorm:"column:attendance_month;not null" json:"attendance_month"`
	AttendanceYear         int              `gorm:"column:attendance_year;not null" json:"attendance_year"`
	AttendanceWeekOfMonth  int              `gorm:"column:attendance_week_of_month;not null" json:"attendance_week_of_month"`
	AttendanceRemarks      *string          `gorm:"column:attendance_remarks;type:text" json:"attendance_remarks,omitempty"`
	AttendanceMarkedBy     *uuid.UUID       `gorm:"column:attendance_marked_by;type:uuid" json:"attendance_marked_by,omitempty"`
	AttendanceCreatedAt    time.Time        `gorm:"column:attendance_created_at;autoCreateTime" json:"attendance_created_at"`
	AttendanceUpdatedAt    time.Time        `gorm:"column:attendance_updated_at;autoUpdateTime" json:"attendance_updated_at"`
}

func (AttendanceModel) TableName() string { return "attendances" }

// Stamp fills month, year and week of month (ceil(day/7)) from the date.
func (m *AttendanceModel) Stamp() {
	d := m.AttendanceDate
	m.AttendanceMonth = int(d.Month())
	m.AttendanceYear = d.Year()
	m.AttendanceWeekOfMonth = (d.Day() + 6) / 7
}
