package service

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	classModel "schooladmin_backend/internals/features/school/academics/classes/model"
	classService "schooladmin_backend/internals/features/school/academics/classes/service"
	"schooladmin_backend/internals/features/school/attendance/dto"
	"schooladmin_backend/internals/features/school/attendance/model"
	studentModel "schooladmin_backend/internals/features/school/students/model"
	studentService "schooladmin_backend/internals/features/school/students/service"
)

var (
	ErrFutureDate      = fiber.NewError(fiber.StatusBadRequest, "Attendance cannot be marked for a future date")
	ErrNotInClass      = fiber.NewError(fiber.StatusBadRequest, "Student does not belong to this class")
	ErrInvalidRange    = fiber.NewError(fiber.StatusBadRequest, "start_date must not be after end_date")
	ErrStudentInactive = fiber.NewError(fiber.StatusBadRequest, "Attendance can only be marked for active students")
)

var upsertOnStudentDate = clause.OnConflict{
	Columns: []clause.Column{{Name: "attendance_student_id"}, {Name: "attendance_date"}},
	DoUpdates: clause.AssignmentColumns([]string{
		"attendance_status", "attendance_class_name", "attendance_section", "attendance_academic_year",
		"attendance_month", "attendance_year", "attendance_week_of_month",
		"attendance_remarks", "attendance_marked_by", "attendance_updated_at",
	}),
}

func checkDate(date, today time.Time) error {
	if date.After(truncate(today)) {
		return ErrFutureDate
	}
	return nil
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newRecord(st *studentModel.StudentModel, date time.Time, status string, remarks *string, markedBy *uuid.UUID) *model.AttendanceModel {
	r := &model.AttendanceModel{
		AttendanceStudentID:    st.StudentID,
		AttendanceDate:         date,
		AttendanceStatus:       model.AttendanceStatus(status),
		AttendanceClassName:    st.StudentClassName,
		AttendanceSection:      st.StudentSection,
		AttendanceAcademicYear: st.StudentAcademicYear,
		AttendanceRemarks:      remarks,
		AttendanceMarkedBy:     markedBy,
	}
	r.Stamp()
	return r
}

// MarkAttendance upserts one student's record for a day. Class fields are
// taken from the student at marking time.
func MarkAttendance(db *gorm.DB, req *dto.MarkAttendanceRequest, markedBy *uuid.UUID, today time.Time) (*model.AttendanceModel, error) {
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid date")
	}
	if err := checkDate(date, today); err != nil {
		return nil, err
	}
	st, err := studentService.GetStudent(db, req.StudentID)
	if err != nil {
		return nil, err
	}
	if st.StudentStatus != studentModel.StudentStatusActive {
		return nil, ErrStudentInactive
	}
	r := newRecord(st, date, req.Status, req.Remarks, markedBy)
	if err := db.Clauses(upsertOnStudentDate).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// MarkBulk marks a whole class for one date. Bad rows are reported, not fatal.
func MarkBulk(db *gorm.DB, req *dto.BulkAttendanceRequest, markedBy *uuid.UUID, today time.Time) (*dto.BulkAttendanceResult, error) {
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid date")
	}
	if err := checkDate(date, today); err != nil {
		return nil, err
	}
	class, err := classService.GetClass(db, req.ClassID)
	if err != nil {
		return nil, err
	}

	out := &dto.BulkAttendanceResult{Results: []model.AttendanceModel{}, Errors: []dto.BulkItemError{}}
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Records {
			st, err := studentService.GetStudent(tx, item.StudentID)
			if err != nil {
				out.Errors = append(out.Errors, dto.BulkItemError{StudentID: item.StudentID, Error: err.Error()})
				continue
			}
			if !belongs(st, class) {
				out.Errors = append(out.Errors, dto.BulkItemError{StudentID: item.StudentID, Error: ErrNotInClass.Message})
				continue
			}
			r := newRecord(st, date, item.Status, item.Remarks, markedBy)
			if err := tx.Clauses(upsertOnStudentDate).Create(r).Error; err != nil {
				return err
			}
			out.Results = append(out.Results, *r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Successful, out.Failed = len(out.Results), len(out.Errors)
	return out, nil
}

func belongs(st *studentModel.StudentModel, c *classModel.ClassModel) bool {
	return st.StudentClassName == c.ClassName &&
		st.StudentSection == c.ClassSection &&
		st.StudentAcademicYear == c.ClassAcademicYear
}

func brief(st studentModel.StudentModel) dto.StudentBrief {
	return dto.StudentBrief{
		ID:            st.StudentID,
		Name:          st.FullName(),
		RollNumber:    st.StudentRollNumber,
		ScholarNumber: st.StudentScholarNumber,
	}
}

func classRecords(db *gorm.DB, c *classModel.ClassModel) *gorm.DB {
	return db.Model(&model.AttendanceModel{}).
		Where("attendance_class_name = ? AND attendance_section = ? AND attendance_academic_year = ?",
			c.ClassName, c.ClassSection, c.ClassAcademicYear)
}

// ClassAttendance lists every student of the class with their record for the day (or null).
func ClassAttendance(db *gorm.DB, classID uuid.UUID, dateStr string) (*dto.ClassAttendanceResponse, error) {
	date, err := dto.ParseDate(dateStr)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid date")
	}
	class, students, err := classService.ListClassStudents(db, classID)
	if err != nil {
		return nil, err
	}
	var records []model.AttendanceModel
	if err := classRecords(db, class).Where("attendance_date = ?", date).Find(&records).Error; err != nil {
		return nil, err
	}
	byStudent := make(map[uuid.UUID]*model.AttendanceModel, len(records))
	for i := range records {
		byStudent[records[i].AttendanceStudentID] = &records[i]
	}
	rows := make([]dto.ClassAttendanceRow, 0, len(students))
	for _, st := range students {
		rows = append(rows, dto.ClassAttendanceRow{Student: brief(st), Attendance: byStudent[st.StudentID]})
	}
	return &dto.ClassAttendanceResponse{
		Date:       date.Format(dto.DateLayout),
		ClassID:    class.ClassID,
		Attendance: rows,
		Summary:    ComputeStats(records),
	}, nil
}

func StudentAttendance(db *gorm.DB, studentID uuid.UUID, startStr, endStr string) (*dto.StudentAttendanceResponse, error) {
	start, err1 := dto.ParseDate(startStr)
	end, err2 := dto.ParseDate(endStr)
	if err1 != nil || err2 != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "start_date and end_date are required (YYYY-MM-DD)")
	}
	if start.After(end) {
		return nil, ErrInvalidRange
	}
	if _, err := studentService.GetStudent(db, studentID); err != nil {
		return nil, err
	}
	var records []model.AttendanceModel
	if err := db.Where("attendance_student_id = ? AND attendance_date BETWEEN ? AND ?", studentID, start, end).
		Order("attendance_date ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &dto.StudentAttendanceResponse{
		StudentID:  studentID,
		StartDate:  startStr,
		EndDate:    endStr,
		Statistics: ComputeStats(records),
		Attendance: records,
	}, nil
}

// YearStats summarises a student's attendance over an academic year.
func YearStats(db *gorm.DB, studentID uuid.UUID, academicYear string) (dto.Stats, error) {
	var records []model.AttendanceModel
	if err := db.Select("attendance_status").
		Where("attendance_student_id = ? AND attendance_academic_year = ?", studentID, academicYear).
		Find(&records).Error; err != nil {
		return dto.Stats{}, err
	}
	return ComputeStats(records), nil
}

func MonthlyReport(db *gorm.DB, classID uuid.UUID, year, month int) (*dto.MonthlyReportResponse, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid month or year")
	}
	class, students, err := classService.ListClassStudents(db, classID)
	if err != nil {
		return nil, err
	}
	var records []model.AttendanceModel
	if err := classRecords(db, class).
		Where("attendance_year = ? AND attendance_month = ?", year, month).
		Find(&records).Error; err != nil {
		return nil, err
	}
	briefs := make([]dto.StudentBrief, 0, len(students))
	for _, st := range students {
		briefs = append(briefs, brief(st))
	}
	rows, working, avg := BuildMonthlyReport(briefs, records)
	return &dto.MonthlyReportResponse{
		ClassID:      class.ClassID,
		Month:        month,
		Year:         year,
		WorkingDays:  working,
		Students:     rows,
		ClassAverage: avg,
	}, nil
}

// TodaySummary counts today's records school-wide for the dashboard.
func TodaySummary(db *gorm.DB, today time.Time) (dto.Stats, error) {
	var records []model.AttendanceModel
	if err := db.Select("attendance_status").
		Where("attendance_date = ?", truncate(today)).
		Find(&records).Error; err != nil {
		return dto.Stats{}, err
	}
	return ComputeStats(records), nil
}
