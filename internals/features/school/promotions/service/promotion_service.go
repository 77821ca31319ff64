package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	attendanceService "schooladmin_backend/internals/features/school/attendance/service"
	"schooladmin_backend/internals/features/school/promotions/dto"
	studentModel "schooladmin_backend/internals/features/school/students/model"
	studentService "schooladmin_backend/internals/features/school/students/service"
)

var (
	ErrNotActive   = fiber.NewError(fiber.StatusBadRequest, "Only active students can be promoted")
	ErrSameYear    = fiber.NewError(fiber.StatusBadRequest, "New academic year must differ from the current one")
	ErrNotEligible = fiber.NewError(fiber.StatusBadRequest, "Student does not meet promotion criteria")
)

// loadResults reads the student's graded results for the year with subject codes.
func loadResults(db *gorm.DB, studentID uuid.UUID, academicYear string) ([]ResultLine, error) {
	var rows []struct {
		SubjectCode   string
		MarksObtained float64
		TotalMarks    float64
		IsAbsent      bool
	}
	err := db.Table("exam_results r").
		Select(`s.subject_code, r.exam_result_marks_obtained AS marks_obtained,
			e.exam_total_marks AS total_marks, r.exam_result_is_absent AS is_absent`).
		Joins("JOIN exams e ON e.exam_id = r.exam_result_exam_id AND e.exam_deleted_at IS NULL").
		Joins("JOIN subjects s ON s.subject_id = e.exam_subject_id").
		Where("r.exam_result_student_id = ? AND e.exam_academic_year = ?", studentID, academicYear).
		Where("e.exam_status <> ?", "Cancelled").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ResultLine, 0, len(rows))
	for _, r := range rows {
		out = append(out, ResultLine{SubjectCode: r.SubjectCode, Marks: r.MarksObtained, TotalMarks: r.TotalMarks, IsAbsent: r.IsAbsent})
	}
	return out, nil
}

// checkRequiredSubjects fails fast when a required code names no subject at all.
func checkRequiredSubjects(db *gorm.DB, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	var found []string
	if err := db.Table("subjects").
		Where("subject_deleted_at IS NULL AND upper(subject_code) = ANY(?)", pq.Array(codes)).
		Pluck("upper(subject_code)", &found).Error; err != nil {
		return err
	}
	known := make(map[string]bool, len(found))
	for _, c := range found {
		known[c] = true
	}
	for _, c := range codes {
		if !known[c] {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Unknown required subject %q", c))
		}
	}
	return nil
}

func eligibilityFor(db *gorm.DB, st *studentModel.StudentModel, c dto.Criteria) (dto.Eligibility, error) {
	results, err := loadResults(db, st.StudentID, st.StudentAcademicYear)
	if err != nil {
		return dto.Eligibility{}, err
	}
	att, err := attendanceService.YearStats(db, st.StudentID, st.StudentAcademicYear)
	if err != nil {
		return dto.Eligibility{}, err
	}
	return Evaluate(results, att, c), nil
}

func CheckEligibility(db *gorm.DB, studentID uuid.UUID, c dto.Criteria) (*dto.EligibilityResponse, error) {
	c = c.WithDefaults()
	if err := checkRequiredSubjects(db, c.RequiredSubjects); err != nil {
		return nil, err
	}
	st, err := studentService.GetStudent(db, studentID)
	if err != nil {
		return nil, err
	}
	e, err := eligibilityFor(db, st, c)
	if err != nil {
		return nil, err
	}
	return &dto.EligibilityResponse{Student: dto.Summarize(st), Eligibility: e}, nil
}

// promoteLocked promotes one locked student row. Ineligible students are
// reported in the outcome, not as an error, unless force is set.
func promoteLocked(tx *gorm.DB, st *studentModel.StudentModel, req *dto.PromoteRequest, by *uuid.UUID, now time.Time) (*dto.PromotionOutcome, error) {
	if st.StudentStatus != studentModel.StudentStatusActive {
		return nil, ErrNotActive
	}
	if st.StudentAcademicYear == req.NewAcademicYear {
		return nil, ErrSameYear
	}
	next, graduated, err := NextClass(st.StudentClassName)
	if err != nil {
		return nil, err
	}
	e, err := eligibilityFor(tx, st, req.Criteria)
	if err != nil {
		return nil, err
	}
	out := &dto.PromotionOutcome{Eligibility: &e}
	if !e.Eligible && !req.Force {
		out.Student = dto.Summarize(st)
		out.Message = ErrNotEligible.Message
		return out, nil
	}

	rec := studentModel.PromotionRecord{
		FromClass:            st.StudentClassName,
		FromSection:          st.StudentSection,
		FromAcademicYear:     st.StudentAcademicYear,
		ToAcademicYear:       req.NewAcademicYear,
		Graduated:            graduated,
		AveragePercentage:    e.Details.AveragePercentage,
		AttendancePercentage: e.Details.Attendance,
		PromotedAt:           now,
		PromotedBy:           by,
		Remarks:              req.Remarks,
	}
	if graduated {
		st.StudentStatus = studentModel.StudentStatusGraduated
		out.Message = "Student has graduated successfully"
	} else {
		rec.ToClass, rec.ToSection = next, st.StudentSection
		st.StudentClassName = next
		st.StudentAcademicYear = req.NewAcademicYear
		st.StudentRollNumber = nil
		out.Message = fmt.Sprintf("Student promoted to Class %s-%s", next, st.StudentSection)
	}
	st.StudentPromotionHistory = append(st.StudentPromotionHistory, rec)

	if err := tx.Model(st).Select(
		"student_class_name", "student_academic_year", "student_roll_number",
		"student_status", "student_promotion_history",
	).Updates(st).Error; err != nil {
		return nil, err
	}
	out.Student = dto.Summarize(st)
	out.Promoted, out.Graduated, out.Record = true, graduated, &rec
	return out, nil
}

func lockStudent(tx *gorm.DB, id uuid.UUID) (*studentModel.StudentModel, error) {
	var st studentModel.StudentModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("student_id = ?", id).Take(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, studentService.ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func PromoteStudent(db *gorm.DB, studentID uuid.UUID, req *dto.PromoteRequest, by *uuid.UUID, now time.Time) (*dto.PromotionOutcome, error) {
	req.Criteria = req.Criteria.WithDefaults()
	if err := checkRequiredSubjects(db, req.Criteria.RequiredSubjects); err != nil {
		return nil, err
	}
	var out *dto.PromotionOutcome
	err := db.Transaction(func(tx *gorm.DB) error {
		st, err := lockStudent(tx, studentID)
		if err != nil {
			return err
		}
		out, err = promoteLocked(tx, st, req, by, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BulkPromote promotes every active student of a class section, each in its
// own transaction so one failure does not roll back the rest.
func BulkPromote(db *gorm.DB, req *dto.BulkPromoteRequest, by *uuid.UUID, now time.Time) (*dto.BulkPromotionResult, error) {
	req.Criteria = req.Criteria.WithDefaults()
	if err := checkRequiredSubjects(db, req.Criteria.RequiredSubjects); err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if err := db.Model(&studentModel.StudentModel{}).
		Where("student_class_name = ? AND student_section = ? AND student_status = ?",
			req.ClassName, req.Section, studentModel.StudentStatusActive).
		Where("student_academic_year <> ?", req.NewAcademicYear).
		Order("student_roll_number ASC NULLS LAST").
		Pluck("student_id", &ids).Error; err != nil {
		return nil, err
	}

	res := &dto.BulkPromotionResult{Total: len(ids), Details: make([]dto.PromotionOutcome, 0, len(ids))}
	for _, id := range ids {
		var out *dto.PromotionOutcome
		err := db.Transaction(func(tx *gorm.DB) error {
			st, err := lockStudent(tx, id)
			if err != nil {
				return err
			}
			out, err = promoteLocked(tx, st, &req.PromoteRequest, by, now)
			return err
		})
		if err != nil {
			log.Printf("[PROMOTION] %s: %v", id, err)
			out = &dto.PromotionOutcome{Student: dto.StudentSummary{ID: id}, Message: err.Error()}
		}
		if out.Promoted {
			res.Successful++
		} else {
			res.Failed++
		}
		res.Details = append(res.Details, *out)
	}
	log.Printf("[PROMOTION] class %s-%s -> %s: %d/%d promoted", req.ClassName, req.Section, req.NewAcademicYear, res.Successful, res.Total)
	return res, nil
}

func History(db *gorm.DB, studentID uuid.UUID) (*dto.HistoryResponse, error) {
	st, err := studentService.GetStudent(db, studentID)
	if err != nil {
		return nil, err
	}
	h := []studentModel.PromotionRecord(st.StudentPromotionHistory)
	if h == nil {
		h = []studentModel.PromotionRecord{}
	}
	return &dto.HistoryResponse{Student: dto.Summarize(st), History: h}, nil
}

func EligibleStudents(db *gorm.DB, className, section, academicYear string, c dto.Criteria) (*dto.EligibleListResponse, error) {
	c = c.WithDefaults()
	if err := checkRequiredSubjects(db, c.RequiredSubjects); err != nil {
		return nil, err
	}
	var students []studentModel.StudentModel
	if err := db.Where("student_class_name = ? AND student_section = ? AND student_academic_year = ? AND student_status = ?",
		className, section, academicYear, studentModel.StudentStatusActive).
		Order("student_roll_number ASC NULLS LAST, student_first_name ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}
	out := &dto.EligibleListResponse{
		Class:        className + "-" + section,
		AcademicYear: academicYear,
		Results:      make([]dto.EligibilityResponse, 0, len(students)),
	}
	for i := range students {
		e, err := eligibilityFor(db, &students[i], c)
		if err != nil {
			return nil, err
		}
		if e.Eligible {
			out.EligibleStudents++
		}
		out.Results = append(out.Results, dto.EligibilityResponse{Student: dto.Summarize(&students[i]), Eligibility: e})
	}
	out.TotalStudents = len(students)
	return out, nil
}
