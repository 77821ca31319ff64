package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	subjectService "schooladmin_backend/internals/features/school/academics/subjects/service"
	"schooladmin_backend/internals/features/school/exams/dto"
	"schooladmin_backend/internals/features/school/exams/model"
	studentModel "schooladmin_backend/internals/features/school/students/model"
	studentService "schooladmin_backend/internals/features/school/students/service"
	helper "schooladmin_backend/internals/helpers"
)

var (
	ErrExamNotFound     = fiber.NewError(fiber.StatusNotFound, "Exam not found")
	ErrExamHasResults   = fiber.NewError(fiber.StatusBadRequest, "Cannot delete exam with existing results")
	ErrMarksExceedTotal = fiber.NewError(fiber.StatusBadRequest, "Marks obtained cannot exceed total marks")
	ErrExamCancelled    = fiber.NewError(fiber.StatusBadRequest, "Cannot record results for a cancelled exam")
	ErrResultsLocked    = fiber.NewError(fiber.StatusForbidden, "Results are withheld until pending fees are cleared")
)

/* ===================== EXAMS ===================== */

func CreateExam(db *gorm.DB, req *dto.CreateExamRequest, createdBy *uuid.UUID) (*model.ExamModel, error) {
	if _, err := subjectService.GetSubject(db, req.SubjectID); err != nil {
		return nil, err
	}
	m := req.ToModel(createdBy)
	if err := db.Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

type ExamFilter struct {
	ClassName    string
	Section      string
	AcademicYear string
	SubjectID    *uuid.UUID
	Status       string
}

func ListExams(db *gorm.DB, f ExamFilter, p helper.Paging) ([]model.ExamModel, int64, error) {
	q := db.Model(&model.ExamModel{})
	if f.ClassName != "" {
		q = q.Where("exam_class_name = ?", f.ClassName)
	}
	if f.Section != "" {
		q = q.Where("exam_section IS NULL OR exam_section = ?", f.Section)
	}
	if f.AcademicYear != "" {
		q = q.Where("exam_academic_year = ?", f.AcademicYear)
	}
	if f.SubjectID != nil {
		q = q.Where("exam_subject_id = ?", *f.SubjectID)
	}
	if f.Status != "" {
		q = q.Where("exam_status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.ExamModel
	if err := q.Order("exam_date DESC, exam_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func GetExam(db *gorm.DB, id uuid.UUID) (*model.ExamModel, error) {
	var m model.ExamModel
	err := db.Where("exam_id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrExamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func UpdateExam(db *gorm.DB, id uuid.UUID, req *dto.UpdateExamRequest) (*model.ExamModel, error) {
	m, err := GetExam(db, id)
	if err != nil {
		return nil, err
	}
	req.Apply(m)
	if m.ExamPassingMarks > m.ExamTotalMarks {
		return nil, helper.NewFieldError("passing_marks", "must not exceed total_marks")
	}
	if err := db.Save(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func DeleteExam(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		m, err := GetExam(tx, id)
		if err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&model.ExamResultModel{}).
			Where("exam_result_exam_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrExamHasResults
		}
		return tx.Delete(m).Error
	})
}

/* ===================== RESULTS ===================== */

// BuildResult grades one submission against the exam. Marks, percentage and
// grade are always computed here, never taken from the client.
func BuildResult(exam *model.ExamModel, in dto.SubmitResultRequest, enteredBy *uuid.UUID) (*model.ExamResultModel, error) {
	if !in.IsAbsent && in.MarksObtained > exam.ExamTotalMarks {
		return nil, ErrMarksExceedTotal
	}
	s := ComputeScore(in.MarksObtained, exam.ExamTotalMarks, exam.ExamPassingMarks, in.IsAbsent)
	return &model.ExamResultModel{
		ExamResultExamID:        exam.ExamID,
		ExamResultStudentID:     in.StudentID,
		ExamResultMarksObtained: s.Marks,
		ExamResultPercentage:    s.Percentage,
		ExamResultGrade:         s.Grade,
		ExamResultIsAbsent:      in.IsAbsent,
		ExamResultIsPassed:      s.IsPassed,
		ExamResultRemarks:       in.Remarks,
		ExamResultEnteredBy:     enteredBy,
	}, nil
}

// SubmitResults upserts results on (exam, student).
func SubmitResults(db *gorm.DB, examID uuid.UUID, items []dto.SubmitResultRequest, enteredBy *uuid.UUID) ([]model.ExamResultModel, error) {
	var out []model.ExamResultModel
	err := db.Transaction(func(tx *gorm.DB) error {
		exam, err := GetExam(tx, examID)
		if err != nil {
			return err
		}
		if exam.ExamStatus == model.ExamStatusCancelled {
			return ErrExamCancelled
		}
		for _, in := range items {
			st, err := studentService.GetStudent(tx, in.StudentID)
			if err != nil {
				return err
			}
			if st.StudentClassName != exam.ExamClassName || st.StudentAcademicYear != exam.ExamAcademicYear {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Student %s is not in class %s for %s", st.StudentScholarNumber, exam.ExamClassName, exam.ExamAcademicYear))
			}
			r, err := BuildResult(exam, in, enteredBy)
			if err != nil {
				return err
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "exam_result_exam_id"}, {Name: "exam_result_student_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"exam_result_marks_obtained", "exam_result_percentage", "exam_result_grade",
					"exam_result_is_absent", "exam_result_is_passed", "exam_result_remarks",
					"exam_result_entered_by", "exam_result_updated_at",
				}),
			}).Create(r).Error; err != nil {
				return err
			}
			out = append(out, *r)
		}
		return nil
	})
	return out, err
}

type resultRow struct {
	model.ExamResultModel
	ExamName          string
	ExamType          string
	ExamDate          time.Time
	ExamSubjectID     uuid.UUID
	ExamTotalMarks    float64
	ExamPassingMarks  float64
	StudentFirstName  string
	StudentLastName   string
	StudentScholarNum string `gorm:"column:student_scholar_number"`
}

func (r resultRow) view() dto.ExamResultView {
	name := r.StudentFirstName
	if r.StudentLastName != "" {
		name += " " + r.StudentLastName
	}
	return dto.ExamResultView{
		ExamResultModel: r.ExamResultModel,
		ExamName:        r.ExamName,
		ExamType:        r.ExamType,
		ExamDate:        r.ExamDate.Format("2006-01-02"),
		SubjectID:       r.ExamSubjectID.String(),
		TotalMarks:      r.ExamTotalMarks,
		PassingMarks:    r.ExamPassingMarks,
		StudentName:     name,
		ScholarNumber:   r.StudentScholarNum,
	}
}

func resultQuery(db *gorm.DB) *gorm.DB {
	return db.Table("exam_results r").
		Select(`r.*, e.exam_name, e.exam_type, e.exam_date, e.exam_subject_id, e.exam_total_marks,
			e.exam_passing_marks, s.student_first_name, s.student_last_name, s.student_scholar_number`).
		Joins("JOIN exams e ON e.exam_id = r.exam_result_exam_id AND e.exam_deleted_at IS NULL").
		Joins("JOIN students s ON s.student_id = r.exam_result_student_id")
}

func ListExamResults(db *gorm.DB, examID uuid.UUID) ([]dto.ExamResultView, error) {
	if _, err := GetExam(db, examID); err != nil {
		return nil, err
	}
	var rows []resultRow
	if err := resultQuery(db).
		Where("r.exam_result_exam_id = ?", examID).
		Order("r.exam_result_marks_obtained DESC, s.student_first_name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]dto.ExamResultView, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.view())
	}
	return out, nil
}

func StudentResults(db *gorm.DB, studentID uuid.UUID, academicYear string) ([]dto.ExamResultView, error) {
	var rows []resultRow
	if err := resultQuery(db).
		Where("r.exam_result_student_id = ? AND e.exam_academic_year = ?", studentID, academicYear).
		Order("e.exam_date DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]dto.ExamResultView, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.view())
	}
	return out, nil
}

// ResultGate decides whether a student may see results for the year.
type ResultGate func(db *gorm.DB, studentID uuid.UUID, academicYear string, asOf time.Time) (bool, string)

// MyResults returns the student's results for their current academic year,
// or ErrResultsLocked (with the gate's reason) when fees are outstanding.
func MyResults(db *gorm.DB, studentID uuid.UUID, gate ResultGate, asOf time.Time) (*dto.MyResultsResponse, error) {
	var st studentModel.StudentModel
	if err := db.Where("student_id = ?", studentID).Take(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, studentService.ErrStudentNotFound
		}
		return nil, err
	}
	if ok, reason := gate(db, studentID, st.StudentAcademicYear, asOf); !ok {
		if reason == "" {
			return nil, ErrResultsLocked
		}
		return nil, fiber.NewError(fiber.StatusForbidden, reason)
	}
	rows, err := StudentResults(db, studentID, st.StudentAcademicYear)
	if err != nil {
		return nil, err
	}
	return &dto.MyResultsResponse{AcademicYear: st.StudentAcademicYear, Results: rows}, nil
}
