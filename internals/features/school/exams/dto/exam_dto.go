package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schooladmin_backend/internals/features/school/exams/model"
	helper "schooladmin_backend/internals/helpers"
)

const dateLayout = "2006-01-02"

type CreateExamRequest struct {
	Name         string    `json:"name" validate:"required,max=160"`
	Type         string    `json:"exam_type" validate:"required,oneof='Unit Test' 'Mid Term' 'Final Term' Practical Assignment"`
	ClassName    string    `json:"class_name" validate:"required,max=50"`
	Section      *string   `json:"section" validate:"omitempty,max=10"`
	AcademicYear string    `json:"academic_year" validate:"required,max=20"`
	SubjectID    uuid.UUID `json:"subject_id" validate:"required"`
	Date         string    `json:"exam_date" validate:"required,datetime=2006-01-02"`
	StartTime    *string   `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime      *string   `json:"end_time" validate:"omitempty,datetime=15:04"`
	TotalMarks   float64   `json:"total_marks" validate:"required,gt=0"`
	PassingMarks float64   `json:"passing_marks" validate:"gte=0,ltefield=TotalMarks"`
}

func (r *CreateExamRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.ClassName = strings.TrimSpace(r.ClassName)
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
	if r.Section != nil {
		s := strings.ToUpper(strings.TrimSpace(*r.Section))
		r.Section = &s
		if s == "" {
			r.Section = nil
		}
	}
}

func (r *CreateExamRequest) Validate() error {
	if err := helper.Validator().Struct(r); err != nil {
		return err
	}
	return validTimes(r.StartTime, r.EndTime)
}

func (r *CreateExamRequest) ToModel(createdBy *uuid.UUID) *model.ExamModel {
	d, _ := time.Parse(dateLayout, r.Date)
	return &model.ExamModel{
		ExamName:            r.Name,
		ExamType:            model.ExamType(r.Type),
		ExamStatus:          model.ExamStatusScheduled,
		ExamClassName:       r.ClassName,
		ExamSection:         r.Section,
		ExamAcademicYear:    r.AcademicYear,
		ExamSubjectID:       r.SubjectID,
		ExamDate:            d,
		ExamStartTime:       r.StartTime,
		ExamEndTime:         r.EndTime,
		ExamTotalMarks:      r.TotalMarks,
		ExamPassingMarks:    r.PassingMarks,
		ExamCreatedByUserID: createdBy,
	}
}

type UpdateExamRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=1,max=160"`
	Status       *string  `json:"exam_status" validate:"omitempty,oneof=Scheduled Completed Cancelled"`
	Date         *string  `json:"exam_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime    *string  `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime      *string  `json:"end_time" validate:"omitempty,datetime=15:04"`
	TotalMarks   *float64 `json:"total_marks" validate:"omitempty,gt=0"`
	PassingMarks *float64 `json:"passing_marks" validate:"omitempty,gte=0"`
}

func (r *UpdateExamRequest) Validate() error {
	if err := helper.Validator().Struct(r); err != nil {
		return err
	}
	return validTimes(r.StartTime, r.EndTime)
}

func (r *UpdateExamRequest) Apply(m *model.ExamModel) {
	if r.Name != nil {
		m.ExamName = strings.TrimSpace(*r.Name)
	}
	if r.Status != nil {
		m.ExamStatus = model.ExamStatus(*r.Status)
	}
	if r.Date != nil {
		if d, err := time.Parse(dateLayout, *r.Date); err == nil {
			m.ExamDate = d
		}
	}
	if r.StartTime != nil {
		m.ExamStartTime = r.StartTime
	}
	if r.EndTime != nil {
		m.ExamEndTime = r.EndTime
	}
	if r.TotalMarks != nil {
		m.ExamTotalMarks = *r.TotalMarks
	}
	if r.PassingMarks != nil {
		m.ExamPassingMarks = *r.PassingMarks
	}
}

// validTimes: both HH:MM values already passed the datetime tag; end must be after start.
func validTimes(start, end *string) error {
	if start == nil || end == nil {
		return nil
	}
	if *end <= *start {
		return helper.NewFieldError("end_time", "must be after start_time")
	}
	return nil
}

type SubmitResultRequest struct {
	StudentID     uuid.UUID `json:"student_id" validate:"required"`
	MarksObtained float64   `json:"marks_obtained" validate:"gte=0"`
	IsAbsent      bool      `json:"is_absent"`
	Remarks       *string   `json:"remarks" validate:"omitempty,max=500"`
}

// SubmitResultsRequest accepts either a single result or a batch under "results".
type SubmitResultsRequest struct {
	SubmitResultRequest
	Results []SubmitResultRequest `json:"results" validate:"omitempty,dive"`
}

func (r *SubmitResultsRequest) Items() []SubmitResultRequest {
	if len(r.Results) > 0 {
		return r.Results
	}
	return []SubmitResultRequest{r.SubmitResultRequest}
}

type ExamResultView struct {
	model.ExamResultModel
	ExamName      string  `json:"exam_name"`
	ExamType      string  `json:"exam_type"`
	ExamDate      string  `json:"exam_date"`
	SubjectID     string  `json:"subject_id"`
	TotalMarks    float64 `json:"total_marks"`
	PassingMarks  float64 `json:"passing_marks"`
	StudentName   string  `json:"student_name,omitempty"`
	ScholarNumber string  `json:"scholar_number,omitempty"`
}

type MyResultsResponse struct {
	AcademicYear string           `json:"academic_year"`
	Results      []ExamResultView `json:"results"`
}
