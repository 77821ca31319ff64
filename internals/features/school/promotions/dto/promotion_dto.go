package dto

import (
	"strings"

	"github.com/google/uuid"

	studentModel "schooladmin_backend/internals/features/school/students/model"
	helper "schooladmin_backend/internals/helpers"
)

type Criteria struct {
	MinimumPercentage float64  `json:"minimum_percentage" validate:"omitempty,gte=0,lte=100"`
	MinimumAttendance float64  `json:"minimum_attendance" validate:"omitempty,gte=0,lte=100"`
	MinimumPassRate   float64  `json:"minimum_pass_rate" validate:"omitempty,gte=0,lte=100"`
	RequiredSubjects  []string `json:"required_subjects"`
}

// WithDefaults fills unset thresholds: 40 % average, 75 % attendance, 60 % pass rate.
func (c Criteria) WithDefaults() Criteria {
	if c.MinimumPercentage == 0 {
		c.MinimumPercentage = 40
	}
	if c.MinimumAttendance == 0 {
		c.MinimumAttendance = 75
	}
	if c.MinimumPassRate == 0 {
		c.MinimumPassRate = 60
	}
	codes := make([]string, 0, len(c.RequiredSubjects))
	for _, s := range c.RequiredSubjects {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			codes = append(codes, s)
		}
	}
	c.RequiredSubjects = codes
	return c
}

type Details struct {
	TotalExams        int      `json:"total_exams"`
	PassedExams       int      `json:"passed_exams"`
	AveragePercentage float64  `json:"average_percentage"`
	PassRate          float64  `json:"pass_rate"`
	Attendance        float64  `json:"attendance"`
	AttendanceDays    int      `json:"attendance_days"`
	FailedSubjects    []string `json:"failed_subjects,omitempty"`
	Criteria          Criteria `json:"criteria"`
}

type Eligibility struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons"`
	Details  Details  `json:"details"`
}

type StudentSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ScholarNumber string    `json:"scholar_number"`
	RollNumber    *int      `json:"roll_number,omitempty"`
	ClassName     string    `json:"class_name"`
	Section       string    `json:"section"`
	AcademicYear  string    `json:"academic_year"`
	Status        string    `json:"status"`
}

func Summarize(m *studentModel.StudentModel) StudentSummary {
	return StudentSummary{
		ID:            m.StudentID,
		Name:          m.FullName(),
		ScholarNumber: m.StudentScholarNumber,
		RollNumber:    m.StudentRollNumber,
		ClassName:     m.StudentClassName,
		Section:       m.StudentSection,
		AcademicYear:  m.StudentAcademicYear,
		Status:        string(m.StudentStatus),
	}
}

type EligibilityResponse struct {
	Student     StudentSummary `json:"student"`
	Eligibility Eligibility    `json:"eligibility"`
}

type PromoteRequest struct {
	NewAcademicYear string   `json:"new_academic_year" validate:"required,max=20"`
	Criteria        Criteria `json:"criteria"`
	Force           bool     `json:"force"`
	Remarks         string   `json:"remarks" validate:"max=500"`
}

func (r *PromoteRequest) Validate() error {
	r.NewAcademicYear = strings.TrimSpace(r.NewAcademicYear)
	return helper.Validator().Struct(r)
}

type BulkPromoteRequest struct {
	ClassName string `json:"class_name" validate:"required,max=50"`
	Section   string `json:"section" validate:"required,max=10"`
	PromoteRequest
}

func (r *BulkPromoteRequest) Validate() error {
	r.ClassName = strings.TrimSpace(r.ClassName)
	r.Section = strings.ToUpper(strings.TrimSpace(r.Section))
	r.NewAcademicYear = strings.TrimSpace(r.NewAcademicYear)
	return helper.Validator().Struct(r)
}

type PromotionOutcome struct {
	Student     StudentSummary                `json:"student"`
	Promoted    bool                          `json:"promoted"`
	Graduated   bool                          `json:"graduated"`
	Message     string                        `json:"message"`
	Eligibility *Eligibility                  `json:"eligibility,omitempty"`
	Record      *studentModel.PromotionRecord `json:"record,omitempty"`
}

type BulkPromotionResult struct {
	Total      int                `json:"total"`
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
	Details    []PromotionOutcome `json:"details"`
}

type EligibleListResponse struct {
	Class            string                `json:"class"`
	AcademicYear     string                `json:"academic_year"`
	TotalStudents    int                   `json:"total_students"`
	EligibleStudents int                   `json:"eligible_students"`
	Results          []EligibilityResponse `json:"results"`
}

type HistoryResponse struct {
	Student StudentSummary                 `json:"student"`
	History []studentModel.PromotionRecord `json:"promotion_history"`
}
