package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExamType string

const (
	ExamTypeUnitTest   ExamType = "Unit Test"
	ExamTypeMidTerm    ExamType = "Mid Term"
	ExamTypeFinalTerm  ExamType = "Final Term"
	ExamTypePractical  ExamType = "Practical"
	ExamTypeAssignment ExamType = "Assignment"
)

type ExamStatus string

const (
	ExamStatusScheduled ExamStatus = "Scheduled"
	ExamStatusCompleted ExamStatus = "Completed"
	ExamStatusCancelled ExamStatus = "Cancelled"
)

type ExamModel struct {
	ExamID              uuid.UUID      `gorm:"column:exam_id;type:uuid;default:gen_random_uuid();primaryKey" json:"exam_id"`
	ExamName            string         `gorm:"column:exam_name;size:160;not null" json:"exam_name"`
	ExamType            ExamType       `gorm:"column:exam_type;type:varchar(20);not null" json:"exam_type"`
	ExamStatus          ExamStatus     `gorm:"column:exam_status;type:varchar(20);not null;default:'Scheduled'" json:"exam_status"`
	ExamClassName       string         `gorm:"column:exam_class_name;size:50;not null;index:idx_exams_class_year,priority:1" json:"exam_class_name"`
	ExamSection         *string        `gorm:"column:exam_section;size:10" json:"exam_section,omitempty"`
	ExamAcademicYear    string         `gorm:"column:exam_academic_year;size:20;not null;index:idx_exams_class_year,priority:2" json:"exam_academic_year"`
	ExamSubjectID       uuid.UUID      `gorm:"column:exam_subject_id;type:uuid;not null;index" json:"exam_subject_id"`
	ExamDate            time.Time      `gorm:"column:exam_date;type:date;not null" json:"exam_date"`
	ExamStartTime       *string        `gorm:"column:exam_start_time;size:5" json:"exam_start_time,omitempty"`
	ExamEndTime         *string        `gorm:"column:exam_end_time;size:5" json:"exam_end_time,omitempty"`
	ExamTotalMarks      float64        `gorm:"column:exam_total_marks;not null" json:"exam_total_marks"`
	ExamPassingMarks    float64        `gorm:"column:exam_passing_marks;not null" json:"exam_passing_marks"`
	ExamCreatedByUserID *uuid.UUID     `gorm:"column:exam_created_by_user_id;type:uuid" json:"exam_created_by_user_id,omitempty"`
	ExamCreatedAt       time.Time      `gorm:"column:exam_created_at;autoCreateTime" json:"exam_created_at"`
	ExamUpdatedAt       time.Time      `gorm:"column:exam_updated_at;autoUpdateTime" json:"exam_updated_at"`
	ExamDeletedAt       gorm.DeletedAt `gorm:"column:exam_deleted_at;index" json:"-"`
}

func (ExamModel) TableName() string { return "exams" }

type ExamResultModel struct {
	ExamResultID            uuid.UUID  `gorm:"column:exam_result_id;type:uuid;default:gen_random_uuid();primaryKey" json:"exam_result_id"`
	ExamResultExamID        uuid.UUID  `gorm:"column:exam_result_exam_id;type:uuid;not null;uniqueIndex:uq_exam_results_exam_student,priority:1" json:"exam_result_exam_id"`
	ExamResultStudentID     uuid.UUID  `gorm:"column:exam_result_student_id;type:uuid;not null;uniqueIndex:uq_exam_results_exam_student,priority:2;index" json:"exam_result_student_id"`
	ExamResultMarksObtained float64    `gorm:"column:exam_result_marks_obtained;not null;default:0" json:"exam_result_marks_obtained"`
	ExamResultPercentage    float64    `gorm:"column:exam_result_percentage;not null;default:0" json:"exam_result_percentage"`
	ExamResultGrade         string     `gorm:"column:exam_result_grade;size:10;not null" json:"exam_result_grade"`
	ExamResultIsAbsent      bool       `gorm:"column:exam_result_is_absent;not null;default:false" json:"exam_result_is_absent"`
	ExamResultIsPassed      bool       `gorm:"column:exam_result_is_passed;not null;default:false" json:"exam_result_is_passed"`
	ExamResultRemarks       *string    `gorm:"column:exam_result_remarks;type:text" json:"exam_result_remarks,omitempty"`
	ExamResultEnteredBy     *uuid.UUID `gorm:"column:exam_result_entered_by;type:uuid" json:"exam_result_entered_by,omitempty"`
	ExamResultCreatedAt     time.Time  `gorm:"column:exam_result_created_at;autoCreateTime" json:"exam_result_created_at"`
	ExamResultUpdatedAt     time.Time  `gorm:"column:exam_result_updated_at;autoUpdateTime" json:"exam_result_updated_at"`
}

func (ExamResultModel) TableName() string { return "exam_results" }
