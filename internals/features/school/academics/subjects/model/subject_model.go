package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectModel struct {
	SubjectID           uuid.UUID      `gorm:"column:subject_id;type:uuid;default:gen_random_uuid();primaryKey" json:"subject_id"`
	SubjectName         string         `gorm:"column:subject_name;size:120;not null" json:"subject_name"`
	SubjectCode         string         `gorm:"column:subject_code;size:20;not null;uniqueIndex:uq_subjects_code" json:"subject_code"`
	SubjectGrade        *string        `gorm:"column:subject_grade;size:20" json:"subject_grade,omitempty"`
	SubjectHoursPerWeek int            `gorm:"column:subject_hours_per_week;not null;default:0" json:"subject_hours_per_week"`
	SubjectDescription  *string        `gorm:"column:subject_description;type:text" json:"subject_description,omitempty"`
	SubjectIsActive     bool           `gorm:"column:subject_is_active;not null;default:true" json:"subject_is_active"`
	SubjectCreatedAt    time.Time      `gorm:"column:subject_created_at;autoCreateTime" json:"subject_created_at"`
	SubjectUpdatedAt    time.Time      `gorm:"column:subject_updated_at;autoUpdateTime" json:"subject_updated_at"`
	SubjectDeletedAt    gorm.DeletedAt `gorm:"column:subject_deleted_at;index" json:"-"`
}

func (SubjectModel) TableName() string { return "subjects" }
