package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ClassSubject struct {
	SubjectID    uuid.UUID  `json:"subject_id"`
	TeacherID    *uuid.UUID `json:"teacher_id,omitempty"`
	HoursPerWeek int        `json:"hours_per_week"`
}

// ClassModel: one section of a grade for an academic year. Students belong to it
// through their (class_name, section, academic_year).
type ClassModel struct {
	ClassID           uuid.UUID                         `gorm:"column:class_id;type:uuid;default:gen_random_uuid();primaryKey" json:"class_id"`
	ClassName         string                            `gorm:"column:class_name;size:50;not null;uniqueIndex:uq_classes_name_section_year,priority:1" json:"class_name"`
	ClassSection      string                            `gorm:"column:class_section;size:10;not null;default:'A';uniqueIndex:uq_classes_name_section_year,priority:2" json:"class_section"`
	ClassAcademicYear string                            `gorm:"column:class_academic_year;size:20;not null;uniqueIndex:uq_classes_name_section_year,priority:3" json:"class_academic_year"`
	ClassCapacity     int                               `gorm:"column:class_capacity;not null;default:40" json:"class_capacity"`
	ClassRoomNumber   *string                           `gorm:"column:class_room_number;size:20" json:"class_room_number,omitempty"`
	ClassTeacherID    *uuid.UUID                        `gorm:"column:class_teacher_id;type:uuid" json:"class_teacher_id,omitempty"`
	ClassSubjects     datatypes.JSONSlice[ClassSubject] `gorm:"column:class_subjects;type:jsonb" json:"class_subjects"`
	ClassIsActive     bool                              `gorm:"column:class_is_active;not null;default:true" json:"class_is_active"`
	ClassCreatedAt    time.Time                         `gorm:"column:class_created_at;autoCreateTime" json:"class_created_at"`
	ClassUpdatedAt    time.Time                         `gorm:"column:class_updated_at;autoUpdateTime" json:"class_updated_at"`
	ClassDeletedAt    gorm.DeletedAt                    `gorm:"column:class_deleted_at;index" json:"-"`
}

func (ClassModel) TableName() string { return "classes" }
