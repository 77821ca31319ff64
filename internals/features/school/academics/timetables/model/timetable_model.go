package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TimetableSlot struct {
	StartTime string     `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string     `json:"end_time" validate:"required,datetime=15:04"`
	SubjectID uuid.UUID  `json:"subject_id" validate:"required"`
	TeacherID *uuid.UUID `json:"teacher_id,omitempty"`
	Room      string     `json:"room,omitempty" validate:"omitempty,max=20"`
}

type TimetableDay struct {
	Day   string          `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Slots []TimetableSlot `json:"slots" validate:"dive"`
}

type TimetableModel struct {
	TimetableID           uuid.UUID                         `gorm:"column:timetable_id;type:uuid;default:gen_random_uuid();primaryKey" json:"timetable_id"`
	TimetableClassName    string                            `gorm:"column:timetable_class_name;size:50;not null;uniqueIndex:uq_timetables_class_year,priority:1" json:"timetable_class_name"`
	TimetableSection      string                            `gorm:"column:timetable_section;size:10;not null;default:'A';uniqueIndex:uq_timetables_class_year,priority:2" json:"timetable_section"`
	TimetableAcademicYear string                            `gorm:"column:timetable_academic_year;size:20;not null;uniqueIndex:uq_timetables_class_year,priority:3" json:"timetable_academic_year"`
	TimetableDays         datatypes.JSONSlice[TimetableDay] `gorm:"column:timetable_days;type:jsonb;not null" json:"timetable_days"`
	TimetableIsActive     bool                              `gorm:"column:timetable_is_active;not null;default:true" json:"timetable_is_active"`
	TimetableCreatedAt    time.Time                         `gorm:"column:timetable_created_at;autoCreateTime" json:"timetable_created_at"`
	TimetableUpdatedAt    time.Time                         `gorm:"column:timetable_updated_at;autoUpdateTime" json:"timetable_updated_at"`
	TimetableDeletedAt    gorm.DeletedAt                    `gorm:"column:timetable_deleted_at;index" json:"-"`
}

func (TimetableModel) TableName() string { return "timetables" }
