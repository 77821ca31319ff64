package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type TeacherStatus string

const (
	TeacherStatusActive   TeacherStatus = "Active"
	TeacherStatusInactive TeacherStatus = "Inactive"
	TeacherStatusOnLeave  TeacherStatus = "On Leave"
)

func IsValidTeacherStatus(s string) bool {
	switch TeacherStatus(s) {
	case TeacherStatusActive, TeacherStatusInactive, TeacherStatusOnLeave:
		return true
	}
	return false
}

type TeacherModel struct {
	TeacherID           uuid.UUID  `gorm:"column:teacher_id;type:uuid;default:gen_random_uuid();primaryKey" json:"teacher_id"`
	TeacherUserID       *uuid.UUID `gorm:"column:teacher_user_id;type:uuid;uniqueIndex:uq_teachers_user" json:"teacher_user_id,omitempty"`
	TeacherEnrollmentNo string     `gorm:"column:teacher_enrollment_no;size:40;not null;uniqueIndex:uq_teachers_enrollment_no" json:"teacher_enrollment_no"`

	TeacherFirstName string  `gorm:"column:teacher_first_name;size:80;not null" json:"teacher_first_name"`
	TeacherLastName  string  `gorm:"column:teacher_last_name;size:80" json:"teacher_last_name"`
	TeacherEmail     string  `gorm:"column:teacher_email;size:160;not null" json:"teacher_email"`
	TeacherPhone     *string `gorm:"column:teacher_phone;size:30" json:"teacher_phone,omitempty"`
	TeacherGender    string  `gorm:"column:teacher_gender;size:10" json:"teacher_gender"`

	TeacherQualification *string        `gorm:"column:teacher_qualification;size:160" json:"teacher_qualification,omitempty"`
	TeacherSubjects      pq.StringArray `gorm:"column:teacher_subjects;type:text[]" json:"teacher_subjects"`
	TeacherStatus        TeacherStatus  `gorm:"column:teacher_status;type:varchar(20);not null;default:'Active';index" json:"teacher_status"`
	TeacherJoiningDate   time.Time      `gorm:"column:teacher_joining_date;type:date;not null" json:"teacher_joining_date"`

	TeacherCreatedAt time.Time      `gorm:"column:teacher_created_at;autoCreateTime" json:"teacher_created_at"`
	TeacherUpdatedAt time.Time      `gorm:"column:teacher_updated_at;autoUpdateTime" json:"teacher_updated_at"`
	TeacherDeletedAt gorm.DeletedAt `gorm:"column:teacher_deleted_at;index" json:"-"`
}

func (TeacherModel) TableName() string { return "teachers" }

func (m TeacherModel) FullName() string {
	return strings.TrimSpace(m.TeacherFirstName + " " + m.TeacherLastName)
}
