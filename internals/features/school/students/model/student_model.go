package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StudentStatus string

const (
	StudentStatusActive      StudentStatus = "Active"
	StudentStatusInactive    StudentStatus = "Inactive"
	StudentStatusTransferred StudentStatus = "Transferred"
	StudentStatusGraduated   StudentStatus = "Graduated"
	StudentStatusDropped     StudentStatus = "Dropped"
)

func IsValidStudentStatus(s string) bool {
	switch StudentStatus(s) {
	case StudentStatusActive, StudentStatusInactive, StudentStatusTransferred,
		StudentStatusGraduated, StudentStatusDropped:
		return true
	}
	return false
}

// PromotionRecord is one entry of a student's promotion history (jsonb).
type PromotionRecord struct {
	FromClass            string     `json:"from_class"`
	FromSection          string     `json:"from_section"`
	ToClass              string     `json:"to_class"`
	ToSection            string     `json:"to_section"`
	FromAcademicYear     string     `json:"from_academic_year"`
	ToAcademicYear       string     `json:"to_academic_year"`
	Graduated            bool       `json:"graduated"`
	AveragePercentage    float64    `json:"average_percentage"`
	AttendancePercentage float64    `json:"attendance_percentage"`
	PromotedAt           time.Time  `json:"promoted_at"`
	PromotedBy           *uuid.UUID `json:"promoted_by,omitempty"`
	Remarks              string     `json:"remarks,omitempty"`
}

type StudentModel struct {
	StudentID            uuid.UUID  `gorm:"column:student_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_id"`
	StudentUserID        *uuid.UUID `gorm:"column:student_user_id;type:uuid;uniqueIndex:uq_students_user" json:"student_user_id,omitempty"`
	StudentScholarNumber string     `gorm:"column:student_scholar_number;size:40;not null;uniqueIndex:uq_students_scholar_number" json:"student_scholar_number"`

	StudentFirstName   string     `gorm:"column:student_first_name;size:80;not null" json:"student_first_name"`
	StudentMiddleName  *string    `gorm:"column:student_middle_name;size:80" json:"student_middle_name,omitempty"`
	StudentLastName    string     `gorm:"column:student_last_name;size:80" json:"student_last_name"`
	StudentDateOfBirth *time.Time `gorm:"column:student_date_of_birth;type:date" json:"student_date_of_birth,omitempty"`
	StudentGender      string     `gorm:"column:student_gender;size:10" json:"student_gender"`

	StudentClassName    string `gorm:"column:student_class_name;size:50;not null;index:idx_students_class,priority:1" json:"student_class_name"`
	StudentSection      string `gorm:"column:student_section;size:10;not null;default:'A';index:idx_students_class,priority:2" json:"student_section"`
	StudentRollNumber   *int   `gorm:"column:student_roll_number" json:"student_roll_number,omitempty"`
	StudentAcademicYear string `gorm:"column:student_academic_year;size:20;not null;index:idx_students_class,priority:3" json:"student_academic_year"`

	StudentGuardianName  *string `gorm:"column:student_guardian_name;size:120" json:"student_guardian_name,omitempty"`
	StudentGuardianPhone *string `gorm:"column:student_guardian_phone;size:30" json:"student_guardian_phone,omitempty"`
	StudentGuardianEmail *string `gorm:"column:student_guardian_email;size:160" json:"student_guardian_email,omitempty"`
	StudentAddress       *string `gorm:"column:student_address;type:text" json:"student_address,omitempty"`

	StudentMedicalConditions pq.StringArray `gorm:"column:student_medical_conditions;type:text[]" json:"student_medical_conditions"`

	StudentStatus           StudentStatus                        `gorm:"column:student_status;type:varchar(20);not null;default:'Active';index" json:"student_status"`
	StudentAdmissionDate    time.Time                            `gorm:"column:student_admission_date;type:date;not null" json:"student_admission_date"`
	StudentPromotionHistory datatypes.JSONSlice[PromotionRecord] `gorm:"column:student_promotion_history;type:jsonb" json:"student_promotion_history"`

	StudentCreatedAt time.Time      `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"-"`
}

func (StudentModel) TableName() string { return "students" }

func (m StudentModel) FullName() string {
	parts := []string{m.StudentFirstName}
	if m.StudentMiddleName != nil && *m.StudentMiddleName != "" {
		parts = append(parts, *m.StudentMiddleName)
	}
	if m.StudentLastName != "" {
		parts = append(parts, m.StudentLastName)
	}
	return strings.Join(parts, " ")
}
