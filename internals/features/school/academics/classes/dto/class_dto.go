package dto

import (
	"strings"

	"github.com/google/uuid"

	"schooladmin_backend/internals/features/school/academics/classes/model"
	studentDTO "schooladmin_backend/internals/features/school/students/dto"
	helper "schooladmin_backend/internals/helpers"
)

type ClassSubjectRequest struct {
	SubjectID    uuid.UUID  `json:"subject_id" validate:"required"`
	TeacherID    *uuid.UUID `json:"teacher_id"`
	HoursPerWeek int        `json:"hours_per_week" validate:"min=0,max=40"`
}

type CreateClassRequest struct {
	Name         string                `json:"name" validate:"required,max=50"`
	Section      string                `json:"section" validate:"omitempty,max=10"`
	AcademicYear string                `json:"academic_year" validate:"required,max=20"`
	Capacity     int                   `json:"capacity" validate:"omitempty,min=1,max=500"`
	RoomNumber   *string               `json:"room_number" validate:"omitempty,max=20"`
	TeacherID    *uuid.UUID            `json:"class_teacher_id"`
	Subjects     []ClassSubjectRequest `json:"subjects" validate:"omitempty,dive"`
}

func (r *CreateClassRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Section = strings.ToUpper(strings.TrimSpace(r.Section))
	if r.Section == "" {
		r.Section = "A"
	}
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
	if r.Capacity == 0 {
		r.Capacity = 40
	}
}

func (r *CreateClassRequest) Validate() error {
	return helper.Validator().Struct(r)
}

func (r *CreateClassRequest) ToModel() *model.ClassModel {
	return &model.ClassModel{
		ClassName:         r.Name,
		ClassSection:      r.Section,
		ClassAcademicYear: r.AcademicYear,
		ClassCapacity:     r.Capacity,
		ClassRoomNumber:   r.RoomNumber,
		ClassTeacherID:    r.TeacherID,
		ClassSubjects:     toSubjects(r.Subjects),
		ClassIsActive:     true,
	}
}

type UpdateClassRequest struct {
	Capacity   *int                   `json:"capacity" validate:"omitempty,min=1,max=500"`
	RoomNumber *string                `json:"room_number" validate:"omitempty,max=20"`
	TeacherID  *uuid.UUID             `json:"class_teacher_id"`
	Subjects   *[]ClassSubjectRequest `json:"subjects" validate:"omitempty,dive"`
	IsActive   *bool                  `json:"is_active"`
}

func (r *UpdateClassRequest) Validate() error {
	return helper.Validator().Struct(r)
}

func (r *UpdateClassRequest) Apply(m *model.ClassModel) {
	if r.Capacity != nil {
		m.ClassCapacity = *r.Capacity
	}
	if r.RoomNumber != nil {
		m.ClassRoomNumber = r.RoomNumber
	}
	if r.TeacherID != nil {
		m.ClassTeacherID = r.TeacherID
	}
	if r.Subjects != nil {
		m.ClassSubjects = toSubjects(*r.Subjects)
	}
	if r.IsActive != nil {
		m.ClassIsActive = *r.IsActive
	}
}

func toSubjects(in []ClassSubjectRequest) []model.ClassSubject {
	out := make([]model.ClassSubject, 0, len(in))
	for _, s := range in {
		out = append(out, model.ClassSubject{
			SubjectID:    s.SubjectID,
			TeacherID:    s.TeacherID,
			HoursPerWeek: s.HoursPerWeek,
		})
	}
	return out
}

type EnrollStudentRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
}

type ClassResponse struct {
	*model.ClassModel
	StudentCount int64 `json:"student_count"`
}

type ClassStudentsResponse struct {
	Class    *model.ClassModel            `json:"class"`
	Students []studentDTO.StudentResponse `json:"students"`
}
