package dto

import (
	"strings"

	"schooladmin_backend/internals/features/school/academics/subjects/model"
	helper "schooladmin_backend/internals/helpers"
)

type CreateSubjectRequest struct {
	Name         string  `json:"name" validate:"required,max=120"`
	Code         string  `json:"code" validate:"required,max=20"`
	Grade        *string `json:"grade" validate:"omitempty,max=20"`
	HoursPerWeek int     `json:"hours_per_week" validate:"min=0,max=40"`
	Description  *string `json:"description"`
}

func (r *CreateSubjectRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Code = NormalizeCode(r.Code)
}

func (r *CreateSubjectRequest) Validate() error {
	return helper.Validator().Struct(r)
}

func (r *CreateSubjectRequest) ToModel() *model.SubjectModel {
	return &model.SubjectModel{
		SubjectName:         r.Name,
		SubjectCode:         r.Code,
		SubjectGrade:        r.Grade,
		SubjectHoursPerWeek: r.HoursPerWeek,
		SubjectDescription:  r.Description,
		SubjectIsActive:     true,
	}
}

type UpdateSubjectRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=120"`
	Code         *string `json:"code" validate:"omitempty,min=1,max=20"`
	Grade        *string `json:"grade" validate:"omitempty,max=20"`
	HoursPerWeek *int    `json:"hours_per_week" validate:"omitempty,min=0,max=40"`
	Description  *string `json:"description"`
	IsActive     *bool   `json:"is_active"`
}

func (r *UpdateSubjectRequest) Validate() error {
	if r.Code != nil {
		c := NormalizeCode(*r.Code)
		r.Code = &c
	}
	return helper.Validator().Struct(r)
}

func (r *UpdateSubjectRequest) Apply(m *model.SubjectModel) {
	if r.Name != nil {
		m.SubjectName = strings.TrimSpace(*r.Name)
	}
	if r.Code != nil {
		m.SubjectCode = *r.Code
	}
	if r.Grade != nil {
		m.SubjectGrade = r.Grade
	}
	if r.HoursPerWeek != nil {
		m.SubjectHoursPerWeek = *r.HoursPerWeek
	}
	if r.Description != nil {
		m.SubjectDescription = r.Description
	}
	if r.IsActive != nil {
		m.SubjectIsActive = *r.IsActive
	}
}

// NormalizeCode: " math 101 " -> "MATH101".
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}
