package dto

import (
	"strings"
	"time"

	"github.com/lib/pq"

	"schooladmin_backend/internals/features/school/teachers/model"
	helper "schooladmin_backend/internals/helpers"
)

type CreateTeacherRequest struct {
	EnrollmentNo  string   `json:"enrollment_no" validate:"required,max=40"`
	FirstName     string   `json:"first_name" validate:"required,max=80"`
	LastName      string   `json:"last_name" validate:"max=80"`
	Email         string   `json:"email" validate:"required,email"`
	Phone         *string  `json:"phone" validate:"omitempty,max=30"`
	Gender        string   `json:"gender" validate:"required,oneof=Male Female Other"`
	Qualification *string  `json:"qualification" validate:"omitempty,max=160"`
	Subjects      []string `json:"subjects"`
	JoiningDate   *string  `json:"joining_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CreateTeacherRequest) Normalize() {
	r.EnrollmentNo = strings.ToUpper(strings.TrimSpace(r.EnrollmentNo))
	r.FirstName = helper.NormalizeName(r.FirstName)
	r.LastName = helper.NormalizeName(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Gender = normalizeGender(r.Gender)
	r.Subjects = cleanSubjects(r.Subjects)
}

func (r *CreateTeacherRequest) Validate() error {
	return helper.Validator().Struct(r)
}

func (r *CreateTeacherRequest) ToModel(today time.Time) *model.TeacherModel {
	m := &model.TeacherModel{
		TeacherEnrollmentNo:  r.EnrollmentNo,
		TeacherFirstName:     r.FirstName,
		TeacherLastName:      r.LastName,
		TeacherEmail:         r.Email,
		TeacherPhone:         r.Phone,
		TeacherGender:        r.Gender,
		TeacherQualification: r.Qualification,
		TeacherSubjects:      pq.StringArray(r.Subjects),
		TeacherStatus:        model.TeacherStatusActive,
		TeacherJoiningDate:   today.UTC().Truncate(24 * time.Hour),
	}
	if r.JoiningDate != nil {
		if d, err := time.ParseInLocation("2006-01-02", *r.JoiningDate, time.UTC); err == nil {
			m.TeacherJoiningDate = d
		}
	}
	return m
}

type UpdateTeacherRequest struct {
	FirstName     *string   `json:"first_name" validate:"omitempty,min=1,max=80"`
	LastName      *string   `json:"last_name" validate:"omitempty,max=80"`
	Phone         *string   `json:"phone" validate:"omitempty,max=30"`
	Qualification *string   `json:"qualification" validate:"omitempty,max=160"`
	Subjects      *[]string `json:"subjects"`
	Status        *string   `json:"status" validate:"omitempty,oneof=Active Inactive 'On Leave'"`
}

func (r *UpdateTeacherRequest) Validate() error {
	return helper.Validator().Struct(r)
}

func (r *UpdateTeacherRequest) Apply(m *model.TeacherModel) {
	if r.FirstName != nil {
		m.TeacherFirstName = helper.NormalizeName(*r.FirstName)
	}
	if r.LastName != nil {
		m.TeacherLastName = helper.NormalizeName(*r.LastName)
	}
	if r.Phone != nil {
		m.TeacherPhone = r.Phone
	}
	if r.Qualification != nil {
		m.TeacherQualification = r.Qualification
	}
	if r.Subjects != nil {
		m.TeacherSubjects = pq.StringArray(cleanSubjects(*r.Subjects))
	}
	if r.Status != nil {
		m.TeacherStatus = model.TeacherStatus(*r.Status)
	}
}

type TeacherResponse struct {
	*model.TeacherModel
	FullName string `json:"full_name"`
}

func FromTeacherModel(m *model.TeacherModel) TeacherResponse {
	return TeacherResponse{TeacherModel: m, FullName: m.FullName()}
}

func FromTeacherModels(rows []model.TeacherModel) []TeacherResponse {
	out := make([]TeacherResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromTeacherModel(&rows[i]))
	}
	return out
}

type CreatedTeacherResponse struct {
	Teacher         TeacherResponse `json:"teacher"`
	UserName        string          `json:"user_name"`
	InitialPassword string          `json:"initial_password"`
}

func normalizeGender(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male":
		return "Male"
	case "f", "female":
		return "Female"
	case "o", "other":
		return "Other"
	}
	return strings.TrimSpace(s)
}

func cleanSubjects(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, s := range in {
		s = strings.TrimSpace(s)
		k := strings.ToLower(s)
		if s == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}
