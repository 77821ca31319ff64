package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"schooladmin_backend/internals/features/school/students/model"
	helper "schooladmin_backend/internals/helpers"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
}

// NormalizeGender accepts m/f/o and any casing.
func NormalizeGender(s string) string {
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

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

/* ===================== Create ===================== */

type CreateStudentRequest struct {
	ScholarNumber     string   `json:"scholar_number" validate:"required,max=40"`
	FirstName         string   `json:"first_name" validate:"required,max=80"`
	MiddleName        *string  `json:"middle_name" validate:"omitempty,max=80"`
	LastName          string   `json:"last_name" validate:"max=80"`
	DateOfBirth       *string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender            string   `json:"gender" validate:"required,oneof=Male Female Other"`
	ClassName         string   `json:"class_name" validate:"required,max=50"`
	Section           string   `json:"section" validate:"omitempty,max=10"`
	RollNumber        *int     `json:"roll_number" validate:"omitempty,min=1"`
	AcademicYear      string   `json:"academic_year" validate:"required,max=20"`
	GuardianName      *string  `json:"guardian_name" validate:"omitempty,max=120"`
	GuardianPhone     *string  `json:"guardian_phone" validate:"omitempty,max=30"`
	GuardianEmail     *string  `json:"guardian_email" validate:"omitempty,email"`
	Address           *string  `json:"address"`
	MedicalConditions []string `json:"medical_conditions"`
	AdmissionDate     *string  `json:"admission_date" validate:"omitempty,datetime=2006-01-02"`
	// Login email; defaults to <scholar_number>@students.local.
	Email *string `json:"email" validate:"omitempty,email"`
}

func (r *CreateStudentRequest) Normalize() {
	r.ScholarNumber = strings.ToUpper(strings.TrimSpace(r.ScholarNumber))
	r.FirstName = helper.NormalizeName(r.FirstName)
	r.LastName = helper.NormalizeName(r.LastName)
	r.MiddleName = trimPtr(r.MiddleName)
	if r.MiddleName != nil {
		v := helper.NormalizeName(*r.MiddleName)
		r.MiddleName = &v
	}
	r.Gender = NormalizeGender(r.Gender)
	r.ClassName = strings.TrimSpace(r.ClassName)
	r.Section = strings.ToUpper(strings.TrimSpace(r.Section))
	if r.Section == "" {
		r.Section = "A"
	}
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
	r.DateOfBirth = trimPtr(r.DateOfBirth)
	r.GuardianName = trimPtr(r.GuardianName)
	r.GuardianPhone = trimPtr(r.GuardianPhone)
	r.GuardianEmail = trimPtr(r.GuardianEmail)
	r.Address = trimPtr(r.Address)
	r.AdmissionDate = trimPtr(r.AdmissionDate)
	r.Email = trimPtr(r.Email)
	r.MedicalConditions = cleanList(r.MedicalConditions)
}

func (r *CreateStudentRequest) Validate() error {
	return helper.Validator().Struct(r)
}

// ToModel expects a validated request. today is used when no admission date is given.
func (r *CreateStudentRequest) ToModel(today time.Time) *model.StudentModel {
	m := &model.StudentModel{
		StudentScholarNumber:     r.ScholarNumber,
		StudentFirstName:         r.FirstName,
		StudentMiddleName:        r.MiddleName,
		StudentLastName:          r.LastName,
		StudentGender:            r.Gender,
		StudentClassName:         r.ClassName,
		StudentSection:           r.Section,
		StudentRollNumber:        r.RollNumber,
		StudentAcademicYear:      r.AcademicYear,
		StudentGuardianName:      r.GuardianName,
		StudentGuardianPhone:     r.GuardianPhone,
		StudentGuardianEmail:     r.GuardianEmail,
		StudentAddress:           r.Address,
		StudentMedicalConditions: pq.StringArray(r.MedicalConditions),
		StudentStatus:            model.StudentStatusActive,
		StudentAdmissionDate:     today.UTC().Truncate(24 * time.Hour),
	}
	if r.DateOfBirth != nil {
		if d, err := parseDate(*r.DateOfBirth); err == nil {
			m.StudentDateOfBirth = &d
		}
	}
	if r.AdmissionDate != nil {
		if d, err := parseDate(*r.AdmissionDate); err == nil {
			m.StudentAdmissionDate = d
		}
	}
	return m
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		out = append(out, v)
	}
	return out
}

/* ===================== Update ===================== */

type UpdateStudentRequest struct {
	FirstName         *string   `json:"first_name" validate:"omitempty,min=1,max=80"`
	MiddleName        *string   `json:"middle_name" validate:"omitempty,max=80"`
	LastName          *string   `json:"last_name" validate:"omitempty,max=80"`
	DateOfBirth       *string   `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender            *string   `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	ClassName         *string   `json:"class_name" validate:"omitempty,min=1,max=50"`
	Section           *string   `json:"section" validate:"omitempty,min=1,max=10"`
	RollNumber        *int      `json:"roll_number" validate:"omitempty,min=1"`
	AcademicYear      *string   `json:"academic_year" validate:"omitempty,min=1,max=20"`
	GuardianName      *string   `json:"guardian_name" validate:"omitempty,max=120"`
	GuardianPhone     *string   `json:"guardian_phone" validate:"omitempty,max=30"`
	GuardianEmail     *string   `json:"guardian_email" validate:"omitempty,email"`
	Address           *string   `json:"address"`
	MedicalConditions *[]string `json:"medical_conditions"`
	Status            *string   `json:"status" validate:"omitempty,oneof=Active Inactive Transferred Graduated Dropped"`
}

func (r *UpdateStudentRequest) Validate() error {
	if r.Gender != nil {
		g := NormalizeGender(*r.Gender)
		r.Gender = &g
	}
	return helper.Validator().Struct(r)
}

// Apply copies the fields that were sent onto m.
func (r *UpdateStudentRequest) Apply(m *model.StudentModel) {
	if r.FirstName != nil {
		m.StudentFirstName = helper.NormalizeName(*r.FirstName)
	}
	if r.MiddleName != nil {
		m.StudentMiddleName = trimPtr(r.MiddleName)
	}
	if r.LastName != nil {
		m.StudentLastName = helper.NormalizeName(*r.LastName)
	}
	if r.DateOfBirth != nil {
		if d, err := parseDate(*r.DateOfBirth); err == nil {
			m.StudentDateOfBirth = &d
		}
	}
	if r.Gender != nil {
		m.StudentGender = *r.Gender
	}
	if r.ClassName != nil {
		m.StudentClassName = strings.TrimSpace(*r.ClassName)
	}
	if r.Section != nil {
		m.StudentSection = strings.ToUpper(strings.TrimSpace(*r.Section))
	}
	if r.RollNumber != nil {
		m.StudentRollNumber = r.RollNumber
	}
	if r.AcademicYear != nil {
		m.StudentAcademicYear = strings.TrimSpace(*r.AcademicYear)
	}
	if r.GuardianName != nil {
		m.StudentGuardianName = trimPtr(r.GuardianName)
	}
	if r.GuardianPhone != nil {
		m.StudentGuardianPhone = trimPtr(r.GuardianPhone)
	}
	if r.GuardianEmail != nil {
		m.StudentGuardianEmail = trimPtr(r.GuardianEmail)
	}
	if r.Address != nil {
		m.StudentAddress = trimPtr(r.Address)
	}
	if r.MedicalConditions != nil {
		m.StudentMedicalConditions = pq.StringArray(cleanList(*r.MedicalConditions))
	}
	if r.Status != nil {
		m.StudentStatus = model.StudentStatus(*r.Status)
	}
}

/* ===================== Responses ===================== */

type StudentResponse struct {
	*model.StudentModel
	FullName string `json:"full_name"`
}

func FromStudentModel(m *model.StudentModel) StudentResponse {
	return StudentResponse{StudentModel: m, FullName: m.FullName()}
}

func FromStudentModels(rows []model.StudentModel) []StudentResponse {
	out := make([]StudentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromStudentModel(&rows[i]))
	}
	return out
}

// CreatedStudentResponse carries the one-time generated password.
type CreatedStudentResponse struct {
	Student         StudentResponse `json:"student"`
	UserName        string          `json:"user_name"`
	InitialPassword string          `json:"initial_password"`
}

type ImportedStudent struct {
	StudentID       uuid.UUID `json:"student_id"`
	ScholarNumber   string    `json:"scholar_number"`
	UserName        string    `json:"user_name"`
	InitialPassword string    `json:"initial_password"`
}

type CSVRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type StudentImportResult struct {
	Created int               `json:"created"`
	Failed  int               `json:"failed"`
	Errors  []CSVRowError     `json:"errors"`
	Items   []ImportedStudent `json:"items"`
}
