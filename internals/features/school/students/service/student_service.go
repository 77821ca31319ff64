package service

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schooladmin_backend/internals/constants"
	"schooladmin_backend/internals/features/school/students/dto"
	"schooladmin_backend/internals/features/school/students/model"
	userService "schooladmin_backend/internals/features/users/user/service"
	helper "schooladmin_backend/internals/helpers"
)

var ErrStudentNotFound = fiber.NewError(fiber.StatusNotFound, "Student not found")

/* ===================== CREATE ===================== */

// CreateStudent inserts the student and its login account in one transaction.
func CreateStudent(db *gorm.DB, req *dto.CreateStudentRequest, today time.Time) (*model.StudentModel, string, string, error) {
	m := req.ToModel(today)
	var userName, password string

	err := db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Unscoped().Model(&model.StudentModel{}).
			Where("student_scholar_number = ?", m.StudentScholarNumber).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Scholar number %s is already registered", m.StudentScholarNumber))
		}

		email := ""
		if req.Email != nil {
			email = *req.Email
		}
		u, plain, err := userService.CreateAccount(tx, userService.NewAccount{
			UserName: m.StudentScholarNumber,
			FullName: m.FullName(),
			Email:    email,
			Role:     constants.RoleStudent,
		})
		if err != nil {
			return err
		}
		m.StudentUserID = &u.ID
		userName, password = u.UserName, plain
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, "", "", err
	}
	return m, userName, password, nil
}

/* ===================== READ ===================== */

type StudentFilter struct {
	Search       string
	ClassName    string
	Section      string
	AcademicYear string
	Status       string
}

func ListStudents(db *gorm.DB, f StudentFilter, p helper.Paging) ([]model.StudentModel, int64, error) {
	q := db.Model(&model.StudentModel{})
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(`lower(student_first_name) LIKE ? OR lower(student_last_name) LIKE ?
			OR lower(student_scholar_number) LIKE ? OR lower(coalesce(student_guardian_name,'')) LIKE ?`,
			like, like, like, like)
	}
	if f.ClassName != "" {
		q = q.Where("student_class_name = ?", f.ClassName)
	}
	if f.Section != "" {
		q = q.Where("student_section = ?", strings.ToUpper(f.Section))
	}
	if f.AcademicYear != "" {
		q = q.Where("student_academic_year = ?", f.AcademicYear)
	}
	if f.Status != "" {
		q = q.Where("student_status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.StudentModel
	if err := q.Order("student_class_name ASC, student_section ASC, student_roll_number ASC NULLS LAST, student_first_name ASC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func GetStudent(db *gorm.DB, id uuid.UUID) (*model.StudentModel, error) {
	var m model.StudentModel
	err := db.Where("student_id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

/* ===================== UPDATE / DELETE ===================== */

func UpdateStudent(db *gorm.DB, id uuid.UUID, req *dto.UpdateStudentRequest) (*model.StudentModel, error) {
	var out *model.StudentModel
	err := db.Transaction(func(tx *gorm.DB) error {
		m, err := GetStudent(tx, id)
		if err != nil {
			return err
		}
		req.Apply(m)
		if err := tx.Save(m).Error; err != nil {
			return err
		}
		if req.Status != nil {
			if err := userService.SetAccountActive(tx, m.StudentUserID, m.StudentStatus == model.StudentStatusActive); err != nil {
				return err
			}
		}
		out = m
		return nil
	})
	return out, err
}

// DeleteStudent soft-deletes the student and deactivates the login. Fee history stays.
func DeleteStudent(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		m, err := GetStudent(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Model(m).Update("student_status", model.StudentStatusInactive).Error; err != nil {
			return err
		}
		if err := tx.Delete(m).Error; err != nil {
			return err
		}
		return userService.SetAccountActive(tx, m.StudentUserID, false)
	})
}

/* ===================== CSV ===================== */

// StudentRequestFromCSV maps one CSV row onto a create request.
// medical_conditions is a ';' separated list.
func StudentRequestFromCSV(row helper.CSVRow) (*dto.CreateStudentRequest, error) {
	opt := func(key string) *string {
		if v := row.Get(key); v != "" {
			return &v
		}
		return nil
	}
	req := &dto.CreateStudentRequest{
		ScholarNumber: row.Get("scholar_number"),
		FirstName:     row.Get("first_name"),
		MiddleName:    opt("middle_name"),
		LastName:      row.Get("last_name"),
		DateOfBirth:   opt("date_of_birth"),
		Gender:        row.Get("gender"),
		ClassName:     row.Get("class_name"),
		Section:       row.Get("section"),
		AcademicYear:  row.Get("academic_year"),
		GuardianName:  opt("guardian_name"),
		GuardianPhone: opt("guardian_phone"),
		GuardianEmail: opt("guardian_email"),
		Address:       opt("address"),
		AdmissionDate: opt("admission_date"),
		Email:         opt("email"),
	}
	if v := row.Get("roll_number"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("roll_number %q is not a number", v)
		}
		req.RollNumber = &n
	}
	if v := row.Get("medical_conditions"); v != "" {
		req.MedicalConditions = strings.Split(v, ";")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		if fields, ok := helper.ValidationFieldErrors(err); ok {
			return nil, errors.New(flattenFieldErrors(fields))
		}
		return nil, err
	}
	return req, nil
}

// ImportStudentsCSV creates each valid row on its own; one bad row does not stop the rest.
func ImportStudentsCSV(db *gorm.DB, rows []helper.CSVRow, today time.Time) dto.StudentImportResult {
	res := dto.StudentImportResult{Errors: []dto.CSVRowError{}, Items: []dto.ImportedStudent{}}
	seen := map[string]int{}

	for _, row := range rows {
		req, err := StudentRequestFromCSV(row)
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, dto.CSVRowError{Line: row.Line, Message: err.Error()})
			continue
		}
		if first, dup := seen[req.ScholarNumber]; dup {
			res.Failed++
			res.Errors = append(res.Errors, dto.CSVRowError{Line: row.Line, Message: fmt.Sprintf("scholar_number duplicates line %d", first)})
			continue
		}
		seen[req.ScholarNumber] = row.Line

		m, userName, password, err := CreateStudent(db, req, today)
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, dto.CSVRowError{Line: row.Line, Message: errorMessage(err)})
			continue
		}
		res.Created++
		res.Items = append(res.Items, dto.ImportedStudent{
			StudentID:       m.StudentID,
			ScholarNumber:   m.StudentScholarNumber,
			UserName:        userName,
			InitialPassword: password,
		})
	}
	return res
}

func flattenFieldErrors(fields map[string][]string) string {
	parts := make([]string, 0, len(fields))
	for k, msgs := range fields {
		parts = append(parts, k+": "+strings.Join(msgs, ", "))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func errorMessage(err error) string {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	if status, msg, ok := helper.MapPGError(err); ok && status != fiber.StatusInternalServerError {
		return msg
	}
	return "could not save row"
}
