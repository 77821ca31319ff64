package service

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schooladmin_backend/internals/features/school/academics/classes/dto"
	"schooladmin_backend/internals/features/school/academics/classes/model"
	studentModel "schooladmin_backend/internals/features/school/students/model"
	studentService "schooladmin_backend/internals/features/school/students/service"
	helper "schooladmin_backend/internals/helpers"
)

var (
	ErrClassNotFound   = fiber.NewError(fiber.StatusNotFound, "Class not found")
	ErrClassExists     = fiber.NewError(fiber.StatusConflict, "Class with this name, section and academic year already exists")
	ErrAlreadyEnrolled = fiber.NewError(fiber.StatusBadRequest, "Student is already enrolled in this class")
	ErrClassFull       = fiber.NewError(fiber.StatusBadRequest, "Class is at full capacity")
	ErrNotEnrolled     = fiber.NewError(fiber.StatusBadRequest, "Student is not enrolled in this class")
	ErrClassHasPupils  = fiber.NewError(fiber.StatusBadRequest, "Cannot delete class with enrolled students")
	ErrCapacityTooLow  = fiber.NewError(fiber.StatusBadRequest, "Capacity is below the number of enrolled students")
)

// CheckCapacity rejects an enrollment that would push the roster past capacity.
func CheckCapacity(enrolled int64, capacity int) error {
	if enrolled >= int64(capacity) {
		return ErrClassFull
	}
	return nil
}

func classMembers(db *gorm.DB, c *model.ClassModel) *gorm.DB {
	return db.Model(&studentModel.StudentModel{}).
		Where("student_class_name = ? AND student_section = ? AND student_academic_year = ?",
			c.ClassName, c.ClassSection, c.ClassAcademicYear).
		Where("student_status = ?", studentModel.StudentStatusActive)
}

func CountStudents(db *gorm.DB, c *model.ClassModel) (int64, error) {
	var n int64
	err := classMembers(db, c).Count(&n).Error
	return n, err
}

func CreateClass(db *gorm.DB, req *dto.CreateClassRequest) (*model.ClassModel, error) {
	m := req.ToModel()
	if err := db.Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, ErrClassExists
		}
		return nil, err
	}
	return m, nil
}

type ClassFilter struct {
	AcademicYear string
	Name         string
	OnlyActive   bool
}

func ListClasses(db *gorm.DB, f ClassFilter, p helper.Paging) ([]dto.ClassResponse, int64, error) {
	q := db.Model(&model.ClassModel{})
	if f.AcademicYear != "" {
		q = q.Where("class_academic_year = ?", f.AcademicYear)
	}
	if f.Name != "" {
		q = q.Where("class_name = ?", f.Name)
	}
	if f.OnlyActive {
		q = q.Where("class_is_active = ?", true)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.ClassModel
	if err := q.Order("class_academic_year DESC, class_name ASC, class_section ASC").
		Limit(p.Limit).Offset(p.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]dto.ClassResponse, 0, len(rows))
	for i := range rows {
		n, err := CountStudents(db, &rows[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, dto.ClassResponse{ClassModel: &rows[i], StudentCount: n})
	}
	return out, total, nil
}

func GetClass(db *gorm.DB, id uuid.UUID) (*model.ClassModel, error) {
	var m model.ClassModel
	err := db.Where("class_id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func UpdateClass(db *gorm.DB, id uuid.UUID, req *dto.UpdateClassRequest) (*model.ClassModel, error) {
	m, err := GetClass(db, id)
	if err != nil {
		return nil, err
	}
	req.Apply(m)
	if req.Capacity != nil {
		n, err := CountStudents(db, m)
		if err != nil {
			return nil, err
		}
		if n > int64(m.ClassCapacity) {
			return nil, ErrCapacityTooLow
		}
	}
	if err := db.Save(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func DeleteClass(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		m, err := GetClass(tx, id)
		if err != nil {
			return err
		}
		n, err := CountStudents(tx, m)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrClassHasPupils
		}
		return tx.Delete(m).Error
	})
}

/* ===================== ROSTER ===================== */

func ListClassStudents(db *gorm.DB, id uuid.UUID) (*model.ClassModel, []studentModel.StudentModel, error) {
	m, err := GetClass(db, id)
	if err != nil {
		return nil, nil, err
	}
	var rows []studentModel.StudentModel
	if err := classMembers(db, m).
		Order("student_roll_number ASC NULLS LAST, student_first_name ASC").
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	return m, rows, nil
}

// AddStudent moves the student into the class. The class row is locked so two
// concurrent enrollments cannot both pass the capacity check.
func AddStudent(db *gorm.DB, classID, studentID uuid.UUID) (*studentModel.StudentModel, error) {
	var out *studentModel.StudentModel
	err := db.Transaction(func(tx *gorm.DB) error {
		var c model.ClassModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("class_id = ?", classID).Take(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		if err != nil {
			return err
		}
		s, err := studentService.GetStudent(tx, studentID)
		if err != nil {
			return err
		}
		if inClass(s, &c) {
			return ErrAlreadyEnrolled
		}
		n, err := CountStudents(tx, &c)
		if err != nil {
			return err
		}
		if err := CheckCapacity(n, c.ClassCapacity); err != nil {
			return err
		}
		if err := tx.Model(s).Updates(map[string]any{
			"student_class_name":    c.ClassName,
			"student_section":       c.ClassSection,
			"student_academic_year": c.ClassAcademicYear,
			"student_roll_number":   nil,
		}).Error; err != nil {
			return err
		}
		s.StudentClassName, s.StudentSection, s.StudentAcademicYear = c.ClassName, c.ClassSection, c.ClassAcademicYear
		s.StudentRollNumber = nil
		out = s
		return nil
	})
	return out, err
}

// RemoveStudent detaches the student from the class. The student keeps the
// class name but loses section and roll number until re-enrolled.
func RemoveStudent(db *gorm.DB, classID, studentID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		c, err := GetClass(tx, classID)
		if err != nil {
			return err
		}
		s, err := studentService.GetStudent(tx, studentID)
		if err != nil {
			return err
		}
		if !inClass(s, c) {
			return ErrNotEnrolled
		}
		return tx.Model(s).Updates(map[string]any{
			"student_section":     "",
			"student_roll_number": nil,
		}).Error
	})
}

func inClass(s *studentModel.StudentModel, c *model.ClassModel) bool {
	return s.StudentClassName == c.ClassName &&
		s.StudentSection == c.ClassSection &&
		s.StudentAcademicYear == c.ClassAcademicYear
}
