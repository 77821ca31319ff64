package service

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schooladmin_backend/internals/constants"
	"schooladmin_backend/internals/features/school/teachers/dto"
	"schooladmin_backend/internals/features/school/teachers/model"
	userService "schooladmin_backend/internals/features/users/user/service"
	helper "schooladmin_backend/internals/helpers"
)

var ErrTeacherNotFound = fiber.NewError(fiber.StatusNotFound, "Teacher not found")

func CreateTeacher(db *gorm.DB, req *dto.CreateTeacherRequest, today time.Time) (*model.TeacherModel, string, string, error) {
	m := req.ToModel(today)
	var userName, password string
	err := db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Unscoped().Model(&model.TeacherModel{}).
			Where("teacher_enrollment_no = ?", m.TeacherEnrollmentNo).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fiber.NewError(fiber.StatusConflict, "Enrollment number is already registered")
		}
		u, plain, err := userService.CreateAccount(tx, userService.NewAccount{
			UserName: m.TeacherEnrollmentNo,
			FullName: m.FullName(),
			Email:    m.TeacherEmail,
			Role:     constants.RoleTeacher,
		})
		if err != nil {
			return err
		}
		m.TeacherUserID = &u.ID
		userName, password = u.UserName, plain
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, "", "", err
	}
	return m, userName, password, nil
}

type TeacherFilter struct {
	Search  string
	Subject string
	Status  string
}

func ListTeachers(db *gorm.DB, f TeacherFilter, p helper.Paging) ([]model.TeacherModel, int64, error) {
	q := db.Model(&model.TeacherModel{})
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("lower(teacher_first_name) LIKE ? OR lower(teacher_last_name) LIKE ? OR lower(teacher_enrollment_no) LIKE ? OR lower(teacher_email) LIKE ?",
			like, like, like, like)
	}
	if f.Subject != "" {
		q = q.Where("? = ANY(teacher_subjects)", f.Subject)
	}
	if f.Status != "" {
		q = q.Where("teacher_status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.TeacherModel
	if err := q.Order("teacher_first_name ASC, teacher_last_name ASC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func GetTeacher(db *gorm.DB, id uuid.UUID) (*model.TeacherModel, error) {
	var m model.TeacherModel
	err := db.Where("teacher_id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeacherNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func UpdateTeacher(db *gorm.DB, id uuid.UUID, req *dto.UpdateTeacherRequest) (*model.TeacherModel, error) {
	var out *model.TeacherModel
	err := db.Transaction(func(tx *gorm.DB) error {
		m, err := GetTeacher(tx, id)
		if err != nil {
			return err
		}
		req.Apply(m)
		if err := tx.Save(m).Error; err != nil {
			return err
		}
		if req.Status != nil {
			// on leave keeps the login
			if err := userService.SetAccountActive(tx, m.TeacherUserID, m.TeacherStatus != model.TeacherStatusInactive); err != nil {
				return err
			}
		}
		out = m
		return nil
	})
	return out, err
}

func DeleteTeacher(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		m, err := GetTeacher(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(m).Error; err != nil {
			return err
		}
		return userService.SetAccountActive(tx, m.TeacherUserID, false)
	})
}
