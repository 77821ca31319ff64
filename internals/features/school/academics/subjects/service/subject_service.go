package service

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schooladmin_backend/internals/features/school/academics/subjects/dto"
	"schooladmin_backend/internals/features/school/academics/subjects/model"
	helper "schooladmin_backend/internals/helpers"
)

var (
	ErrSubjectNotFound  = fiber.NewError(fiber.StatusNotFound, "Subject not found")
	ErrSubjectCodeTaken = fiber.NewError(fiber.StatusConflict, "Subject code already exists")
)

func codeTaken(db *gorm.DB, code string, exclude uuid.UUID) (bool, error) {
	var n int64
	err := db.Model(&model.SubjectModel{}).
		Where("upper(subject_code) = ? AND subject_id <> ?", strings.ToUpper(code), exclude).
		Count(&n).Error
	return n > 0, err
}

func CreateSubject(db *gorm.DB, req *dto.CreateSubjectRequest) (*model.SubjectModel, error) {
	taken, err := codeTaken(db, req.Code, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSubjectCodeTaken
	}
	m := req.ToModel()
	if err := db.Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, ErrSubjectCodeTaken
		}
		return nil, err
	}
	return m, nil
}

type SubjectFilter struct {
	Search     string
	Grade      string
	OnlyActive bool
}

func ListSubjects(db *gorm.DB, f SubjectFilter, p helper.Paging) ([]model.SubjectModel, int64, error) {
	q := db.Model(&model.SubjectModel{})
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("lower(subject_name) LIKE ? OR lower(subject_code) LIKE ?", like, like)
	}
	if f.Grade != "" {
		q = q.Where("subject_grade = ?", f.Grade)
	}
	if f.OnlyActive {
		q = q.Where("subject_is_active = ?", true)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.SubjectModel
	if err := q.Order("subject_name ASC").Limit(p.Limit).Offset(p.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func GetSubject(db *gorm.DB, id uuid.UUID) (*model.SubjectModel, error) {
	var m model.SubjectModel
	err := db.Where("subject_id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func UpdateSubject(db *gorm.DB, id uuid.UUID, req *dto.UpdateSubjectRequest) (*model.SubjectModel, error) {
	m, err := GetSubject(db, id)
	if err != nil {
		return nil, err
	}
	if req.Code != nil && *req.Code != m.SubjectCode {
		taken, err := codeTaken(db, *req.Code, m.SubjectID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSubjectCodeTaken
		}
	}
	req.Apply(m)
	if err := db.Save(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func DeleteSubject(db *gorm.DB, id uuid.UUID) error {
	res := db.Where("subject_id = ?", id).Delete(&model.SubjectModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSubjectNotFound
	}
	return nil
}
