package service

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schooladmin_backend/internals/features/school/academics/timetables/dto"
	"schooladmin_backend/internals/features/school/academics/timetables/model"
)

var ErrTimetableNotFound = fiber.NewError(fiber.StatusNotFound, "Timetable not found")

type ClassKey struct {
	ClassName    string
	Section      string
	AcademicYear string
}

func findTimetable(tx *gorm.DB, k ClassKey, forUpdate bool) (*model.TimetableModel, error) {
	q := tx.Where("timetable_class_name = ? AND timetable_section = ? AND timetable_academic_year = ?",
		k.ClassName, k.Section, k.AcademicYear)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var m model.TimetableModel
	err := q.Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTimetableNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// otherTimetables: every other class's timetable in the same academic year.
func otherTimetables(tx *gorm.DB, k ClassKey) ([]model.TimetableModel, error) {
	var rows []model.TimetableModel
	err := tx.Where("timetable_academic_year = ? AND timetable_is_active = ?", k.AcademicYear, true).
		Where("NOT (timetable_class_name = ? AND timetable_section = ?)", k.ClassName, k.Section).
		Find(&rows).Error
	return rows, err
}

func save(tx *gorm.DB, k ClassKey, days []model.TimetableDay) (*model.TimetableModel, bool, error) {
	if err := ValidateDays(days); err != nil {
		return nil, false, err
	}
	others, err := otherTimetables(tx, k)
	if err != nil {
		return nil, false, err
	}
	if clashes := FindTeacherClashes(days, others); len(clashes) > 0 {
		msgs := make([]string, 0, len(clashes))
		for _, c := range clashes {
			msgs = append(msgs, c.String())
		}
		return nil, false, fiber.NewError(fiber.StatusConflict, "Teacher clash: "+strings.Join(msgs, "; "))
	}

	m, err := findTimetable(tx, k, true)
	created := false
	switch {
	case errors.Is(err, ErrTimetableNotFound):
		m = &model.TimetableModel{
			TimetableClassName:    k.ClassName,
			TimetableSection:      k.Section,
			TimetableAcademicYear: k.AcademicYear,
			TimetableIsActive:     true,
		}
		created = true
	case err != nil:
		return nil, false, err
	}
	m.TimetableDays = days
	if created {
		err = tx.Create(m).Error
	} else {
		err = tx.Save(m).Error
	}
	if err != nil {
		return nil, false, err
	}
	return m, created, nil
}

// UpsertTimetable replaces the whole week for a class.
func UpsertTimetable(db *gorm.DB, req *dto.UpsertTimetableRequest) (*model.TimetableModel, bool, error) {
	var out *model.TimetableModel
	var created bool
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		out, created, err = save(tx, ClassKey{req.ClassName, req.Section, req.AcademicYear}, req.Days)
		return err
	})
	return out, created, err
}

// UpsertEntry edits one slot of a class timetable, creating the timetable if needed.
func UpsertEntry(db *gorm.DB, req *dto.UpsertEntryRequest) (*model.TimetableModel, error) {
	var out *model.TimetableModel
	err := db.Transaction(func(tx *gorm.DB) error {
		k := ClassKey{req.ClassName, req.Section, req.AcademicYear}
		var days []model.TimetableDay
		existing, err := findTimetable(tx, k, true)
		switch {
		case err == nil:
			days = append(days, existing.TimetableDays...)
		case !errors.Is(err, ErrTimetableNotFound):
			return err
		}
		out, _, err = save(tx, k, UpsertSlot(days, req.Day, req.Slot))
		return err
	})
	return out, err
}

func GetTimetable(db *gorm.DB, k ClassKey) (*model.TimetableModel, error) {
	return findTimetable(db, k, false)
}

func GetTeacherSchedule(db *gorm.DB, teacherID uuid.UUID, academicYear string) (dto.TeacherScheduleResponse, error) {
	q := db.Where("timetable_is_active = ?", true).
		Where("timetable_days @> ?", `[{"slots":[{"teacher_id":"`+teacherID.String()+`"}]}]`)
	if academicYear != "" {
		q = q.Where("timetable_academic_year = ?", academicYear)
	}
	var rows []model.TimetableModel
	if err := q.Find(&rows).Error; err != nil {
		return dto.TeacherScheduleResponse{}, err
	}
	return TeacherSchedule(teacherID, rows), nil
}

func DeleteTimetable(db *gorm.DB, id uuid.UUID) error {
	res := db.Where("timetable_id = ?", id).Delete(&model.TimetableModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTimetableNotFound
	}
	return nil
}
