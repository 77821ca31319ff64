package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/constants"
	"schooladmin_backend/internals/features/school/academics/timetables/dto"
	"schooladmin_backend/internals/features/school/academics/timetables/service"
	helper "schooladmin_backend/internals/helpers"
)

type TimetableController struct {
	DB *gorm.DB
}

func NewTimetableController(db *gorm.DB) *TimetableController {
	return &TimetableController{DB: db}
}

// PUT /timetables
func (tc *TimetableController) Upsert(c *fiber.Ctx) error {
	var req dto.UpsertTimetableRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.FromError(c, err)
	}
	m, created, err := service.UpsertTimetable(tc.DB, &req)
	if err != nil {
		return helper.FromError(c, err)
	}
	if created {
		return helper.JsonCreated(c, "Timetable created", m)
	}
	return helper.JsonUpdated(c, "Timetable updated", m)
}

// POST /timetables/entries
func (tc *TimetableController) UpsertEntry(c *fiber.Ctx) error {
	var req dto.UpsertEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.UpsertEntry(tc.DB, &req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Timetable entry saved", m)
}

// GET /timetables?class_name=&section=&academic_year=
func (tc *TimetableController) GetByClass(c *fiber.Ctx) error {
	k := service.ClassKey{
		ClassName:    strings.TrimSpace(c.Query("class_name")),
		Section:      strings.ToUpper(strings.TrimSpace(c.Query("section", "A"))),
		AcademicYear: strings.TrimSpace(c.Query("academic_year")),
	}
	if k.ClassName == "" || k.AcademicYear == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "class_name and academic_year are required")
	}
	m, err := service.GetTimetable(tc.DB, k)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

// GET /teachers/:id/schedule?academic_year=
func (tc *TimetableController) TeacherSchedule(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if helper.GetRole(c) == constants.RoleTeacher {
		own, err := helper.GetTeacherIDFromLocals(c)
		if err != nil {
			return helper.FromError(c, err)
		}
		if own != id {
			return helper.JsonError(c, fiber.StatusForbidden, "Teachers can only view their own schedule")
		}
	}
	out, err := service.GetTeacherSchedule(tc.DB, id, strings.TrimSpace(c.Query("academic_year")))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

func (tc *TimetableController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := service.DeleteTimetable(tc.DB, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Timetable deleted", nil)
}
