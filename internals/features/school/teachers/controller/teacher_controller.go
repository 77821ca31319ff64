package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/features/school/teachers/dto"
	"schooladmin_backend/internals/features/school/teachers/model"
	"schooladmin_backend/internals/features/school/teachers/service"
	helper "schooladmin_backend/internals/helpers"
)

type TeacherController struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewTeacherController(db *gorm.DB) *TeacherController {
	return &TeacherController{DB: db, Now: time.Now}
}

func (tc *TeacherController) Create(c *fiber.Ctx) error {
	var req dto.CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.FromError(c, err)
	}
	m, userName, password, err := service.CreateTeacher(tc.DB, &req, tc.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Teacher created", dto.CreatedTeacherResponse{
		Teacher:         dto.FromTeacherModel(m),
		UserName:        userName,
		InitialPassword: password,
	})
}

// GET /teachers?search=&subject=&status=
func (tc *TeacherController) List(c *fiber.Ctx) error {
	status := strings.TrimSpace(c.Query("status"))
	if status != "" && !model.IsValidTeacherStatus(status) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid status filter")
	}
	p := helper.ResolvePaging(c, 20, 200)
	rows, total, err := service.ListTeachers(tc.DB, service.TeacherFilter{
		Search:  c.Query("search"),
		Subject: strings.TrimSpace(c.Query("subject")),
		Status:  status,
	}, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromTeacherModels(rows), helper.BuildPagination(total, p))
}

func (tc *TeacherController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.GetTeacher(tc.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromTeacherModel(m))
}

// GET /teachers/me
func (tc *TeacherController) Me(c *fiber.Ctx) error {
	id, err := helper.GetTeacherIDFromLocals(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.GetTeacher(tc.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromTeacherModel(m))
}

func (tc *TeacherController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.UpdateTeacher(tc.DB, id, &req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Teacher updated", dto.FromTeacherModel(m))
}

func (tc *TeacherController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := service.DeleteTeacher(tc.DB, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Teacher deleted", nil)
}
