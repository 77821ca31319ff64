package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/features/school/academics/subjects/dto"
	"schooladmin_backend/internals/features/school/academics/subjects/service"
	helper "schooladmin_backend/internals/helpers"
)

type SubjectController struct {
	DB *gorm.DB
}

func NewSubjectController(db *gorm.DB) *SubjectController {
	return &SubjectController{DB: db}
}

func (sc *SubjectController) Create(c *fiber.Ctx) error {
	var req dto.CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.CreateSubject(sc.DB, &req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Subject created", m)
}

// GET /subjects?search=&grade=&active=true
func (sc *SubjectController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 50, 200)
	rows, total, err := service.ListSubjects(sc.DB, service.SubjectFilter{
		Search:     c.Query("search"),
		Grade:      strings.TrimSpace(c.Query("grade")),
		OnlyActive: c.QueryBool("active", false),
	}, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

func (sc *SubjectController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.GetSubject(sc.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

func (sc *SubjectController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.UpdateSubject(sc.DB, id, &req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Subject updated", m)
}

func (sc *SubjectController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := service.DeleteSubject(sc.DB, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Subject deleted", nil)
}
