package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/features/school/academics/classes/dto"
	"schooladmin_backend/internals/features/school/academics/classes/service"
	studentDTO "schooladmin_backend/internals/features/school/students/dto"
	helper "schooladmin_backend/internals/helpers"
)

type ClassController struct {
	DB *gorm.DB
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{DB: db}
}

func (cc *ClassController) Create(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.CreateClass(cc.DB, &req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Class created", m)
}

// GET /classes?academic_year=&name=&active=true
func (cc *ClassController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 50, 200)
	rows, total, err := service.ListClasses(cc.DB, service.ClassFilter{
		AcademicYear: strings.TrimSpace(c.Query("academic_year")),
		Name:         strings.TrimSpace(c.Query("name")),
		OnlyActive:   c.QueryBool("active", false),
	}, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

func (cc *ClassController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.GetClass(cc.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	n, err := service.CountStudents(cc.DB, m)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ClassResponse{ClassModel: m, StudentCount: n})
}

func (cc *ClassController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.UpdateClass(cc.DB, id, &req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Class updated", m)
}

func (cc *ClassController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := service.DeleteClass(cc.DB, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Class deleted", nil)
}

/* ===== roster ===== */

func (cc *ClassController) Students(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, rows, err := service.ListClassStudents(cc.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ClassStudentsResponse{
		Class:    m,
		Students: studentDTO.FromStudentModels(rows),
	})
}

// POST /classes/:id/students {student_id}
func (cc *ClassController) AddStudent(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.EnrollStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validator().Struct(&req); err != nil {
		return helper.FromError(c, err)
	}
	s, err := service.AddStudent(cc.DB, id, req.StudentID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Student added to class", studentDTO.FromStudentModel(s))
}

func (cc *ClassController) RemoveStudent(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	studentID, err := helper.ParseUUIDParam(c, "studentId")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := service.RemoveStudent(cc.DB, id, studentID); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Student removed from class", nil)
}
