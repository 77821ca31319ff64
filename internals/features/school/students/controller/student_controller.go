package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/features/school/students/dto"
	"schooladmin_backend/internals/features/school/students/model"
	"schooladmin_backend/internals/features/school/students/service"
	helper "schooladmin_backend/internals/helpers"
)

type StudentController struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db, Now: time.Now}
}

// POST /students
func (sc *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.FromError(c, err)
	}

	m, userName, password, err := service.CreateStudent(sc.DB, &req, sc.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Student created", dto.CreatedStudentResponse{
		Student:         dto.FromStudentModel(m),
		UserName:        userName,
		InitialPassword: password,
	})
}

// GET /students?search=&class_name=&section=&academic_year=&status=
func (sc *StudentController) List(c *fiber.Ctx) error {
	status := strings.TrimSpace(c.Query("status"))
	if status != "" && !model.IsValidStudentStatus(status) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid status filter")
	}
	p := helper.ResolvePaging(c, 20, 200)
	rows, total, err := service.ListStudents(sc.DB, service.StudentFilter{
		Search:       c.Query("search"),
		ClassName:    strings.TrimSpace(c.Query("class_name")),
		Section:      strings.TrimSpace(c.Query("section")),
		AcademicYear: strings.TrimSpace(c.Query("academic_year")),
		Status:       status,
	}, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromStudentModels(rows), helper.BuildPagination(total, p))
}

func (sc *StudentController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := helper.EnsureStudentScope(c, id); err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.GetStudent(sc.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromStudentModel(m))
}

// GET /students/me
func (sc *StudentController) Me(c *fiber.Ctx) error {
	id, err := helper.GetStudentIDFromLocals(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.GetStudent(sc.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromStudentModel(m))
}

// PATCH /students/:id
func (sc *StudentController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.UpdateStudent(sc.DB, id, &req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Student updated", dto.FromStudentModel(m))
}

func (sc *StudentController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := service.DeleteStudent(sc.DB, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Student deleted", nil)
}

// POST /students/upload (multipart, field "file")
func (sc *StudentController) Upload(c *fiber.Ctx) error {
	rows, err := helper.ReadUploadedCSV(c, "file")
	if err != nil {
		return helper.FromError(c, err)
	}
	if len(rows) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "CSV has no data rows")
	}
	res := service.ImportStudentsCSV(sc.DB, rows, sc.Now())
	return helper.JsonOK(c, "Students imported", res)
}
