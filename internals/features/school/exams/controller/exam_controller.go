package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	feeService "schooladmin_backend/internals/features/finance/fees/service"
	"schooladmin_backend/internals/features/school/exams/dto"
	"schooladmin_backend/internals/features/school/exams/model"
	"schooladmin_backend/internals/features/school/exams/service"
	helper "schooladmin_backend/internals/helpers"
)

type ExamController struct {
	DB   *gorm.DB
	Now  func() time.Time
	Gate service.ResultGate
}

func NewExamController(db *gorm.DB) *ExamController {
	return &ExamController{DB: db, Now: time.Now, Gate: feeGate}
}

func feeGate(db *gorm.DB, studentID uuid.UUID, academicYear string, asOf time.Time) (bool, string) {
	a := feeService.CanAccessExamResults(db, studentID, academicYear, asOf)
	return a.CanAccess, a.Reason
}

func (ec *ExamController) Create(c *fiber.Ctx) error {
	var req dto.CreateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.CreateExam(ec.DB, &req, helper.GetUserIDPtr(c))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Exam created", m)
}

// GET /exams?class_name=&section=&academic_year=&subject_id=&status=
func (ec *ExamController) List(c *fiber.Ctx) error {
	f := service.ExamFilter{
		ClassName:    strings.TrimSpace(c.Query("class_name")),
		Section:      strings.ToUpper(strings.TrimSpace(c.Query("section"))),
		AcademicYear: strings.TrimSpace(c.Query("academic_year")),
		Status:       strings.TrimSpace(c.Query("status")),
	}
	if raw := c.Query("subject_id"); raw != "" {
		id, err := helper.ParseUUIDQuery(raw, "subject_id")
		if err != nil {
			return helper.FromError(c, err)
		}
		f.SubjectID = &id
	}
	if f.Status != "" {
		switch model.ExamStatus(f.Status) {
		case model.ExamStatusScheduled, model.ExamStatusCompleted, model.ExamStatusCancelled:
		default:
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid status filter")
		}
	}
	p := helper.ResolvePaging(c, 20, 200)
	rows, total, err := service.ListExams(ec.DB, f, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p))
}

func (ec *ExamController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.GetExam(ec.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

func (ec *ExamController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.UpdateExam(ec.DB, id, &req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Exam updated", m)
}

func (ec *ExamController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := service.DeleteExam(ec.DB, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Exam deleted", nil)
}

/* ===== results ===== */

// POST /exams/:id/results {student_id, marks_obtained, is_absent} or {results: [...]}
func (ec *ExamController) SubmitResults(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.SubmitResultsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	items := req.Items()
	for i := range items {
		if err := helper.Validator().Struct(&items[i]); err != nil {
			return helper.FromError(c, err)
		}
	}
	rows, err := service.SubmitResults(ec.DB, id, items, helper.GetUserIDPtr(c))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Results saved", rows)
}

func (ec *ExamController) Results(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	rows, err := service.ListExamResults(ec.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /students/me/results
func (ec *ExamController) MyResults(c *fiber.Ctx) error {
	studentID, err := helper.GetStudentIDFromLocals(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := service.MyResults(ec.DB, studentID, ec.Gate, ec.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}
