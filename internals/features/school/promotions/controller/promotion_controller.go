package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/features/school/promotions/dto"
	"schooladmin_backend/internals/features/school/promotions/service"
	helper "schooladmin_backend/internals/helpers"
)

type PromotionController struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewPromotionController(db *gorm.DB) *PromotionController {
	return &PromotionController{DB: db, Now: time.Now}
}

// criteriaFromQuery: ?minimum_percentage=&minimum_attendance=&minimum_pass_rate=&required_subjects=MATH,ENG
func criteriaFromQuery(c *fiber.Ctx) dto.Criteria {
	cr := dto.Criteria{
		MinimumPercentage: c.QueryFloat("minimum_percentage", 0),
		MinimumAttendance: c.QueryFloat("minimum_attendance", 0),
		MinimumPassRate:   c.QueryFloat("minimum_pass_rate", 0),
	}
	if raw := strings.TrimSpace(c.Query("required_subjects")); raw != "" {
		cr.RequiredSubjects = strings.Split(raw, ",")
	}
	return cr
}

// GET /promotions/students/:id/eligibility
func (pc *PromotionController) Eligibility(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	cr := criteriaFromQuery(c)
	if err := helper.Validator().Struct(&cr); err != nil {
		return helper.FromError(c, err)
	}
	out, err := service.CheckEligibility(pc.DB, id, cr)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// POST /promotions/students/:id
func (pc *PromotionController) Promote(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.PromoteRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.FromError(c, err)
	}
	out, err := service.PromoteStudent(pc.DB, id, &req, helper.GetUserIDPtr(c), pc.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	if !out.Promoted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":    false,
			"message":    out.Message,
			"error_code": "NOT_ELIGIBLE",
			"data":       out,
		})
	}
	return helper.JsonOK(c, out.Message, out)
}

// POST /promotions/bulk
func (pc *PromotionController) BulkPromote(c *fiber.Ctx) error {
	var req dto.BulkPromoteRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.FromError(c, err)
	}
	out, err := service.BulkPromote(pc.DB, &req, helper.GetUserIDPtr(c), pc.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Bulk promotion completed", out)
}

// GET /promotions/students/:id/history
func (pc *PromotionController) History(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := helper.EnsureStudentScope(c, id); err != nil {
		return helper.FromError(c, err)
	}
	out, err := service.History(pc.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /promotions/eligible?class_name=&section=&academic_year=
func (pc *PromotionController) Eligible(c *fiber.Ctx) error {
	className := strings.TrimSpace(c.Query("class_name"))
	section := strings.ToUpper(strings.TrimSpace(c.Query("section")))
	year := strings.TrimSpace(c.Query("academic_year"))
	if className == "" || section == "" || year == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "class_name, section and academic_year are required")
	}
	cr := criteriaFromQuery(c)
	if err := helper.Validator().Struct(&cr); err != nil {
		return helper.FromError(c, err)
	}
	out, err := service.EligibleStudents(pc.DB, className, section, year, cr)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}
