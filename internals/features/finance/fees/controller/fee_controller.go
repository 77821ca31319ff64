package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schooladmin_backend/internals/configs"
	"schooladmin_backend/internals/features/finance/fees/dto"
	"schooladmin_backend/internals/features/finance/fees/service"
	helper "schooladmin_backend/internals/helpers"
)

type FeeController struct {
	DB      *gorm.DB
	LateFee configs.LateFeeConfig
	Now     func() time.Time
}

func NewFeeController(db *gorm.DB) *FeeController {
	return &FeeController{
		DB:      db,
		LateFee: configs.LoadLateFeeConfig(),
		Now:     time.Now,
	}
}

/* =========================
   Fee structures
========================= */

// POST /fees/structures
func (fc *FeeController) UpsertStructure(c *fiber.Ctx) error {
	var req dto.UpsertFeeStructureRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		if fields, ok := helper.ValidationFieldErrors(err); ok {
			return helper.JsonValidationError(c, fields)
		}
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m, created, err := service.UpsertFeeStructure(fc.DB, &req)
	if err != nil {
		return helper.FromError(c, err)
	}
	if created {
		return helper.JsonCreated(c, "Fee structure created", dto.FromFeeStructureModel(m))
	}
	return helper.JsonUpdated(c, "Fee structure updated", dto.FromFeeStructureModel(m))
}

// GET /fees/structures?academic_year=&class_name=&active=true
func (fc *FeeController) ListStructures(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := service.ListFeeStructures(fc.DB, service.FeeStructureFilter{
		AcademicYear: strings.TrimSpace(c.Query("academic_year")),
		ClassName:    strings.TrimSpace(c.Query("class_name")),
		OnlyActive:   c.QueryBool("active", false),
	}, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromFeeStructureModels(rows), helper.BuildPagination(total, p))
}

func (fc *FeeController) GetStructure(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.GetFeeStructure(fc.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromFeeStructureModel(m))
}

func (fc *FeeController) DeleteStructure(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := service.DeleteFeeStructure(fc.DB, id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Fee structure deleted", fiber.Map{"fee_structure_id": id})
}

// POST /fees/structures/upload (multipart field "file")
func (fc *FeeController) UploadStructuresCSV(c *fiber.Ctx) error {
	rows, err := helper.ReadUploadedCSV(c, "file")
	if err != nil {
		return helper.FromError(c, err)
	}
	res := service.ImportFeeStructuresCSV(fc.DB, rows)
	return helper.JsonOK(c, "Fee structures imported", res)
}

// POST /fees/structures/:id/assign
func (fc *FeeController) AssignStructure(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.AssignFeeStructureRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validator().Struct(&req); err != nil {
		return helper.FromError(c, err)
	}
	res, err := service.AssignStructureToClass(fc.DB, id, &req, fc.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Fees assigned to class", res)
}

/* =========================
   Fee collections
========================= */

// POST /fees/collections
func (fc *FeeController) CreateCollection(c *fiber.Ctx) error {
	var req dto.CreateFeeCollectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		if fields, ok := helper.ValidationFieldErrors(err); ok {
			return helper.JsonValidationError(c, fields)
		}
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	now := fc.Now()
	m, err := service.CreateFeeCollection(fc.DB, &req, now)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Fee collection created", dto.FromFeeCollectionModel(m, now))
}

// GET /fees/collections?student_id=&academic_year=&status=
func (fc *FeeController) ListCollections(c *fiber.Ctx) error {
	status, err := service.ParseStatus(c.Query("status"))
	if err != nil {
		return helper.FromError(c, err)
	}
	f := service.FeeCollectionFilter{
		AcademicYear: strings.TrimSpace(c.Query("academic_year")),
		Status:       status,
	}
	if s := strings.TrimSpace(c.Query("student_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id is not a valid UUID")
		}
		f.StudentID = &id
	}

	now := fc.Now()
	p := helper.ResolvePaging(c, 20, 200)
	rows, total, err := service.ListFeeCollections(fc.DB, f, p, now)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromFeeCollectionModels(rows, now), helper.BuildPagination(total, p))
}

func (fc *FeeController) GetCollection(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.GetFeeCollection(fc.DB, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := helper.EnsureStudentScope(c, m.FeeCollectionStudentID); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromFeeCollectionModel(m, fc.Now()))
}

/* =========================
   Student views
========================= */

// GET /fees/students/:studentId?academic_year=
func (fc *FeeController) StudentDetails(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "studentId")
	if err != nil {
		return helper.FromError(c, err)
	}
	return fc.studentDetails(c, id)
}

// GET /fees/me
func (fc *FeeController) MyDetails(c *fiber.Ctx) error {
	id, err := helper.GetStudentIDFromLocals(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return fc.studentDetails(c, id)
}

func (fc *FeeController) studentDetails(c *fiber.Ctx, studentID uuid.UUID) error {
	if err := helper.EnsureStudentScope(c, studentID); err != nil {
		return helper.FromError(c, err)
	}
	out, err := service.StudentFeeDetails(fc.DB, studentID, strings.TrimSpace(c.Query("academic_year")), fc.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /fees/students/:studentId/dues?academic_year=
func (fc *FeeController) StudentDues(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "studentId")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := helper.EnsureStudentScope(c, id); err != nil {
		return helper.FromError(c, err)
	}
	year := strings.TrimSpace(c.Query("academic_year"))
	now := fc.Now()
	noDues, err := service.HasNoPendingDues(fc.DB, id, year, now)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"student_id":          id,
		"has_no_pending_dues": noDues,
		"exam_results":        service.CanAccessExamResults(fc.DB, id, year, now),
	})
}

/* =========================
   Late fees
========================= */

// POST /fees/late-fees/recalculate
func (fc *FeeController) RecalculateLateFees(c *fiber.Ctx) error {
	var req dto.RecalculateLateFeesRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
		if err := helper.Validator().Struct(&req); err != nil {
			return helper.FromError(c, err)
		}
	}

	perDay := fc.LateFee.PerDay
	if req.PerDay != nil {
		perDay = *req.PerDay
	}
	asOf := fc.Now()
	if req.AsOf != nil && *req.AsOf != "" {
		t, err := dto.ParseDate(*req.AsOf)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		asOf = t
	}

	res, err := service.RecalculateLateFees(fc.DB, asOf, perDay)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Late fees recalculated", res)
}
