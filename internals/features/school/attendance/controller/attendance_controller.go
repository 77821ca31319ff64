package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/features/school/attendance/dto"
	"schooladmin_backend/internals/features/school/attendance/service"
	helper "schooladmin_backend/internals/helpers"
)

type AttendanceController struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{DB: db, Now: time.Now}
}

// POST /attendance
func (ac *AttendanceController) Mark(c *fiber.Ctx) error {
	var req dto.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validator().Struct(&req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := service.MarkAttendance(ac.DB, &req, helper.GetUserIDPtr(c), ac.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Attendance marked successfully", m)
}

// POST /attendance/bulk
func (ac *AttendanceController) MarkBulk(c *fiber.Ctx) error {
	var req dto.BulkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validator().Struct(&req); err != nil {
		return helper.FromError(c, err)
	}
	out, err := service.MarkBulk(ac.DB, &req, helper.GetUserIDPtr(c), ac.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Bulk attendance marked", out)
}

// GET /attendance/classes/:classId/date/:date
func (ac *AttendanceController) ClassByDate(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "classId")
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := service.ClassAttendance(ac.DB, classID, c.Params("date"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Class attendance fetched successfully", out)
}

// GET /attendance/students/:id?start_date=&end_date=
func (ac *AttendanceController) Student(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := helper.EnsureStudentScope(c, id); err != nil {
		return helper.FromError(c, err)
	}
	out, err := service.StudentAttendance(ac.DB, id, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Student attendance fetched successfully", out)
}

// GET /attendance/me?start_date=&end_date=
func (ac *AttendanceController) Me(c *fiber.Ctx) error {
	id, err := helper.GetStudentIDFromLocals(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := service.StudentAttendance(ac.DB, id, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /attendance/classes/:classId/report/:year/:month
func (ac *AttendanceController) MonthlyReport(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "classId")
	if err != nil {
		return helper.FromError(c, err)
	}
	year, err1 := c.ParamsInt("year")
	month, err2 := c.ParamsInt("month")
	if err1 != nil || err2 != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "year and month must be numbers")
	}
	out, err := service.MonthlyReport(ac.DB, classID, year, month)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Monthly report generated", out)
}
