package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceController "schooladmin_backend/internals/features/school/attendance/controller"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
)

func AttendanceRoutes(r fiber.Router, db *gorm.DB) {
	ctl := attendanceController.NewAttendanceController(db)
	staff := authMiddleware.RequireTeacher("attendance")

	g := r.Group("/attendance")
	g.Post("/", staff, ctl.Mark)
	g.Post("/bulk", staff, ctl.MarkBulk)
	g.Get("/me", authMiddleware.RequireStudent("own attendance"), ctl.Me)
	g.Get("/classes/:classId/date/:date", staff, ctl.ClassByDate)
	g.Get("/classes/:classId/report/:year/:month", staff, ctl.MonthlyReport)
	g.Get("/students/:id", ctl.Student)
}
