package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	timetableController "schooladmin_backend/internals/features/school/academics/timetables/controller"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
)

func TimetableRoutes(r fiber.Router, db *gorm.DB) {
	ctl := timetableController.NewTimetableController(db)
	admin := authMiddleware.RequireAdmin("timetable management")

	g := r.Group("/timetables")
	g.Put("/", admin, ctl.Upsert)
	g.Post("/entries", admin, ctl.UpsertEntry)
	g.Get("/", ctl.GetByClass)
	g.Delete("/:id", admin, ctl.Delete)

	r.Get("/teachers/:id/schedule", authMiddleware.RequireTeacher("teacher schedules"), ctl.TeacherSchedule)
}
