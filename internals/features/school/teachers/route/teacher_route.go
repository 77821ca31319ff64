package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	teacherController "schooladmin_backend/internals/features/school/teachers/controller"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
)

func TeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctl := teacherController.NewTeacherController(db)
	admin := authMiddleware.RequireAdmin("teacher management")
	staff := authMiddleware.RequireTeacher("teacher records")

	t := r.Group("/teachers")
	t.Get("/me", staff, ctl.Me)
	t.Post("/", admin, ctl.Create)
	t.Get("/", staff, ctl.List)
	t.Get("/:id", staff, ctl.Get)
	t.Patch("/:id", admin, ctl.Update)
	t.Delete("/:id", admin, ctl.Delete)
}
