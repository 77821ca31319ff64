package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentController "schooladmin_backend/internals/features/school/students/controller"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
)

// StudentRoutes: /api/students (token required).
func StudentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := studentController.NewStudentController(db)
	admin := authMiddleware.RequireAdmin("student management")
	staff := authMiddleware.RequireTeacher("student records")

	s := r.Group("/students")
	s.Get("/me", authMiddleware.RequireStudent("own profile"), ctl.Me)
	s.Post("/upload", admin, ctl.Upload)
	s.Post("/", admin, ctl.Create)
	s.Get("/", staff, ctl.List)
	s.Get("/:id", ctl.Get)
	s.Patch("/:id", admin, ctl.Update)
	s.Delete("/:id", admin, ctl.Delete)
}
