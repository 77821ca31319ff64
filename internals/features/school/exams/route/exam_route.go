package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	examController "schooladmin_backend/internals/features/school/exams/controller"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
)

func ExamRoutes(r fiber.Router, db *gorm.DB) {
	ctl := examController.NewExamController(db)
	staff := authMiddleware.RequireTeacher("exam management")

	r.Get("/students/me/results", authMiddleware.RequireStudent("own exam results"), ctl.MyResults)

	g := r.Group("/exams")
	g.Post("/", staff, ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", staff, ctl.Update)
	g.Delete("/:id", staff, ctl.Delete)
	g.Post("/:id/results", staff, ctl.SubmitResults)
	g.Get("/:id/results", staff, ctl.Results)
}
