package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	subjectController "schooladmin_backend/internals/features/school/academics/subjects/controller"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
)

func SubjectRoutes(r fiber.Router, db *gorm.DB) {
	ctl := subjectController.NewSubjectController(db)
	admin := authMiddleware.RequireAdmin("subject management")

	s := r.Group("/subjects")
	s.Post("/", admin, ctl.Create)
	s.Get("/", ctl.List)
	s.Get("/:id", ctl.Get)
	s.Patch("/:id", admin, ctl.Update)
	s.Delete("/:id", admin, ctl.Delete)
}
