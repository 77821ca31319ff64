package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classController "schooladmin_backend/internals/features/school/academics/classes/controller"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
)

func ClassRoutes(r fiber.Router, db *gorm.DB) {
	ctl := classController.NewClassController(db)
	admin := authMiddleware.RequireAdmin("class management")
	staff := authMiddleware.RequireTeacher("class rosters")

	g := r.Group("/classes")
	g.Post("/", admin, ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", admin, ctl.Update)
	g.Delete("/:id", admin, ctl.Delete)

	g.Get("/:id/students", staff, ctl.Students)
	g.Post("/:id/students", admin, ctl.AddStudent)
	g.Delete("/:id/students/:studentId", admin, ctl.RemoveStudent)
}
