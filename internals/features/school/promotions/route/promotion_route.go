package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	promotionController "schooladmin_backend/internals/features/school/promotions/controller"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
)

func PromotionRoutes(r fiber.Router, db *gorm.DB) {
	ctl := promotionController.NewPromotionController(db)
	admin := authMiddleware.RequireAdmin("student promotion")
	staff := authMiddleware.RequireTeacher("promotion eligibility")

	g := r.Group("/promotions")
	g.Get("/eligible", staff, ctl.Eligible)
	g.Post("/bulk", admin, ctl.BulkPromote)
	g.Get("/students/:id/eligibility", staff, ctl.Eligibility)
	g.Get("/students/:id/history", ctl.History)
	g.Post("/students/:id", admin, ctl.Promote)
}
