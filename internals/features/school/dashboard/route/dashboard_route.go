package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dashboardController "schooladmin_backend/internals/features/school/dashboard/controller"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
)

func DashboardRoutes(r fiber.Router, db *gorm.DB) {
	ctl := dashboardController.NewDashboardController(db)
	r.Get("/admin/dashboard", authMiddleware.RequireAdmin("the dashboard"), ctl.Get)
}
