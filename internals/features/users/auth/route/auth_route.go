package route

import (
	controller "schooladmin_backend/internals/features/users/auth/controller"
	rateLimiter "schooladmin_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthPublicRoutes: /api/auth (no token)
func AuthPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewAuthController(db)
	auth := r.Group("/auth")
	auth.Post("/login", rateLimiter.LoginRateLimiter(), ctl.Login)
}

// AuthPrivateRoutes: /api/auth (token required)
func AuthPrivateRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewAuthController(db)
	auth := r.Group("/auth")
	auth.Get("/me", ctl.Me)
	auth.Post("/change-password", ctl.ChangePassword)
	auth.Post("/logout", ctl.Logout)
}
