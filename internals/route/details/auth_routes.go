package details

import (
	authRoute "schooladmin_backend/internals/features/users/auth/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AuthPublicRoutes(r fiber.Router, db *gorm.DB) {
	authRoute.AuthPublicRoutes(r, db)
}

func AuthPrivateRoutes(r fiber.Router, db *gorm.DB) {
	authRoute.AuthPrivateRoutes(r, db)
}
