package routes

import (
	"log"
	"time"

	authMiddleware "schooladmin_backend/internals/middlewares/auth"
	routeDetails "schooladmin_backend/internals/route/details"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== PUBLIC =====================
	// Registered before the private group: fiber runs group middleware for
	// every later route sharing the /api prefix.
	log.Println("[INFO] Setting up PUBLIC routes...")
	public := app.Group("/api")
	routeDetails.AuthPublicRoutes(public, db)
	routeDetails.FinancePublicRoutes(public, db)

	// ===================== PRIVATE =====================
	log.Println("[INFO] Setting up PRIVATE group (JWT)...")
	private := app.Group("/api", authMiddleware.AuthMiddleware(db))

	log.Println("[INFO] Mounting Auth routes...")
	routeDetails.AuthPrivateRoutes(private, db)

	log.Println("[INFO] Mounting Finance routes...")
	routeDetails.FinanceRoutes(private, db)

	log.Println("[INFO] Mounting School routes...")
	routeDetails.SchoolRoutes(private, db)
}
