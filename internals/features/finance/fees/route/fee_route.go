package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feeController "schooladmin_backend/internals/features/finance/fees/controller"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
)

// FeeRoutes: /api/fees (token required). Role checks are per route because
// group middleware in fiber applies to every route sharing the prefix.
func FeeRoutes(r fiber.Router, db *gorm.DB) {
	ctl := feeController.NewFeeController(db)
	admin := authMiddleware.RequireAdmin("fee management")
	fees := r.Group("/fees")

	structures := fees.Group("/structures")
	{
		structures.Post("/", admin, ctl.UpsertStructure)
		structures.Get("/", admin, ctl.ListStructures)
		structures.Post("/upload", admin, ctl.UploadStructuresCSV)
		structures.Get("/:id", admin, ctl.GetStructure)
		structures.Delete("/:id", admin, ctl.DeleteStructure)
		structures.Post("/:id/assign", admin, ctl.AssignStructure)
	}

	collections := fees.Group("/collections")
	{
		collections.Post("/", admin, ctl.CreateCollection)
		collections.Get("/", admin, ctl.ListCollections)
		collections.Get("/:id", ctl.GetCollection)
	}

	fees.Post("/late-fees/recalculate", admin, ctl.RecalculateLateFees)

	// students see only their own records
	fees.Get("/me", authMiddleware.RequireStudent("own fees"), ctl.MyDetails)
	fees.Get("/students/:studentId", ctl.StudentDetails)
	fees.Get("/students/:studentId/dues", ctl.StudentDues)
}
