package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentController "schooladmin_backend/internals/features/finance/payments/controller"
	"schooladmin_backend/internals/middlewares"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
)

// PaymentPublicRoutes: gateway webhooks, authenticated by signature instead of token.
func PaymentPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctl := paymentController.NewPaymentController(db)
	hooks := r.Group("/payments/webhooks")
	hooks.Post("/midtrans", ctl.MidtransWebhook)
	hooks.Post("/stripe", ctl.StripeWebhook)
}

// PaymentRoutes: /api/payments (token required).
func PaymentRoutes(r fiber.Router, db *gorm.DB) {
	ctl := paymentController.NewPaymentController(db)
	admin := authMiddleware.RequireAdmin("payment management")
	limit := middlewares.PaymentRateLimiter()

	p := r.Group("/payments")
	p.Post("/initiate", limit, ctl.Initiate)
	p.Post("/verify", limit, ctl.Verify)
	p.Get("/me", authMiddleware.RequireStudent("own payments"), ctl.MyHistory)

	p.Post("/manual", admin, ctl.RecordManual)
	p.Get("/", admin, ctl.List)
	p.Post("/:code/refund", admin, ctl.Refund)

	p.Get("/:code/receipt", ctl.Receipt)
	p.Get("/:code", ctl.Get)

	r.Get("/students/:studentId/payments", ctl.StudentHistory)
}
