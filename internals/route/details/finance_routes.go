package details

import (
	FeeRoutes "schooladmin_backend/internals/features/finance/fees/route"
	PaymentRoutes "schooladmin_backend/internals/features/finance/payments/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/* ===================== PUBLIC ===================== */
// Gateway callbacks carry their own signatures instead of a user token.
func FinancePublicRoutes(r fiber.Router, db *gorm.DB) {
	PaymentRoutes.PaymentPublicRoutes(r, db)
}

/* ===================== PRIVATE ===================== */
func FinanceRoutes(r fiber.Router, db *gorm.DB) {
	FeeRoutes.FeeRoutes(r, db)
	PaymentRoutes.PaymentRoutes(r, db)
}
