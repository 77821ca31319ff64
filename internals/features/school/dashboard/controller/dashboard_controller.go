package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/configs"
	"schooladmin_backend/internals/features/school/dashboard/service"
	helper "schooladmin_backend/internals/helpers"
)

type DashboardController struct {
	DB       *gorm.DB
	Currency string
	Now      func() time.Time
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db, Currency: configs.LoadPaymentConfig().Currency, Now: time.Now}
}

// GET /admin/dashboard?academic_year=
func (dc *DashboardController) Get(c *fiber.Ctx) error {
	out, err := service.Build(dc.DB, strings.TrimSpace(c.Query("academic_year")), dc.Currency, dc.Now())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}
