package controller

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schooladmin_backend/internals/configs"
	"schooladmin_backend/internals/features/finance/payments/dto"
	"schooladmin_backend/internals/features/finance/payments/gateway"
	"schooladmin_backend/internals/features/finance/payments/model"
	"schooladmin_backend/internals/features/finance/payments/service"
	helper "schooladmin_backend/internals/helpers"
)

type PaymentController struct {
	Svc *service.Service
}

// NewGatewayRegistry registers MANUAL always and the online gateways whose keys are set.
func NewGatewayRegistry(cfg configs.PaymentConfig) *gateway.Registry {
	reg := gateway.NewRegistry(gateway.NewManual())
	if cfg.MidtransServerKey != "" {
		reg.Register(gateway.NewMidtrans(cfg.MidtransServerKey, cfg.MidtransProduction))
	} else {
		log.Println("[WARN] MIDTRANS_SERVER_KEY not set, midtrans payments disabled")
	}
	if cfg.StripeSecretKey != "" {
		reg.Register(gateway.NewStripe(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.Currency))
	} else {
		log.Println("[WARN] STRIPE_SECRET_KEY not set, stripe payments disabled")
	}
	return reg
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	cfg := configs.LoadPaymentConfig()
	svc := service.NewService(
		service.NewGormStore(db),
		NewGatewayRegistry(cfg),
		service.NewSMTPMailer(configs.LoadSMTPConfig()),
		cfg.Currency,
	)
	return &PaymentController{Svc: svc}
}

/* =========================
   Online payments
========================= */

// POST /payments/initiate
func (h *PaymentController) Initiate(c *fiber.Ctx) error {
	var req dto.InitiatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}
	scope, err := helper.StudentScope(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	txn, order, err := h.Svc.Initiate(c.UserContext(), service.InitiateInput{
		Request: &req,
		Scope:   scope,
		UserID:  helper.GetUserIDPtr(c),
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Payment initiated", dto.InitiatePaymentResponse{
		Transaction: dto.FromPaymentTransactionModel(txn),
		Order:       order,
	})
}

// POST /payments/verify
func (h *PaymentController) Verify(c *fiber.Ctx) error {
	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}
	scope, err := helper.StudentScope(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	txn, err := h.Svc.Verify(c.UserContext(), service.VerifyInput{
		TransactionCode:      req.TransactionCode,
		GatewayTransactionID: req.GatewayTransactionID,
		Scope:                scope,
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Payment verified", dto.FromPaymentTransactionModel(txn))
}

/* =========================
   Webhooks (public, signature checked)
========================= */

func (h *PaymentController) MidtransWebhook(c *fiber.Ctx) error {
	return h.webhook(c, gateway.NameMidtrans)
}

func (h *PaymentController) StripeWebhook(c *fiber.Ctx) error {
	return h.webhook(c, gateway.NameStripe)
}

func (h *PaymentController) webhook(c *fiber.Ctx, provider string) error {
	payload := append([]byte(nil), c.Body()...)
	err := h.Svc.HandleWebhook(c.UserContext(), provider, payload, func(k string) string { return c.Get(k) })
	if err != nil {
		log.Printf("[PAYMENT] %s webhook: %v", strings.ToLower(provider), err)
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", nil)
}

/* =========================
   Admin
========================= */

// POST /payments/manual
func (h *PaymentController) RecordManual(c *fiber.Ctx) error {
	var req dto.ManualPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}
	txn, err := h.Svc.RecordManual(c.UserContext(), &req, helper.GetUserIDPtr(c))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Payment recorded", dto.FromPaymentTransactionModel(txn))
}

// POST /payments/:code/refund
func (h *PaymentController) Refund(c *fiber.Ctx) error {
	var req dto.RefundPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}
	txn, err := h.Svc.Refund(c.UserContext(), strings.TrimSpace(c.Params("code")), &req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Payment refunded", dto.FromPaymentTransactionModel(txn))
}

// GET /payments?status=&gateway=&student_id=&fee_collection_id=&from=&to=
func (h *PaymentController) List(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return h.list(c, f)
}

/* =========================
   Reads
========================= */

// GET /payments/me
func (h *PaymentController) MyHistory(c *fiber.Ctx) error {
	id, err := helper.GetStudentIDFromLocals(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return h.list(c, service.TransactionFilter{StudentID: &id})
}

// GET /students/:studentId/payments
func (h *PaymentController) StudentHistory(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "studentId")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := helper.EnsureStudentScope(c, id); err != nil {
		return helper.FromError(c, err)
	}
	return h.list(c, service.TransactionFilter{StudentID: &id})
}

func (h *PaymentController) list(c *fiber.Ctx, f service.TransactionFilter) error {
	p := helper.ResolvePaging(c, 20, 100)
	rows, total, err := h.Svc.List(c.UserContext(), f, p)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromPaymentTransactionModels(rows), helper.BuildPagination(total, p))
}

// GET /payments/:code
func (h *PaymentController) Get(c *fiber.Ctx) error {
	scope, err := helper.StudentScope(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	txn, err := h.Svc.Get(c.UserContext(), strings.TrimSpace(c.Params("code")), scope)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromPaymentTransactionModel(txn))
}

// GET /payments/:code/receipt
func (h *PaymentController) Receipt(c *fiber.Ctx) error {
	scope, err := helper.StudentScope(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	r, err := h.Svc.Receipt(c.UserContext(), strings.TrimSpace(c.Params("code")), scope)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", r)
}

/* =========================
   helpers
========================= */

func validationError(c *fiber.Ctx, err error) error {
	if fields, ok := helper.ValidationFieldErrors(err); ok {
		return helper.JsonValidationError(c, fields)
	}
	return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
}

func parseFilter(c *fiber.Ctx) (service.TransactionFilter, error) {
	var f service.TransactionFilter
	if s := strings.ToUpper(strings.TrimSpace(c.Query("status"))); s != "" {
		f.Status = model.PaymentStatus(s)
	}
	if g := strings.ToUpper(strings.TrimSpace(c.Query("gateway"))); g != "" {
		f.Gateway = model.PaymentGateway(g)
	}
	if v := strings.TrimSpace(c.Query("student_id")); v != "" {
		id, err := helper.ParseUUIDQuery(v, "student_id")
		if err != nil {
			return f, err
		}
		f.StudentID = &id
	}
	if v := strings.TrimSpace(c.Query("fee_collection_id")); v != "" {
		id, err := helper.ParseUUIDQuery(v, "fee_collection_id")
		if err != nil {
			return f, err
		}
		f.FeeCollectionID = &id
	}
	if v := strings.TrimSpace(c.Query("from")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		f.From = &t
	}
	if v := strings.TrimSpace(c.Query("to")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		// inclusive end date
		end := t.AddDate(0, 0, 1)
		f.To = &end
	}
	return f, nil
}
