package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"schooladmin_backend/internals/features/finance/fees/ledger"
	feeModel "schooladmin_backend/internals/features/finance/fees/model"
	"schooladmin_backend/internals/features/finance/payments/dto"
	"schooladmin_backend/internals/features/finance/payments/gateway"
	"schooladmin_backend/internals/features/finance/payments/model"
	helper "schooladmin_backend/internals/helpers"
)

var (
	ErrDuplicateTransaction  = fiber.NewError(fiber.StatusConflict, "Payment has already been processed")
	ErrNotRefundable         = fiber.NewError(fiber.StatusBadRequest, "Only successful payments can be refunded")
	ErrRefundInProgress      = fiber.NewError(fiber.StatusConflict, "A refund for this payment is already in progress")
	ErrTransactionNotPending = fiber.NewError(fiber.StatusConflict, "Payment transaction is no longer pending")
	ErrVerificationFailed    = fiber.NewError(fiber.StatusBadRequest, "Payment verification failed")
	ErrStillPending          = fiber.NewError(fiber.StatusConflict, "Payment is still pending at the gateway")
	ErrForbidden             = fiber.NewError(fiber.StatusForbidden, "You can only access your own payments")
)

// ReceiptSender delivers a receipt after a payment settles.
type ReceiptSender interface {
	SendReceipt(to string, r dto.PaymentReceipt) error
}

type Service struct {
	Store    Store
	Gateways *gateway.Registry
	Mailer   ReceiptSender
	Currency string
	Now      func() time.Time
}

func NewService(store Store, gateways *gateway.Registry, mailer ReceiptSender, currency string) *Service {
	return &Service{
		Store:    store,
		Gateways: gateways,
		Mailer:   mailer,
		Currency: strings.ToUpper(currency),
		Now:      time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// ledgerError turns a ledger precondition violation into a 400.
func ledgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrAmountMismatch),
		errors.Is(err, ledger.ErrRefundExceedsAmount),
		errors.Is(err, ledger.ErrRefundExceedsPaid):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrInvariantBroken):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return err
}

func checkScope(scope *uuid.UUID, studentID uuid.UUID) error {
	if scope != nil && *scope != studentID {
		return ErrForbidden
	}
	return nil
}

/* ===================== INITIATE ===================== */

type InitiateInput struct {
	Request *dto.InitiatePaymentRequest
	// Scope restricts the call to one student's collections (student role).
	Scope  *uuid.UUID
	UserID *uuid.UUID
}

// Initiate records a PENDING transaction and opens an order at the gateway.
// The gateway call runs outside any database transaction.
func (s *Service) Initiate(ctx context.Context, in InitiateInput) (*model.PaymentTransactionModel, *gateway.Order, error) {
	req := in.Request
	gw, err := s.Gateways.Get(string(req.Gateway))
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	fc, err := s.Store.GetFeeCollection(ctx, req.FeeCollectionID)
	if err != nil {
		return nil, nil, err
	}
	if err := checkScope(in.Scope, fc.FeeCollectionStudentID); err != nil {
		return nil, nil, err
	}
	if ledger.StatusOf(fc, s.now()) == feeModel.FeeStatusPaid {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Fee collection is already paid")
	}
	amount := req.Amount
	if amount.IsZero() {
		amount = fc.FeeCollectionPendingAmount
	}
	if err := ledger.ApplyPayment(fc.Clone(), amount, s.now()); err != nil {
		return nil, nil, ledgerError(err)
	}

	student, err := s.Store.FindStudent(ctx, fc.FeeCollectionStudentID)
	if err != nil {
		return nil, nil, err
	}

	code := helper.GenCode("TXN")
	txn := &model.PaymentTransactionModel{
		PaymentTransactionCode:             code,
		PaymentTransactionFeeCollectionID:  fc.FeeCollectionID,
		PaymentTransactionStudentID:        fc.FeeCollectionStudentID,
		PaymentTransactionAmount:           amount,
		PaymentTransactionCurrency:         s.Currency,
		PaymentTransactionMethod:           req.Method,
		PaymentTransactionGateway:          model.PaymentGateway(gw.Name()),
		PaymentTransactionGatewayOrderID:   &code,
		PaymentTransactionStatus:           model.PaymentStatusPending,
		PaymentTransactionRecordedByUserID: in.UserID,
	}
	if err := s.Store.CreateTransaction(ctx, txn); err != nil {
		return nil, nil, err
	}

	customer := gateway.Customer{Name: student.FullName()}
	if student.StudentGuardianEmail != nil {
		customer.Email = *student.StudentGuardianEmail
	}
	if student.StudentGuardianPhone != nil {
		customer.Phone = *student.StudentGuardianPhone
	}

	order, err := gw.CreateOrder(ctx, gateway.OrderRequest{
		OrderID:     code,
		Amount:      amount,
		Currency:    s.Currency,
		Description: "School fee " + fc.FeeCollectionReceiptNumber,
		Customer:    customer,
		Metadata: map[string]string{
			"transaction_code":  code,
			"fee_collection_id": fc.FeeCollectionID.String(),
		},
	})
	if err != nil {
		log.Printf("[PAYMENT] create order %s via %s failed: %v", code, gw.Name(), err)
		reason := "gateway order failed: " + err.Error()
		txn.PaymentTransactionStatus = model.PaymentStatusFailed
		txn.PaymentTransactionFailureReason = &reason
		if serr := s.Store.SaveTransaction(ctx, txn); serr != nil {
			log.Printf("[PAYMENT] mark %s failed: %v", code, serr)
		}
		return nil, nil, fiber.NewError(fiber.StatusBadGateway, "Payment gateway is unavailable, please try again")
	}

	if order.GatewayTransactionID != "" {
		txn.PaymentTransactionGatewayTransactionID = &order.GatewayTransactionID
	}
	if order.RedirectURL != "" {
		txn.PaymentTransactionGatewayRedirectURL = &order.RedirectURL
	}
	if order.Token != "" {
		txn.MergeMeta(map[string]any{"snap_token": order.Token})
	}
	if err := s.Store.SaveTransaction(ctx, txn); err != nil {
		return nil, nil, err
	}
	log.Printf("[PAYMENT] initiated %s amount=%s gateway=%s", code, amount, gw.Name())
	return txn, order, nil
}

/* ===================== VERIFY ===================== */

type VerifyInput struct {
	TransactionCode      string
	GatewayTransactionID string
	Scope                *uuid.UUID
}

// Verify asks the gateway for the payment outcome and settles it. A rejected
// verification is terminal: the transaction becomes FAILED.
func (s *Service) Verify(ctx context.Context, in VerifyInput) (*model.PaymentTransactionModel, error) {
	txn, err := s.Store.FindTransactionByCode(ctx, in.TransactionCode, false)
	if err != nil {
		return nil, err
	}
	if err := checkScope(in.Scope, txn.PaymentTransactionStudentID); err != nil {
		return nil, err
	}
	if err := pendingOrDuplicate(txn); err != nil {
		return nil, err
	}

	gw, err := s.Gateways.Get(string(txn.PaymentTransactionGateway))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	ref := gateway.TxnRef{
		OrderID:              deref(txn.PaymentTransactionGatewayOrderID, txn.PaymentTransactionCode),
		GatewayTransactionID: firstNonEmpty(in.GatewayTransactionID, deref(txn.PaymentTransactionGatewayTransactionID, "")),
		Amount:               txn.PaymentTransactionAmount,
		Currency:             txn.PaymentTransactionCurrency,
	}
	v, err := gw.Verify(ctx, ref)
	if err != nil {
		log.Printf("[PAYMENT] verify %s via %s: %v", txn.PaymentTransactionCode, gw.Name(), err)
		return nil, fiber.NewError(fiber.StatusBadGateway, "Could not reach the payment gateway")
	}
	if !v.Verified {
		if v.Status == gateway.StatusPending {
			return nil, ErrStillPending
		}
		status := model.PaymentStatusFailed
		if v.Status == gateway.StatusCancelled {
			status = model.PaymentStatusCancelled
		}
		s.closeTransaction(ctx, txn.PaymentTransactionCode, status, firstNonEmpty(v.Reason, "verification rejected"))
		return nil, ErrVerificationFailed
	}

	return s.settle(ctx, txn.PaymentTransactionCode, firstNonEmpty(v.GatewayTransactionID, ref.GatewayTransactionID), v.Amount)
}

func pendingOrDuplicate(txn *model.PaymentTransactionModel) error {
	switch txn.PaymentTransactionStatus {
	case model.PaymentStatusPending:
		return nil
	case model.PaymentStatusSuccess, model.PaymentStatusRefunded:
		return ErrDuplicateTransaction
	}
	return ErrTransactionNotPending
}

// settle applies a verified payment to the ledger. The transaction row and the
// fee collection row are both locked for the duration.
func (s *Service) settle(ctx context.Context, code, gatewayTxnID string, verifiedAmount decimal.Decimal) (*model.PaymentTransactionModel, error) {
	at := s.now()
	var (
		settled    *model.PaymentTransactionModel
		failReason string
	)

	err := s.Store.InTx(ctx, func(tx Store) error {
		txn, err := tx.FindTransactionByCode(ctx, code, true)
		if err != nil {
			return err
		}
		if err := pendingOrDuplicate(txn); err != nil {
			return err
		}
		if gatewayTxnID != "" {
			taken, err := tx.GatewayTransactionIDTaken(ctx, gatewayTxnID, txn.PaymentTransactionID)
			if err != nil {
				return err
			}
			if taken {
				failReason = "gateway transaction id already used"
				return ErrDuplicateTransaction
			}
		}
		if !verifiedAmount.IsZero() && verifiedAmount.Sub(txn.PaymentTransactionAmount).Abs().GreaterThan(ledger.Tolerance) {
			failReason = "gateway amount " + verifiedAmount.String() + " does not match " + txn.PaymentTransactionAmount.String()
			return fiber.NewError(fiber.StatusBadRequest, ledger.ErrAmountMismatch.Error())
		}

		fc, err := tx.LockFeeCollection(ctx, txn.PaymentTransactionFeeCollectionID)
		if err != nil {
			return err
		}
		if err := ledger.ApplyPayment(fc, txn.PaymentTransactionAmount, at); err != nil {
			failReason = err.Error()
			return ledgerError(err)
		}

		txn.PaymentTransactionStatus = model.PaymentStatusSuccess
		txn.PaymentTransactionPaidAt = &at
		txn.PaymentTransactionFailureReason = nil
		if gatewayTxnID != "" {
			id := gatewayTxnID
			txn.PaymentTransactionGatewayTransactionID = &id
		}
		if err := tx.SaveFeeCollection(ctx, fc); err != nil {
			return err
		}
		if err := tx.SaveTransaction(ctx, txn); err != nil {
			if helper.IsUniqueViolation(err) {
				return ErrDuplicateTransaction
			}
			return err
		}
		settled = txn
		return nil
	})
	if err != nil {
		if failReason != "" {
			s.closeTransaction(ctx, code, model.PaymentStatusFailed, failReason)
		}
		return nil, err
	}

	log.Printf("[PAYMENT] settled %s amount=%s", code, settled.PaymentTransactionAmount)
	s.sendReceiptAsync(settled.PaymentTransactionCode)
	return settled, nil
}

// closeTransaction moves a still-PENDING transaction to a terminal status.
func (s *Service) closeTransaction(ctx context.Context, code string, status model.PaymentStatus, reason string) {
	err := s.Store.InTx(ctx, func(tx Store) error {
		txn, err := tx.FindTransactionByCode(ctx, code, true)
		if err != nil {
			return err
		}
		if txn.PaymentTransactionStatus != model.PaymentStatusPending {
			return nil
		}
		txn.PaymentTransactionStatus = status
		txn.PaymentTransactionFailureReason = &reason
		return tx.SaveTransaction(ctx, txn)
	})
	if err != nil {
		log.Printf("[PAYMENT] close %s as %s: %v", code, status, err)
		return
	}
	log.Printf("[PAYMENT] %s -> %s: %s", code, status, reason)
}

/* ===================== WEBHOOK ===================== */

var ErrInvalidWebhook = fiber.NewError(fiber.StatusUnauthorized, "Invalid webhook signature")

// HandleWebhook logs the notification, then settles or closes the transaction it
// refers to. Replays of an already settled payment are acknowledged and ignored.
func (s *Service) HandleWebhook(ctx context.Context, provider string, payload []byte, header func(string) string) error {
	gw, err := s.Gateways.Get(provider)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	parser, ok := gw.(gateway.WebhookParser)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Gateway does not accept webhooks")
	}

	ev := &model.PaymentGatewayEventModel{
		GatewayEventProvider:   model.PaymentGateway(gw.Name()),
		GatewayEventStatus:     model.GatewayEventReceived,
		GatewayEventReceivedAt: s.now(),
	}
	if json.Valid(payload) {
		ev.GatewayEventPayload = datatypes.JSON(payload)
	}

	parsed, perr := parser.ParseWebhook(payload, header)
	if parsed != nil {
		ev.GatewayEventType = parsed.Type
		ev.GatewayEventSignatureValid = parsed.SignatureValid
		ev.GatewayEventOrderID = strPtr(parsed.OrderID)
		ev.GatewayEventExternalRef = strPtr(parsed.GatewayTransactionID)
	}
	if err := s.Store.CreateGatewayEvent(ctx, ev); err != nil {
		return err
	}

	if perr != nil {
		s.finishEvent(ctx, ev, model.GatewayEventFailed, perr.Error())
		if errors.Is(perr, gateway.ErrInvalidSignature) {
			return ErrInvalidWebhook
		}
		return fiber.NewError(fiber.StatusBadRequest, "Malformed webhook payload")
	}
	if parsed.OrderID == "" {
		s.finishEvent(ctx, ev, model.GatewayEventIgnored, "no order id")
		return nil
	}

	txn, err := s.Store.FindTransactionByCode(ctx, parsed.OrderID, false)
	if errors.Is(err, ErrTransactionNotFound) {
		s.finishEvent(ctx, ev, model.GatewayEventIgnored, "unknown order")
		return nil
	}
	if err != nil {
		s.finishEvent(ctx, ev, model.GatewayEventFailed, err.Error())
		return err
	}
	ev.GatewayEventTransactionID = &txn.PaymentTransactionID

	if txn.PaymentTransactionGateway != model.PaymentGateway(gw.Name()) {
		s.finishEvent(ctx, ev, model.GatewayEventIgnored, "transaction belongs to another gateway")
		return nil
	}

	switch parsed.Status {
	case gateway.StatusSuccess:
		if txn.PaymentTransactionStatus != model.PaymentStatusPending {
			s.finishEvent(ctx, ev, model.GatewayEventIgnored, "already "+string(txn.PaymentTransactionStatus))
			return nil
		}
		if _, err := s.settle(ctx, txn.PaymentTransactionCode, parsed.GatewayTransactionID, parsed.Amount); err != nil {
			s.finishEvent(ctx, ev, model.GatewayEventFailed, err.Error())
			var fe *fiber.Error
			if errors.As(err, &fe) {
				// terminal for this transaction; acknowledge so the gateway stops retrying
				return nil
			}
			return err
		}
	case gateway.StatusFailed:
		s.closeTransaction(ctx, txn.PaymentTransactionCode, model.PaymentStatusFailed, "gateway reported "+parsed.Type)
	case gateway.StatusCancelled:
		s.closeTransaction(ctx, txn.PaymentTransactionCode, model.PaymentStatusCancelled, "gateway reported "+parsed.Type)
	default:
		s.finishEvent(ctx, ev, model.GatewayEventIgnored, "status "+parsed.Status)
		return nil
	}

	s.finishEvent(ctx, ev, model.GatewayEventProcessed, "")
	return nil
}

func (s *Service) finishEvent(ctx context.Context, ev *model.PaymentGatewayEventModel, status model.GatewayEventStatus, msg string) {
	at := s.now()
	ev.GatewayEventStatus = status
	ev.GatewayEventProcessedAt = &at
	ev.GatewayEventError = strPtr(msg)
	if err := s.Store.SaveGatewayEvent(ctx, ev); err != nil {
		log.Printf("[PAYMENT] save gateway event %s: %v", ev.GatewayEventID, err)
	}
}

/* ===================== MANUAL ===================== */

// RecordManual books cash, cheque or transfer money an admin already holds.
func (s *Service) RecordManual(ctx context.Context, req *dto.ManualPaymentRequest, recordedBy *uuid.UUID) (*model.PaymentTransactionModel, error) {
	gw, err := s.Gateways.Get(gateway.NameManual)
	if err != nil {
		return nil, err
	}
	code := helper.GenCode("TXN")
	at := s.now()

	var txn *model.PaymentTransactionModel
	err = s.Store.InTx(ctx, func(tx Store) error {
		fc, err := tx.LockFeeCollection(ctx, req.FeeCollectionID)
		if err != nil {
			return err
		}
		amount := req.Amount
		if amount.IsZero() {
			amount = fc.FeeCollectionPendingAmount
		}
		v, err := gw.Verify(ctx, gateway.TxnRef{OrderID: code, GatewayTransactionID: deref(req.Reference, ""), Amount: amount})
		if err != nil {
			return err
		}
		if v.GatewayTransactionID != "" {
			taken, err := tx.GatewayTransactionIDTaken(ctx, v.GatewayTransactionID, uuid.Nil)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateTransaction
			}
		}
		if err := ledger.ApplyPayment(fc, v.Amount, at); err != nil {
			return ledgerError(err)
		}

		txn = &model.PaymentTransactionModel{
			PaymentTransactionCode:                 code,
			PaymentTransactionFeeCollectionID:      fc.FeeCollectionID,
			PaymentTransactionStudentID:            fc.FeeCollectionStudentID,
			PaymentTransactionAmount:               v.Amount,
			PaymentTransactionCurrency:             s.Currency,
			PaymentTransactionMethod:               req.Method,
			PaymentTransactionGateway:              model.GatewayManual,
			PaymentTransactionGatewayTransactionID: req.Reference,
			PaymentTransactionStatus:               model.PaymentStatusSuccess,
			PaymentTransactionPaidAt:               &at,
			PaymentTransactionRecordedByUserID:     recordedBy,
		}
		if req.Remarks != nil {
			txn.MergeMeta(map[string]any{"remarks": *req.Remarks})
		}
		if err := tx.SaveFeeCollection(ctx, fc); err != nil {
			return err
		}
		if err := tx.CreateTransaction(ctx, txn); err != nil {
			if helper.IsUniqueViolation(err) {
				return ErrDuplicateTransaction
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PAYMENT] manual %s amount=%s method=%s", code, txn.PaymentTransactionAmount, txn.PaymentTransactionMethod)
	s.sendReceiptAsync(code)
	return txn, nil
}

/* ===================== REFUND ===================== */

// Refund returns money through the original gateway, then reverses the ledger.
// The transaction is claimed under a row lock before the gateway is called, so
// concurrent requests for the same payment reach the gateway at most once.
func (s *Service) Refund(ctx context.Context, code string, req *dto.RefundPaymentRequest) (*model.PaymentTransactionModel, error) {
	var (
		txn    *model.PaymentTransactionModel
		gw     gateway.Gateway
		amount decimal.Decimal
	)
	err := s.Store.InTx(ctx, func(tx Store) error {
		t, err := tx.FindTransactionByCode(ctx, code, true)
		if err != nil {
			return err
		}
		if t.RefundInProgress() {
			return ErrRefundInProgress
		}
		if t.PaymentTransactionStatus != model.PaymentStatusSuccess {
			return ErrNotRefundable
		}
		amount = req.Amount
		if amount.IsZero() {
			amount = t.PaymentTransactionAmount
		}

		fc, err := tx.LockFeeCollection(ctx, t.PaymentTransactionFeeCollectionID)
		if err != nil {
			return err
		}
		if err := ledger.ApplyRefund(fc, t.PaymentTransactionAmount, amount, s.now()); err != nil {
			return ledgerError(err)
		}
		if gw, err = s.Gateways.Get(string(t.PaymentTransactionGateway)); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := t.SetRefund(model.RefundDetails{
			Amount: amount,
			Date:   s.now(),
			Reason: req.Reason,
			Status: gateway.StatusPending,
		}); err != nil {
			return err
		}
		if err := tx.SaveTransaction(ctx, t); err != nil {
			return err
		}
		txn = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	res, err := gw.Refund(ctx, gateway.TxnRef{
		OrderID:              deref(txn.PaymentTransactionGatewayOrderID, txn.PaymentTransactionCode),
		GatewayTransactionID: deref(txn.PaymentTransactionGatewayTransactionID, ""),
		Amount:               txn.PaymentTransactionAmount,
		Currency:             txn.PaymentTransactionCurrency,
	}, amount, req.Reason)
	if err != nil {
		log.Printf("[PAYMENT] refund %s via %s: %v", code, gw.Name(), err)
		if rerr := s.releaseRefund(ctx, code); rerr != nil {
			log.Printf("[PAYMENT] refund %s: release claim: %v", code, rerr)
		}
		return nil, fiber.NewError(fiber.StatusBadGateway, "Gateway refund failed")
	}

	at := s.now()
	var refunded *model.PaymentTransactionModel
	err = s.Store.InTx(ctx, func(tx Store) error {
		t, err := tx.FindTransactionByCode(ctx, code, true)
		if err != nil {
			return err
		}
		if !t.RefundInProgress() {
			return ErrNotRefundable
		}
		fc, err := tx.LockFeeCollection(ctx, t.PaymentTransactionFeeCollectionID)
		if err != nil {
			return err
		}
		if err := ledger.ApplyRefund(fc, t.PaymentTransactionAmount, amount, at); err != nil {
			return ledgerError(err)
		}
		t.PaymentTransactionStatus = model.PaymentStatusRefunded
		if err := t.SetRefund(model.RefundDetails{
			RefundID: res.RefundID,
			Amount:   amount,
			Date:     at,
			Reason:   req.Reason,
			Status:   res.Status,
		}); err != nil {
			return err
		}
		if err := tx.SaveFeeCollection(ctx, fc); err != nil {
			return err
		}
		if err := tx.SaveTransaction(ctx, t); err != nil {
			return err
		}
		refunded = t
		return nil
	})
	if err != nil {
		log.Printf("[PAYMENT] refund %s issued at gateway as %s but ledger update failed: %v", code, res.RefundID, err)
		return nil, err
	}
	log.Printf("[PAYMENT] refunded %s amount=%s refund_id=%s", code, amount, res.RefundID)
	return refunded, nil
}

// releaseRefund drops a refund claim after the gateway turned the refund down.
func (s *Service) releaseRefund(ctx context.Context, code string) error {
	return s.Store.InTx(ctx, func(tx Store) error {
		t, err := tx.FindTransactionByCode(ctx, code, true)
		if err != nil {
			return err
		}
		if !t.RefundInProgress() {
			return nil
		}
		t.PaymentTransactionRefund = nil
		return tx.SaveTransaction(ctx, t)
	})
}

/* ===================== READ ===================== */

func (s *Service) List(ctx context.Context, f TransactionFilter, p helper.Paging) ([]model.PaymentTransactionModel, int64, error) {
	return s.Store.ListTransactions(ctx, f, p)
}

func (s *Service) Get(ctx context.Context, code string, scope *uuid.UUID) (*model.PaymentTransactionModel, error) {
	txn, err := s.Store.FindTransactionByCode(ctx, code, false)
	if err != nil {
		return nil, err
	}
	if err := checkScope(scope, txn.PaymentTransactionStudentID); err != nil {
		return nil, err
	}
	return txn, nil
}

// Receipt builds the receipt of a settled (or later refunded) transaction.
func (s *Service) Receipt(ctx context.Context, code string, scope *uuid.UUID) (*dto.PaymentReceipt, error) {
	txn, err := s.Get(ctx, code, scope)
	if err != nil {
		return nil, err
	}
	if txn.PaymentTransactionStatus != model.PaymentStatusSuccess && txn.PaymentTransactionStatus != model.PaymentStatusRefunded {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Receipt is only available for completed payments")
	}
	fc, err := s.Store.GetFeeCollection(ctx, txn.PaymentTransactionFeeCollectionID)
	if err != nil {
		return nil, err
	}
	st, err := s.Store.FindStudent(ctx, txn.PaymentTransactionStudentID)
	if err != nil {
		return nil, err
	}

	return &dto.PaymentReceipt{
		ReceiptNumber:   fc.FeeCollectionReceiptNumber,
		TransactionCode: txn.PaymentTransactionCode,
		IssuedAt:        s.now(),
		PaidAt:          txn.PaymentTransactionPaidAt,
		StudentID:       st.StudentID,
		StudentName:     st.FullName(),
		ScholarNumber:   st.StudentScholarNumber,
		ClassName:       st.StudentClassName,
		Section:         st.StudentSection,
		AcademicYear:    fc.FeeCollectionAcademicYear,
		Term:            fc.FeeCollectionTerm,
		Amount:          txn.PaymentTransactionAmount,
		Currency:        txn.PaymentTransactionCurrency,
		Method:          txn.PaymentTransactionMethod,
		Gateway:         txn.PaymentTransactionGateway,
		Status:          txn.PaymentTransactionStatus,
		Refund:          txn.RefundDetails(),
		TotalAmount:     fc.FeeCollectionTotalAmount,
		LateFee:         fc.FeeCollectionLateFee,
		PaidAmount:      fc.FeeCollectionPaidAmount,
		PendingAmount:   fc.FeeCollectionPendingAmount,
		Lines:           dto.ReceiptLines(fc.FeeCollectionComponents),
	}, nil
}

func (s *Service) sendReceiptAsync(code string) {
	if s.Mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		r, err := s.Receipt(ctx, code, nil)
		if err != nil {
			log.Printf("[PAYMENT] receipt %s: %v", code, err)
			return
		}
		st, err := s.Store.FindStudent(ctx, r.StudentID)
		if err != nil || st.StudentGuardianEmail == nil || *st.StudentGuardianEmail == "" {
			return
		}
		if err := s.Mailer.SendReceipt(*st.StudentGuardianEmail, *r); err != nil {
			log.Printf("[PAYMENT] email receipt %s: %v", code, err)
		}
	}()
}

/* ===================== utils ===================== */

func deref(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
