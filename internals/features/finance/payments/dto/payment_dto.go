package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	feeModel "schooladmin_backend/internals/features/finance/fees/model"
	"schooladmin_backend/internals/features/finance/payments/gateway"
	"schooladmin_backend/internals/features/finance/payments/model"
	helper "schooladmin_backend/internals/helpers"
)

/* ===================== Requests ===================== */

type InitiatePaymentRequest struct {
	FeeCollectionID uuid.UUID            `json:"fee_collection_id" validate:"required"`
	Amount          decimal.Decimal      `json:"amount"`
	Gateway         model.PaymentGateway `json:"gateway" validate:"required,oneof=MIDTRANS STRIPE"`
	Method          model.PaymentMethod  `json:"method" validate:"omitempty,oneof=CARD UPI BANK_TRANSFER ONLINE"`
}

func (r *InitiatePaymentRequest) Normalize() {
	r.Gateway = model.PaymentGateway(strings.ToUpper(strings.TrimSpace(string(r.Gateway))))
	r.Method = model.PaymentMethod(strings.ToUpper(strings.TrimSpace(string(r.Method))))
	if r.Method == "" {
		r.Method = model.PaymentMethodOnline
	}
}

func (r *InitiatePaymentRequest) Validate() error {
	return helper.Validator().Struct(r)
}

type VerifyPaymentRequest struct {
	TransactionCode      string `json:"transaction_code" validate:"required,max=64"`
	GatewayTransactionID string `json:"gateway_transaction_id" validate:"omitempty,max=120"`
}

func (r *VerifyPaymentRequest) Validate() error {
	r.TransactionCode = strings.TrimSpace(r.TransactionCode)
	r.GatewayTransactionID = strings.TrimSpace(r.GatewayTransactionID)
	return helper.Validator().Struct(r)
}

type ManualPaymentRequest struct {
	FeeCollectionID uuid.UUID           `json:"fee_collection_id" validate:"required"`
	Amount          decimal.Decimal     `json:"amount"`
	Method          model.PaymentMethod `json:"method" validate:"required,oneof=CASH CHEQUE BANK_TRANSFER UPI CARD"`
	Reference       *string             `json:"reference" validate:"omitempty,max=120"`
	Remarks         *string             `json:"remarks" validate:"omitempty,max=500"`
}

func (r *ManualPaymentRequest) Validate() error {
	r.Method = model.PaymentMethod(strings.ToUpper(strings.TrimSpace(string(r.Method))))
	if r.Reference != nil {
		v := strings.TrimSpace(*r.Reference)
		if v == "" {
			r.Reference = nil
		} else {
			r.Reference = &v
		}
	}
	return helper.Validator().Struct(r)
}

type RefundPaymentRequest struct {
	// Zero refunds the full transaction amount.
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" validate:"required,min=3,max=500"`
}

func (r *RefundPaymentRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	return helper.Validator().Struct(r)
}

/* ===================== Responses ===================== */

type PaymentTransactionResponse struct {
	ID                   uuid.UUID            `json:"payment_transaction_id"`
	Code                 string               `json:"payment_transaction_code"`
	FeeCollectionID      uuid.UUID            `json:"fee_collection_id"`
	StudentID            uuid.UUID            `json:"student_id"`
	Amount               decimal.Decimal      `json:"amount"`
	Currency             string               `json:"currency"`
	Method               model.PaymentMethod  `json:"method"`
	Gateway              model.PaymentGateway `json:"gateway"`
	GatewayTransactionID *string              `json:"gateway_transaction_id,omitempty"`
	GatewayOrderID       *string              `json:"gateway_order_id,omitempty"`
	RedirectURL          *string              `json:"redirect_url,omitempty"`
	Status               model.PaymentStatus  `json:"status"`
	PaidAt               *time.Time           `json:"paid_at,omitempty"`
	FailureReason        *string              `json:"failure_reason,omitempty"`
	Refund               *model.RefundDetails `json:"refund,omitempty"`
	Meta                 map[string]any       `json:"meta,omitempty"`
	RecordedByUserID     *uuid.UUID           `json:"recorded_by_user_id,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

func FromPaymentTransactionModel(m *model.PaymentTransactionModel) PaymentTransactionResponse {
	resp := PaymentTransactionResponse{
		ID:                   m.PaymentTransactionID,
		Code:                 m.PaymentTransactionCode,
		FeeCollectionID:      m.PaymentTransactionFeeCollectionID,
		StudentID:            m.PaymentTransactionStudentID,
		Amount:               m.PaymentTransactionAmount,
		Currency:             m.PaymentTransactionCurrency,
		Method:               m.PaymentTransactionMethod,
		Gateway:              m.PaymentTransactionGateway,
		GatewayTransactionID: m.PaymentTransactionGatewayTransactionID,
		GatewayOrderID:       m.PaymentTransactionGatewayOrderID,
		RedirectURL:          m.PaymentTransactionGatewayRedirectURL,
		Status:               m.PaymentTransactionStatus,
		PaidAt:               m.PaymentTransactionPaidAt,
		FailureReason:        m.PaymentTransactionFailureReason,
		Refund:               m.RefundDetails(),
		RecordedByUserID:     m.PaymentTransactionRecordedByUserID,
		CreatedAt:            m.PaymentTransactionCreatedAt,
		UpdatedAt:            m.PaymentTransactionUpdatedAt,
	}
	if meta := m.Meta(); len(meta) > 0 {
		resp.Meta = meta
	}
	return resp
}

func FromPaymentTransactionModels(rows []model.PaymentTransactionModel) []PaymentTransactionResponse {
	out := make([]PaymentTransactionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromPaymentTransactionModel(&rows[i]))
	}
	return out
}

type InitiatePaymentResponse struct {
	Transaction PaymentTransactionResponse `json:"transaction"`
	Order       *gateway.Order             `json:"order,omitempty"`
}

/* ===================== Receipt ===================== */

type ReceiptLine struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Discount   decimal.Decimal `json:"discount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	IsPaid     bool            `json:"is_paid"`
}

// PaymentReceipt is the JSON receipt of one settled transaction.
type PaymentReceipt struct {
	ReceiptNumber   string               `json:"receipt_number"`
	TransactionCode string               `json:"transaction_code"`
	IssuedAt        time.Time            `json:"issued_at"`
	PaidAt          *time.Time           `json:"paid_at,omitempty"`
	StudentID       uuid.UUID            `json:"student_id"`
	StudentName     string               `json:"student_name"`
	ScholarNumber   string               `json:"scholar_number"`
	ClassName       string               `json:"class_name"`
	Section         string               `json:"section"`
	AcademicYear    string               `json:"academic_year"`
	Term            *string              `json:"term,omitempty"`
	Amount          decimal.Decimal      `json:"amount"`
	Currency        string               `json:"currency"`
	Method          model.PaymentMethod  `json:"method"`
	Gateway         model.PaymentGateway `json:"gateway"`
	Status          model.PaymentStatus  `json:"status"`
	Refund          *model.RefundDetails `json:"refund,omitempty"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	LateFee         decimal.Decimal      `json:"late_fee"`
	PaidAmount      decimal.Decimal      `json:"paid_amount"`
	PendingAmount   decimal.Decimal      `json:"pending_amount"`
	Lines           []ReceiptLine        `json:"lines"`
}

func ReceiptLines(components []feeModel.FeeComponent) []ReceiptLine {
	out := make([]ReceiptLine, 0, len(components))
	for _, c := range components {
		out = append(out, ReceiptLine{Name: c.Name, Amount: c.Amount, Discount: c.Discount, PaidAmount: c.PaidAmount, IsPaid: c.IsPaid})
	}
	return out
}
