package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSuccess   PaymentStatus = "SUCCESS"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodUPI          PaymentMethod = "UPI"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodOnline       PaymentMethod = "ONLINE"
)

type PaymentGateway string

const (
	GatewayMidtrans PaymentGateway = "MIDTRANS"
	GatewayStripe   PaymentGateway = "STRIPE"
	GatewayManual   PaymentGateway = "MANUAL"
)

type RefundDetails struct {
	RefundID string          `json:"refund_id"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
	Reason   string          `json:"reason,omitempty"`
	Status   string          `json:"status,omitempty"`
}

// PaymentTransactionModel: one payment attempt against a fee collection.
// Amount never changes once the transaction is SUCCESS.
type PaymentTransactionModel struct {
	PaymentTransactionID                   uuid.UUID       `gorm:"column:payment_transaction_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_transaction_id"`
	PaymentTransactionCode                 string          `gorm:"column:payment_transaction_code;size:64;not null;uniqueIndex:uq_payment_transactions_code" json:"payment_transaction_code"`
	PaymentTransactionFeeCollectionID      uuid.UUID       `gorm:"column:payment_transaction_fee_collection_id;type:uuid;not null;index" json:"payment_transaction_fee_collection_id"`
	PaymentTransactionStudentID            uuid.UUID       `gorm:"column:payment_transaction_student_id;type:uuid;not null;index" json:"payment_transaction_student_id"`
	PaymentTransactionAmount               decimal.Decimal `gorm:"column:payment_transaction_amount;type:numeric(14,2);not null" json:"payment_transaction_amount"`
	PaymentTransactionCurrency             string          `gorm:"column:payment_transaction_currency;size:3;not null;default:'IDR'" json:"payment_transaction_currency"`
	PaymentTransactionMethod               PaymentMethod   `gorm:"column:payment_transaction_method;type:varchar(20);not null" json:"payment_transaction_method"`
	PaymentTransactionGateway              PaymentGateway  `gorm:"column:payment_transaction_gateway;type:varchar(20);not null;index" json:"payment_transaction_gateway"`
	PaymentTransactionGatewayTransactionID *string         `gorm:"column:payment_transaction_gateway_transaction_id;size:120" json:"payment_transaction_gateway_transaction_id,omitempty"`
	PaymentTransactionGatewayOrderID       *string         `gorm:"column:payment_transaction_gateway_order_id;size:120;index" json:"payment_transaction_gateway_order_id,omitempty"`
	PaymentTransactionGatewayRedirectURL   *string         `gorm:"column:payment_transaction_gateway_redirect_url;type:text" json:"payment_transaction_gateway_redirect_url,omitempty"`
	PaymentTransactionStatus               PaymentStatus   `gorm:"column:payment_transaction_status;type:varchar(12);not null;default:'PENDING';index" json:"payment_transaction_status"`
	PaymentTransactionPaidAt               *time.Time      `gorm:"column:payment_transaction_paid_at" json:"payment_transaction_paid_at,omitempty"`
	PaymentTransactionFailureReason        *string         `gorm:"column:payment_transaction_failure_reason;type:text" json:"payment_transaction_failure_reason,omitempty"`
	PaymentTransactionRefund               datatypes.JSON  `gorm:"column:payment_transaction_refund;type:jsonb" json:"payment_transaction_refund,omitempty"`
	PaymentTransactionMeta                 datatypes.JSON  `gorm:"column:payment_transaction_meta;type:jsonb" json:"payment_transaction_meta,omitempty"`
	PaymentTransactionRecordedByUserID     *uuid.UUID      `gorm:"column:payment_transaction_recorded_by_user_id;type:uuid" json:"payment_transaction_recorded_by_user_id,omitempty"`
	PaymentTransactionCreatedAt            time.Time       `gorm:"column:payment_transaction_created_at;autoCreateTime" json:"payment_transaction_created_at"`
	PaymentTransactionUpdatedAt            time.Time       `gorm:"column:payment_transaction_updated_at;autoUpdateTime" json:"payment_transaction_updated_at"`
}

func (PaymentTransactionModel) TableName() string { return "payment_transactions" }

func (m *PaymentTransactionModel) SetRefund(d RefundDetails) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	m.PaymentTransactionRefund = datatypes.JSON(b)
	return nil
}

// RefundInProgress reports a refund claimed but not yet confirmed by the gateway.
func (m *PaymentTransactionModel) RefundInProgress() bool {
	return m.PaymentTransactionStatus == PaymentStatusSuccess && m.RefundDetails() != nil
}

// RefundDetails returns nil when the transaction was never refunded.
func (m *PaymentTransactionModel) RefundDetails() *RefundDetails {
	if len(m.PaymentTransactionRefund) == 0 || string(m.PaymentTransactionRefund) == "null" {
		return nil
	}
	var d RefundDetails
	if err := json.Unmarshal(m.PaymentTransactionRefund, &d); err != nil {
		return nil
	}
	return &d
}

// MergeMeta adds keys to the meta document, keeping existing ones.
func (m *PaymentTransactionModel) MergeMeta(kv map[string]any) {
	cur := map[string]any{}
	if len(m.PaymentTransactionMeta) > 0 {
		_ = json.Unmarshal(m.PaymentTransactionMeta, &cur)
	}
	if cur == nil {
		cur = map[string]any{}
	}
	for k, v := range kv {
		cur[k] = v
	}
	b, _ := json.Marshal(cur)
	m.PaymentTransactionMeta = datatypes.JSON(b)
}

func (m *PaymentTransactionModel) Meta() map[string]any {
	out := map[string]any{}
	if len(m.PaymentTransactionMeta) > 0 {
		_ = json.Unmarshal(m.PaymentTransactionMeta, &out)
	}
	return out
}
