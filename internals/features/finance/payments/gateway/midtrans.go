package gateway

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const NameMidtrans = "MIDTRANS"

var ErrInvalidSignature = errors.New("invalid webhook signature")

type Midtrans struct {
	serverKey string
	snap      snap.Client
	core      coreapi.Client
}

// NewMidtrans builds the snap (checkout) and core API (status, refund) clients.
func NewMidtrans(serverKey string, production bool) *Midtrans {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	m := &Midtrans{serverKey: serverKey}
	m.snap.New(serverKey, env)
	m.core.New(serverKey, env)
	return m
}

func (m *Midtrans) Name() string { return NameMidtrans }

func (m *Midtrans) CreateOrder(_ context.Context, req OrderRequest) (*Order, error) {
	if !req.Amount.IsPositive() {
		return nil, errors.New("midtrans: amount must be positive")
	}
	gross := req.Amount.Round(0).IntPart()
	first, last := splitName(req.Customer.Name)

	sr := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: first,
			LName: last,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       req.OrderID,
			Price:    gross,
			Qty:      1,
			Name:     truncate(firstNonEmpty(req.Description, "School fee payment"), 50),
			Category: "SCHOOL_FEE",
		}},
		CustomField1: truncate(req.Metadata["fee_collection_id"], 40),
	}

	resp, mErr := m.snap.CreateTransaction(sr)
	if mErr != nil {
		return nil, errors.Wrap(mErr, "midtrans: create snap transaction")
	}
	return &Order{OrderID: req.OrderID, Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func (m *Midtrans) Verify(_ context.Context, ref TxnRef) (*Verification, error) {
	resp, mErr := m.core.CheckTransaction(ref.OrderID)
	if mErr != nil {
		return nil, errors.Wrapf(mErr, "midtrans: check transaction %s", ref.OrderID)
	}
	status := MapMidtransStatus(resp.TransactionStatus, resp.FraudStatus)
	amount, _ := decimal.NewFromString(resp.GrossAmount)
	v := &Verification{
		Verified:             status == StatusSuccess,
		Amount:               amount,
		GatewayTransactionID: resp.TransactionID,
		Status:               status,
	}
	if !v.Verified {
		v.Reason = "midtrans transaction_status=" + resp.TransactionStatus
	}
	return v, nil
}

func (m *Midtrans) Refund(_ context.Context, ref TxnRef, amount decimal.Decimal, reason string) (*RefundResult, error) {
	key := "RF-" + ref.OrderID
	resp, mErr := m.core.RefundTransaction(ref.OrderID, &coreapi.RefundReq{
		RefundKey: key,
		Amount:    amount.Round(0).IntPart(),
		Reason:    reason,
	})
	if mErr != nil {
		return nil, errors.Wrapf(mErr, "midtrans: refund %s", ref.OrderID)
	}
	return &RefundResult{RefundID: key, Status: resp.StatusCode}, nil
}

/* ===================== Webhook ===================== */

type midtransNotification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

// ParseWebhook decodes a notification and checks its signature. An event with a
// bad signature is returned together with ErrInvalidSignature so it can be logged.
func (m *Midtrans) ParseWebhook(payload []byte, _ func(string) string) (*WebhookEvent, error) {
	var n midtransNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, errors.Wrap(err, "midtrans: decode notification")
	}
	amount, _ := decimal.NewFromString(n.GrossAmount)
	ev := &WebhookEvent{
		Provider:             NameMidtrans,
		Type:                 n.TransactionStatus,
		OrderID:              n.OrderID,
		GatewayTransactionID: n.TransactionID,
		Status:               MapMidtransStatus(n.TransactionStatus, n.FraudStatus),
		Amount:               amount,
		Payload:              payload,
	}
	ev.SignatureValid = VerifyMidtransSignature(n.OrderID, n.StatusCode, n.GrossAmount, m.serverKey, n.SignatureKey)
	if !ev.SignatureValid {
		return ev, ErrInvalidSignature
	}
	return ev, nil
}

// MidtransSignature = hex(SHA512(order_id + status_code + gross_amount + server_key)).
func MidtransSignature(orderID, statusCode, grossAmount, serverKey string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(h[:])
}

func VerifyMidtransSignature(orderID, statusCode, grossAmount, serverKey, signature string) bool {
	want := strings.ToLower(strings.TrimSpace(signature))
	if want == "" || serverKey == "" {
		return false
	}
	return MidtransSignature(orderID, statusCode, grossAmount, serverKey) == want
}

// MapMidtransStatus folds transaction_status (+ fraud_status for card capture)
// into the normalized statuses.
func MapMidtransStatus(transactionStatus, fraudStatus string) string {
	switch strings.ToLower(transactionStatus) {
	case "capture":
		switch strings.ToLower(fraudStatus) {
		case "accept", "":
			return StatusSuccess
		case "challenge":
			return StatusPending
		default:
			return StatusFailed
		}
	case "settlement":
		return StatusSuccess
	case "pending", "authorize":
		return StatusPending
	case "deny", "failure":
		return StatusFailed
	case "cancel", "expire":
		return StatusCancelled
	case "refund", "partial_refund":
		return StatusRefunded
	}
	return StatusPending
}

/* ===================== utils ===================== */

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
