// Package gateway adapts external payment providers to one interface the
// payment service can drive: create an order, verify it, refund it.
package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Normalized gateway statuses.
const (
	StatusSuccess   = "SUCCESS"
	StatusPending   = "PENDING"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
	StatusRefunded  = "REFUNDED"
)

var ErrUnknownGateway = errors.New("unknown payment gateway")

type Customer struct {
	Name  string
	Email string
	Phone string
}

type OrderRequest struct {
	OrderID     string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Customer    Customer
	Metadata    map[string]string
}

type Order struct {
	OrderID              string `json:"order_id"`
	GatewayTransactionID string `json:"gateway_transaction_id,omitempty"`
	Token                string `json:"token,omitempty"`
	RedirectURL          string `json:"redirect_url,omitempty"`
	ClientSecret         string `json:"client_secret,omitempty"`
}

// TxnRef identifies a transaction at the provider.
type TxnRef struct {
	OrderID              string
	GatewayTransactionID string
	Amount               decimal.Decimal
	Currency             string
}

// Verification is what the ledger needs to settle a payment.
type Verification struct {
	Verified             bool
	Amount               decimal.Decimal
	GatewayTransactionID string
	Status               string
	Reason               string
}

type RefundResult struct {
	RefundID string
	Status   string
}

// WebhookEvent is a provider notification reduced to what settlement needs.
type WebhookEvent struct {
	Provider             string
	Type                 string
	OrderID              string
	GatewayTransactionID string
	Status               string
	Amount               decimal.Decimal
	SignatureValid       bool
	Payload              []byte
}

type Gateway interface {
	Name() string
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	Verify(ctx context.Context, ref TxnRef) (*Verification, error)
	Refund(ctx context.Context, ref TxnRef, amount decimal.Decimal, reason string) (*RefundResult, error)
}

// WebhookParser is implemented by gateways that push notifications.
// header returns a request header value by name.
type WebhookParser interface {
	ParseWebhook(payload []byte, header func(string) string) (*WebhookEvent, error)
}

/* ===================== Registry ===================== */

type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry(gs ...Gateway) *Registry {
	r := &Registry{gateways: map[string]Gateway{}}
	for _, g := range gs {
		r.Register(g)
	}
	return r
}

func (r *Registry) Register(g Gateway) {
	if g == nil {
		return
	}
	r.gateways[strings.ToUpper(g.Name())] = g
}

func (r *Registry) Get(name string) (Gateway, error) {
	g, ok := r.gateways[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.Wrap(ErrUnknownGateway, fmt.Sprintf("gateway %q is not configured", name))
	}
	return g, nil
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.gateways))
	for k := range r.gateways {
		out = append(out, k)
	}
	return out
}
