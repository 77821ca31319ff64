package gateway

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/refund"
	"github.com/stripe/stripe-go/v80/webhook"
)

const NameStripe = "STRIPE"

type Stripe struct {
	webhookSecret string
	currency      string
}

// NewStripe sets the package-level stripe key; the SDK keeps it globally.
func NewStripe(secretKey, webhookSecret, currency string) *Stripe {
	stripe.Key = secretKey
	return &Stripe{webhookSecret: webhookSecret, currency: strings.ToLower(currency)}
}

func (s *Stripe) Name() string { return NameStripe }

func (s *Stripe) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if !req.Amount.IsPositive() {
		return nil, errors.New("stripe: amount must be positive")
	}
	currency := strings.ToLower(firstNonEmpty(req.Currency, s.currency))

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(ToMinorUnits(req.Amount)),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Description:        stripe.String(firstNonEmpty(req.Description, "School fee payment")),
	}
	params.Context = ctx
	if req.Customer.Email != "" {
		params.ReceiptEmail = stripe.String(req.Customer.Email)
	}
	params.AddMetadata("order_id", req.OrderID)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, errors.Wrap(err, "stripe: create payment intent")
	}
	return &Order{OrderID: req.OrderID, GatewayTransactionID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (s *Stripe) Verify(ctx context.Context, ref TxnRef) (*Verification, error) {
	if ref.GatewayTransactionID == "" {
		return nil, errors.New("stripe: payment intent id is required")
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(ref.GatewayTransactionID, params)
	if err != nil {
		return nil, errors.Wrapf(err, "stripe: get payment intent %s", ref.GatewayTransactionID)
	}
	status := MapStripeStatus(string(pi.Status))
	v := &Verification{
		Verified:             status == StatusSuccess,
		Amount:               FromMinorUnits(pi.AmountReceived),
		GatewayTransactionID: pi.ID,
		Status:               status,
	}
	if orderID := pi.Metadata["order_id"]; orderID != "" && ref.OrderID != "" && orderID != ref.OrderID {
		v.Verified = false
		v.Reason = "payment intent belongs to another order"
		return v, nil
	}
	if !v.Verified {
		v.Reason = "stripe status=" + string(pi.Status)
	}
	return v, nil
}

func (s *Stripe) Refund(ctx context.Context, ref TxnRef, amount decimal.Decimal, reason string) (*RefundResult, error) {
	params := refundParams(ref, amount, reason)
	params.Context = ctx

	r, err := refund.New(params)
	if err != nil {
		return nil, errors.Wrapf(err, "stripe: refund %s", ref.GatewayTransactionID)
	}
	return &RefundResult{RefundID: r.ID, Status: string(r.Status)}, nil
}

// ParseWebhook verifies the Stripe-Signature header and reduces payment_intent.* events.
// refundParams keys the request on the order so a retried refund is not issued twice.
func refundParams(ref TxnRef, amount decimal.Decimal, reason string) *stripe.RefundParams {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(ref.GatewayTransactionID),
		Amount:        stripe.Int64(ToMinorUnits(amount)),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	params.SetIdempotencyKey("RF-" + ref.OrderID)
	if reason != "" {
		params.AddMetadata("reason", truncate(reason, 500))
	}
	params.AddMetadata("order_id", ref.OrderID)
	return params
}

func (s *Stripe) ParseWebhook(payload []byte, header func(string) string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, header("Stripe-Signature"), s.webhookSecret)
	if err != nil {
		return &WebhookEvent{Provider: NameStripe, Payload: payload}, errors.Wrap(ErrInvalidSignature, err.Error())
	}

	ev := &WebhookEvent{
		Provider:       NameStripe,
		Type:           string(event.Type),
		SignatureValid: true,
		Payload:        payload,
		Status:         StatusPending,
	}
	if !strings.HasPrefix(string(event.Type), "payment_intent.") {
		return ev, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return ev, errors.Wrap(err, "stripe: decode payment intent")
	}
	ev.OrderID = pi.Metadata["order_id"]
	ev.GatewayTransactionID = pi.ID
	ev.Amount = FromMinorUnits(pi.AmountReceived)

	switch event.Type {
	case "payment_intent.succeeded":
		ev.Status = StatusSuccess
	case "payment_intent.payment_failed":
		ev.Status = StatusFailed
	case "payment_intent.canceled":
		ev.Status = StatusCancelled
	}
	return ev, nil
}

func MapStripeStatus(status string) string {
	switch status {
	case "succeeded":
		return StatusSuccess
	case "canceled":
		return StatusCancelled
	case "requires_payment_method":
		return StatusFailed
	}
	return StatusPending
}

// ToMinorUnits converts 12.34 to 1234.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func FromMinorUnits(v int64) decimal.Decimal {
	return decimal.New(v, -2)
}
