package gateway

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMidtransStatus(t *testing.T) {
	tests := []struct {
		status, fraud string
		want          string
	}{
		{"capture", "accept", StatusSuccess},
		{"capture", "challenge", StatusPending},
		{"capture", "deny", StatusFailed},
		{"settlement", "", StatusSuccess},
		{"pending", "", StatusPending},
		{"deny", "", StatusFailed},
		{"cancel", "", StatusCancelled},
		{"expire", "", StatusCancelled},
		{"refund", "", StatusRefunded},
		{"partial_refund", "", StatusRefunded},
		{"failure", "", StatusFailed},
		{"SETTLEMENT", "", StatusSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.fraud, func(t *testing.T) {
			assert.Equal(t, tt.want, MapMidtransStatus(tt.status, tt.fraud))
		})
	}
}

func TestMidtransWebhookSignature(t *testing.T) {
	const key = "SB-Mid-server-test"
	m := NewMidtrans(key, false)

	notif := map[string]string{
		"order_id":           "TXN-20240715-101500-ABCD1234",
		"status_code":        "200",
		"gross_amount":       "400000.00",
		"transaction_status": "settlement",
		"transaction_id":     "b1f1c7a2-0000-4a0e-9d7f-000000000001",
	}
	notif["signature_key"] = MidtransSignature(notif["order_id"], notif["status_code"], notif["gross_amount"], key)
	payload, err := json.Marshal(notif)
	require.NoError(t, err)

	ev, err := m.ParseWebhook(payload, nil)
	require.NoError(t, err)
	assert.True(t, ev.SignatureValid)
	assert.Equal(t, StatusSuccess, ev.Status)
	assert.Equal(t, notif["order_id"], ev.OrderID)
	assert.True(t, decimal.NewFromInt(400000).Equal(ev.Amount))

	t.Run("tampered amount", func(t *testing.T) {
		notif["gross_amount"] = "1.00"
		payload, _ := json.Marshal(notif)
		ev, err := m.ParseWebhook(payload, nil)
		assert.ErrorIs(t, err, ErrInvalidSignature)
		require.NotNil(t, ev)
		assert.False(t, ev.SignatureValid)
	})
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1234), ToMinorUnits(decimal.RequireFromString("12.34")))
	assert.Equal(t, int64(40000000), ToMinorUnits(decimal.NewFromInt(400000)))
	assert.True(t, decimal.RequireFromString("12.34").Equal(FromMinorUnits(1234)))
}

func TestStripeRefundParamsAreIdempotent(t *testing.T) {
	ref := TxnRef{OrderID: "PAY-20240715-0001", GatewayTransactionID: "pi_123"}

	first := refundParams(ref, decimal.NewFromInt(200), "withdrawn")
	retry := refundParams(ref, decimal.NewFromInt(200), "withdrawn")

	require.NotNil(t, first.IdempotencyKey)
	assert.Equal(t, "RF-PAY-20240715-0001", *first.IdempotencyKey)
	assert.Equal(t, *first.IdempotencyKey, *retry.IdempotencyKey)
	assert.Equal(t, int64(20000), *first.Amount)
	assert.Equal(t, "pi_123", *first.PaymentIntent)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(NewManual())

	g, err := r.Get("manual")
	require.NoError(t, err)
	assert.Equal(t, NameManual, g.Name())

	_, err = r.Get("RAZORPAY")
	assert.ErrorIs(t, err, ErrUnknownGateway)
}

func TestManualVerifiesRecordedAmount(t *testing.T) {
	v, err := NewManual().Verify(context.Background(), TxnRef{Amount: decimal.NewFromInt(250)})
	require.NoError(t, err)
	assert.True(t, v.Verified)
	assert.True(t, decimal.NewFromInt(250).Equal(v.Amount))
}
