package gateway

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const NameManual = "MANUAL"

// Manual covers cash, cheque and bank transfers recorded by an admin. The money
// is already in hand, so verification always succeeds for the recorded amount.
type Manual struct{}

func NewManual() *Manual { return &Manual{} }

func (Manual) Name() string { return NameManual }

func (Manual) CreateOrder(_ context.Context, req OrderRequest) (*Order, error) {
	return &Order{OrderID: req.OrderID}, nil
}

func (Manual) Verify(_ context.Context, ref TxnRef) (*Verification, error) {
	return &Verification{
		Verified:             true,
		Amount:               ref.Amount,
		GatewayTransactionID: ref.GatewayTransactionID,
		Status:               StatusSuccess,
	}, nil
}

func (Manual) Refund(_ context.Context, _ TxnRef, _ decimal.Decimal, _ string) (*RefundResult, error) {
	return &RefundResult{RefundID: "MANUAL-RF-" + uuid.NewString()[:8], Status: "succeeded"}, nil
}
