package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"schooladmin_backend/internals/features/finance/fees/model"
)

type Summary struct {
	Collections   int                       `json:"collections"`
	TotalAmount   decimal.Decimal           `json:"total_amount"`
	LateFee       decimal.Decimal           `json:"late_fee"`
	PaidAmount    decimal.Decimal           `json:"paid_amount"`
	PendingAmount decimal.Decimal           `json:"pending_amount"`
	OverdueAmount decimal.Decimal           `json:"overdue_amount"`
	Status        model.FeeCollectionStatus `json:"status"`
	HasNoDues     bool                      `json:"has_no_dues"`
}

// Summarize folds active collections into one view; inactive ones are ignored.
func Summarize(collections []model.FeeCollectionModel, asOf time.Time) Summary {
	s := Summary{
		TotalAmount:   decimal.Zero,
		LateFee:       decimal.Zero,
		PaidAmount:    decimal.Zero,
		PendingAmount: decimal.Zero,
		OverdueAmount: decimal.Zero,
		Status:        model.FeeStatusPaid,
		HasNoDues:     true,
	}
	anyPaid := false
	for i := range collections {
		fc := &collections[i]
		if !fc.FeeCollectionIsActive {
			continue
		}
		s.Collections++
		s.TotalAmount = s.TotalAmount.Add(fc.FeeCollectionTotalAmount)
		s.LateFee = s.LateFee.Add(fc.FeeCollectionLateFee)
		s.PaidAmount = s.PaidAmount.Add(fc.FeeCollectionPaidAmount)
		if fc.FeeCollectionPaidAmount.IsPositive() {
			anyPaid = true
		}

		pending := PendingFor(fc.FeeCollectionTotalAmount, fc.FeeCollectionLateFee, fc.FeeCollectionPaidAmount)
		switch StatusOf(fc, asOf) {
		case model.FeeStatusPaid:
		case model.FeeStatusOverdue:
			s.OverdueAmount = s.OverdueAmount.Add(pending)
			s.PendingAmount = s.PendingAmount.Add(pending)
			s.HasNoDues = false
		default:
			s.PendingAmount = s.PendingAmount.Add(pending)
			s.HasNoDues = false
		}
	}

	switch {
	case s.HasNoDues:
		s.Status = model.FeeStatusPaid
	case s.OverdueAmount.IsPositive():
		s.Status = model.FeeStatusOverdue
	case anyPaid:
		s.Status = model.FeeStatusPartial
	default:
		s.Status = model.FeeStatusPending
	}
	return s
}

// HasNoPendingDues: true when every active collection is fully paid (or none exist).
func HasNoPendingDues(collections []model.FeeCollectionModel, asOf time.Time) bool {
	return Summarize(collections, asOf).HasNoDues
}
