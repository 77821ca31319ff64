// Package ledger applies payments, refunds and late fees to a fee collection.
// Functions here do no I/O; callers persist the mutated record in the same
// database transaction as the payment state change.
package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"schooladmin_backend/internals/features/finance/fees/model"
)

var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrAmountMismatch      = errors.New("payment amount exceeds the pending amount")
	ErrRefundExceedsAmount = errors.New("refund amount cannot exceed the transaction amount")
	ErrRefundExceedsPaid   = errors.New("refund amount cannot exceed the amount paid")
	ErrInvalidRate         = errors.New("late fee rate cannot be negative")
	ErrInvariantBroken     = errors.New("ledger out of balance: paid + pending must equal total + late fee")
)

// Tolerance absorbs rounding between gateway and ledger amounts (1 currency unit).
var Tolerance = decimal.NewFromInt(1)

/* ===================== PAYMENT ===================== */

// ApplyPayment adds amount to the collection and fills unpaid components in order.
// On error fc is left untouched.
func ApplyPayment(fc *model.FeeCollectionModel, amount decimal.Decimal, at time.Time) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(fc.FeeCollectionPendingAmount.Add(Tolerance)) {
		return ErrAmountMismatch
	}

	comps := cloneComponents(fc.FeeCollectionComponents)
	remaining := amount
	for i := range comps {
		if !remaining.IsPositive() {
			break
		}
		c := &comps[i]
		if c.IsPaid {
			continue
		}
		due := c.Outstanding()
		pay := decimal.Min(remaining, due)
		c.PaidAmount = c.PaidAmount.Add(pay)
		if c.PaidAmount.GreaterThanOrEqual(c.NetAmount()) {
			c.IsPaid = true
			paidAt := at
			c.PaidDate = &paidAt
		}
		remaining = remaining.Sub(pay)
	}

	next := *fc
	next.FeeCollectionComponents = comps
	next.FeeCollectionPaidAmount = fc.FeeCollectionPaidAmount.Add(amount)
	Refresh(&next, at)
	return commit(fc, &next)
}

/* ===================== REFUND ===================== */

// ApplyRefund removes amount from the collection, reversing component payments
// from the most recently filled component backwards. txnAmount is the amount of
// the transaction being refunded.
func ApplyRefund(fc *model.FeeCollectionModel, txnAmount, amount decimal.Decimal, at time.Time) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(txnAmount) {
		return ErrRefundExceedsAmount
	}
	if amount.GreaterThan(fc.FeeCollectionPaidAmount) {
		return ErrRefundExceedsPaid
	}

	comps := cloneComponents(fc.FeeCollectionComponents)
	remaining := amount
	for i := len(comps) - 1; i >= 0 && remaining.IsPositive(); i-- {
		c := &comps[i]
		if !c.PaidAmount.IsPositive() {
			continue
		}
		back := decimal.Min(remaining, c.PaidAmount)
		c.PaidAmount = c.PaidAmount.Sub(back)
		if c.PaidAmount.LessThan(c.NetAmount()) {
			c.IsPaid = false
			c.PaidDate = nil
		}
		remaining = remaining.Sub(back)
	}

	next := *fc
	next.FeeCollectionComponents = comps
	next.FeeCollectionPaidAmount = fc.FeeCollectionPaidAmount.Sub(amount)
	Refresh(&next, at)
	return commit(fc, &next)
}

/* ===================== LATE FEES ===================== */

// RecalculateLateFees sets lateFee = daysOverdue x perDiem on every unpaid collection
// past its due date and returns the ones whose late fee changed. Re-running with
// the same asOf is a no-op. The late fee never drops below what has already been
// paid beyond the total, so a lower rate cannot leave paid > total + lateFee.
func RecalculateLateFees(collections []*model.FeeCollectionModel, asOf time.Time, perDiem decimal.Decimal) ([]*model.FeeCollectionModel, error) {
	if perDiem.IsNegative() {
		return nil, ErrInvalidRate
	}
	var changed []*model.FeeCollectionModel
	for _, fc := range collections {
		if fc == nil || !IsOutstanding(fc) {
			continue
		}
		days := DaysOverdue(fc.FeeCollectionDueDate, asOf)
		if days <= 0 {
			continue
		}
		fee := perDiem.Mul(decimal.NewFromInt(int64(days)))
		if covered := fc.FeeCollectionPaidAmount.Sub(fc.FeeCollectionTotalAmount); fee.LessThan(covered) {
			fee = covered
		}
		next := *fc
		next.FeeCollectionLateFee = fee
		Refresh(&next, asOf)
		if fee.Equal(fc.FeeCollectionLateFee) {
			fc.FeeCollectionStatus = next.FeeCollectionStatus
			continue
		}
		if err := commit(fc, &next); err != nil {
			return changed, err
		}
		changed = append(changed, fc)
	}
	return changed, nil
}

// DaysOverdue counts whole UTC calendar days from dueDate to asOf.
func DaysOverdue(dueDate, asOf time.Time) int {
	d := truncateDay(dueDate)
	a := truncateDay(asOf)
	if !a.After(d) {
		return 0
	}
	return int(a.Sub(d).Hours() / 24)
}

/* ===================== STATUS ===================== */

// PendingFor = max(0, total + lateFee - paid).
func PendingFor(total, lateFee, paid decimal.Decimal) decimal.Decimal {
	p := total.Add(lateFee).Sub(paid)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// DeriveStatus is the single source of truth for a collection's status.
func DeriveStatus(paid, total, lateFee decimal.Decimal, dueDate, asOf time.Time) model.FeeCollectionStatus {
	switch {
	case !PendingFor(total, lateFee, paid).IsPositive():
		return model.FeeStatusPaid
	case DaysOverdue(dueDate, asOf) > 0:
		return model.FeeStatusOverdue
	case !paid.IsPositive():
		return model.FeeStatusPending
	default:
		return model.FeeStatusPartial
	}
}

// StatusOf derives the status of a stored record as of asOf.
func StatusOf(fc *model.FeeCollectionModel, asOf time.Time) model.FeeCollectionStatus {
	return DeriveStatus(fc.FeeCollectionPaidAmount, fc.FeeCollectionTotalAmount, fc.FeeCollectionLateFee, fc.FeeCollectionDueDate, asOf)
}

// Refresh recomputes pending and status from paid, total, late fee and due date.
func Refresh(fc *model.FeeCollectionModel, asOf time.Time) {
	fc.FeeCollectionPendingAmount = PendingFor(fc.FeeCollectionTotalAmount, fc.FeeCollectionLateFee, fc.FeeCollectionPaidAmount)
	fc.FeeCollectionStatus = StatusOf(fc, asOf)
}

func IsOutstanding(fc *model.FeeCollectionModel) bool {
	return PendingFor(fc.FeeCollectionTotalAmount, fc.FeeCollectionLateFee, fc.FeeCollectionPaidAmount).IsPositive()
}

// commit copies next into fc only when next keeps the ledger balanced.
func commit(fc, next *model.FeeCollectionModel) error {
	if !CheckInvariant(next) {
		return ErrInvariantBroken
	}
	*fc = *next
	return nil
}

// CheckInvariant reports whether paid + pending == total + lateFee within Tolerance.
func CheckInvariant(fc *model.FeeCollectionModel) bool {
	lhs := fc.FeeCollectionPaidAmount.Add(fc.FeeCollectionPendingAmount)
	rhs := fc.FeeCollectionTotalAmount.Add(fc.FeeCollectionLateFee)
	return lhs.Sub(rhs).Abs().LessThanOrEqual(Tolerance)
}

func cloneComponents(in datatypes.JSONSlice[model.FeeComponent]) datatypes.JSONSlice[model.FeeComponent] {
	out := make(datatypes.JSONSlice[model.FeeComponent], len(in))
	copy(out, in)
	return out
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
