package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"schooladmin_backend/internals/features/finance/fees/model"
)

var now = time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

// newCollection builds an invariant-holding collection due in 30 days.
func newCollection(amounts ...string) *model.FeeCollectionModel {
	comps := make(datatypes.JSONSlice[model.FeeComponent], 0, len(amounts))
	total := decimal.Zero
	for i, a := range amounts {
		comps = append(comps, model.FeeComponent{
			Name:   []string{"Tuition", "Transport", "Library", "Lab"}[i%4],
			Amount: dec(a),
		})
		total = total.Add(dec(a))
	}
	fc := &model.FeeCollectionModel{
		FeeCollectionID:          uuid.New(),
		FeeCollectionComponents:  comps,
		FeeCollectionTotalAmount: total,
		FeeCollectionDueDate:     now.AddDate(0, 0, 30),
		FeeCollectionIsActive:    true,
	}
	Refresh(fc, now)
	return fc
}

func TestApplyPayment_PartialFillsComponentsInOrder(t *testing.T) {
	fc := newCollection("250", "250", "500")

	require.NoError(t, ApplyPayment(fc, dec("400"), now))

	assertDec(t, "400", fc.FeeCollectionPaidAmount)
	assertDec(t, "600", fc.FeeCollectionPendingAmount)
	assert.Equal(t, model.FeeStatusPartial, fc.FeeCollectionStatus)

	c := fc.FeeCollectionComponents
	assert.True(t, c[0].IsPaid)
	require.NotNil(t, c[0].PaidDate)
	assert.Equal(t, now, *c[0].PaidDate)
	assertDec(t, "250", c[0].PaidAmount)

	assert.False(t, c[1].IsPaid)
	assertDec(t, "150", c[1].PaidAmount)
	assert.Nil(t, c[1].PaidDate)

	assert.False(t, c[2].IsPaid)
	assertDec(t, "0", c[2].PaidAmount)
	assert.True(t, CheckInvariant(fc))
}

func TestApplyPayment_SettlesRemainingBalance(t *testing.T) {
	fc := newCollection("600", "400")
	require.NoError(t, ApplyPayment(fc, dec("900"), now))
	assertDec(t, "100", fc.FeeCollectionPendingAmount)

	require.NoError(t, ApplyPayment(fc, dec("100"), now))

	assertDec(t, "0", fc.FeeCollectionPendingAmount)
	assertDec(t, "1000", fc.FeeCollectionPaidAmount)
	assert.Equal(t, model.FeeStatusPaid, fc.FeeCollectionStatus)
	for _, c := range fc.FeeCollectionComponents {
		assert.True(t, c.IsPaid, c.Name)
	}
}

func TestApplyPayment_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr error
	}{
		{"zero", "0", ErrInvalidAmount},
		{"negative", "-5", ErrInvalidAmount},
		{"over pending beyond tolerance", "101.01", ErrAmountMismatch},
		{"within tolerance", "101", nil},
		{"exact", "100", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := newCollection("100")
			before := fc.Clone()

			err := ApplyPayment(fc, dec(tt.amount), now)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, fc, "record must be untouched on rejection")
				return
			}
			require.NoError(t, err)
			assertDec(t, "0", fc.FeeCollectionPendingAmount)
			assert.Equal(t, model.FeeStatusPaid, fc.FeeCollectionStatus)
		})
	}
}

func TestApplyPayment_CoversLateFee(t *testing.T) {
	fc := newCollection("1000")
	fc.FeeCollectionDueDate = now.AddDate(0, 0, -5)
	_, err := RecalculateLateFees([]*model.FeeCollectionModel{fc}, now, dec("10"))
	require.NoError(t, err)
	assertDec(t, "1050", fc.FeeCollectionPendingAmount)

	require.NoError(t, ApplyPayment(fc, dec("1050"), now))

	assertDec(t, "0", fc.FeeCollectionPendingAmount)
	assert.Equal(t, model.FeeStatusPaid, fc.FeeCollectionStatus)
	assert.True(t, fc.FeeCollectionComponents[0].IsPaid)
	assertDec(t, "1000", fc.FeeCollectionComponents[0].PaidAmount)
}

func TestApplyPayment_OverdueStaysOverdueUntilSettled(t *testing.T) {
	fc := newCollection("1000")
	fc.FeeCollectionDueDate = now.AddDate(0, 0, -1)
	Refresh(fc, now)

	require.NoError(t, ApplyPayment(fc, dec("400"), now))
	assert.Equal(t, model.FeeStatusOverdue, fc.FeeCollectionStatus)
}

func TestApplyPayment_Arithmetic(t *testing.T) {
	fc := newCollection("300", "300", "400")
	for _, amt := range []string{"125.50", "74.50", "333", "0.01", "466.99"} {
		paidBefore := fc.FeeCollectionPaidAmount
		require.NoError(t, ApplyPayment(fc, dec(amt), now))

		assert.True(t, paidBefore.Add(dec(amt)).Equal(fc.FeeCollectionPaidAmount))
		want := PendingFor(fc.FeeCollectionTotalAmount, fc.FeeCollectionLateFee, fc.FeeCollectionPaidAmount)
		assert.True(t, want.Equal(fc.FeeCollectionPendingAmount))
		assert.True(t, CheckInvariant(fc))

		componentSum := decimal.Zero
		for _, c := range fc.FeeCollectionComponents {
			componentSum = componentSum.Add(c.PaidAmount)
		}
		assert.True(t, componentSum.Equal(fc.FeeCollectionPaidAmount), "component paid sum %s", componentSum)
	}
	assert.Equal(t, model.FeeStatusPaid, fc.FeeCollectionStatus)
}

func TestApplyRefund_OnPaidCollection(t *testing.T) {
	fc := newCollection("600", "400")
	require.NoError(t, ApplyPayment(fc, dec("1000"), now))

	require.NoError(t, ApplyRefund(fc, dec("1000"), dec("200"), now))

	assertDec(t, "800", fc.FeeCollectionPaidAmount)
	assertDec(t, "200", fc.FeeCollectionPendingAmount)
	assert.Equal(t, model.FeeStatusPartial, fc.FeeCollectionStatus)

	c := fc.FeeCollectionComponents
	assert.True(t, c[0].IsPaid)
	assert.False(t, c[1].IsPaid)
	assert.Nil(t, c[1].PaidDate)
	assertDec(t, "200", c[1].PaidAmount)
	assert.True(t, CheckInvariant(fc))
}

func TestApplyRefund_FullRefundBackToPending(t *testing.T) {
	fc := newCollection("500")
	require.NoError(t, ApplyPayment(fc, dec("300"), now))

	require.NoError(t, ApplyRefund(fc, dec("300"), dec("300"), now))

	assertDec(t, "0", fc.FeeCollectionPaidAmount)
	assertDec(t, "500", fc.FeeCollectionPendingAmount)
	assert.Equal(t, model.FeeStatusPending, fc.FeeCollectionStatus)
}

func TestApplyRefund_Preconditions(t *testing.T) {
	tests := []struct {
		name      string
		txnAmount string
		amount    string
		wantErr   error
	}{
		{"zero", "300", "0", ErrInvalidAmount},
		{"exceeds transaction", "300", "300.01", ErrRefundExceedsAmount},
		{"exceeds paid", "900", "500", ErrRefundExceedsPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := newCollection("1000")
			require.NoError(t, ApplyPayment(fc, dec("300"), now))
			before := fc.Clone()

			err := ApplyRefund(fc, dec(tt.txnAmount), dec(tt.amount), now)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, fc)
		})
	}
}

func TestRecalculateLateFees(t *testing.T) {
	due := now.AddDate(0, 0, -5)

	overdue := newCollection("1000")
	overdue.FeeCollectionDueDate = due

	paid := newCollection("1000")
	paid.FeeCollectionDueDate = due
	require.NoError(t, ApplyPayment(paid, dec("1000"), now))

	notDue := newCollection("1000")

	changed, err := RecalculateLateFees([]*model.FeeCollectionModel{overdue, paid, notDue, nil}, now, dec("10"))
	require.NoError(t, err)

	require.Len(t, changed, 1)
	assert.Same(t, overdue, changed[0])
	assertDec(t, "50", overdue.FeeCollectionLateFee)
	assertDec(t, "1050", overdue.FeeCollectionPendingAmount)
	assert.Equal(t, model.FeeStatusOverdue, overdue.FeeCollectionStatus)
	assert.True(t, CheckInvariant(overdue))

	assertDec(t, "0", paid.FeeCollectionLateFee)
	assert.Equal(t, model.FeeStatusPaid, paid.FeeCollectionStatus)
	assertDec(t, "0", notDue.FeeCollectionLateFee)

	t.Run("idempotent", func(t *testing.T) {
		again, err := RecalculateLateFees([]*model.FeeCollectionModel{overdue}, now.Add(3*time.Hour), dec("10"))
		require.NoError(t, err)
		assert.Empty(t, again)
		assertDec(t, "50", overdue.FeeCollectionLateFee)
	})

	t.Run("accrues next day", func(t *testing.T) {
		again, err := RecalculateLateFees([]*model.FeeCollectionModel{overdue}, now.AddDate(0, 0, 1), dec("10"))
		require.NoError(t, err)
		assert.Len(t, again, 1)
		assertDec(t, "60", overdue.FeeCollectionLateFee)
	})

	t.Run("negative rate", func(t *testing.T) {
		_, err := RecalculateLateFees(nil, now, dec("-1"))
		assert.ErrorIs(t, err, ErrInvalidRate)
	})
}

func TestRecalculateLateFees_LowerRateKeepsPaidAmountCovered(t *testing.T) {
	fc := newCollection("1000")
	fc.FeeCollectionDueDate = now.AddDate(0, 0, -5)
	Refresh(fc, now)

	_, err := RecalculateLateFees([]*model.FeeCollectionModel{fc}, now, dec("10"))
	require.NoError(t, err)
	assertDec(t, "1050", fc.FeeCollectionPendingAmount)

	require.NoError(t, ApplyPayment(fc, dec("1040"), now))
	assertDec(t, "10", fc.FeeCollectionPendingAmount)

	changed, err := RecalculateLateFees([]*model.FeeCollectionModel{fc}, now, dec("5"))
	require.NoError(t, err)
	require.Len(t, changed, 1)

	assertDec(t, "40", fc.FeeCollectionLateFee)
	assertDec(t, "0", fc.FeeCollectionPendingAmount)
	assert.Equal(t, model.FeeStatusPaid, fc.FeeCollectionStatus)
	assert.True(t, CheckInvariant(fc))
}

func TestRecalculateLateFees_EarlierAsOfKeepsStatusDerived(t *testing.T) {
	fc := newCollection("1000")
	fc.FeeCollectionDueDate = now.AddDate(0, 0, -5)
	Refresh(fc, now)

	_, err := RecalculateLateFees([]*model.FeeCollectionModel{fc}, now, dec("10"))
	require.NoError(t, err)
	require.NoError(t, ApplyPayment(fc, dec("1030"), now))

	_, err = RecalculateLateFees([]*model.FeeCollectionModel{fc}, now.AddDate(0, 0, -3), dec("10"))
	require.NoError(t, err)

	assertDec(t, "30", fc.FeeCollectionLateFee)
	assertDec(t, "0", fc.FeeCollectionPendingAmount)
	assert.Equal(t, model.FeeStatusPaid, fc.FeeCollectionStatus)
	assert.True(t, CheckInvariant(fc))
}

func TestApplyRefund_StatusAfterRefundFollowsDueDate(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		want model.FeeCollectionStatus
	}{
		{"before due date", now.AddDate(0, 0, 30), model.FeeStatusPartial},
		{"after due date", now.AddDate(0, 0, -1), model.FeeStatusOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := newCollection("1000")
			require.NoError(t, ApplyPayment(fc, dec("1000"), now))
			fc.FeeCollectionDueDate = tt.due
			Refresh(fc, now)
			require.Equal(t, model.FeeStatusPaid, fc.FeeCollectionStatus)

			require.NoError(t, ApplyRefund(fc, dec("1000"), dec("200"), now))

			assertDec(t, "800", fc.FeeCollectionPaidAmount)
			assertDec(t, "200", fc.FeeCollectionPendingAmount)
			assert.Equal(t, tt.want, fc.FeeCollectionStatus)
		})
	}
}

func TestApplyRefund_RejectsUnbalancedRecord(t *testing.T) {
	fc := newCollection("1000")
	fc.FeeCollectionPaidAmount = dec("1200")
	fc.FeeCollectionPendingAmount = decimal.Zero
	fc.FeeCollectionStatus = model.FeeStatusPaid
	before := *fc

	err := ApplyRefund(fc, dec("200"), dec("100"), now)

	assert.ErrorIs(t, err, ErrInvariantBroken)
	assert.Equal(t, before, *fc)
}

func TestApplyPayment_DiscountedComponentsSettle(t *testing.T) {
	fc := newCollection("600", "400")
	fc.FeeCollectionComponents[1].Discount = dec("100")
	fc.FeeCollectionTotalAmount = dec("900")
	Refresh(fc, now)

	require.NoError(t, ApplyPayment(fc, dec("900"), now))

	assert.Equal(t, model.FeeStatusPaid, fc.FeeCollectionStatus)
	for _, c := range fc.FeeCollectionComponents {
		assert.True(t, c.IsPaid, c.Name)
		assertDec(t, "0", c.Outstanding(), c.Name)
	}
	assertDec(t, "300", fc.FeeCollectionComponents[1].PaidAmount)
}

func TestDaysOverdue(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		asOf time.Time
		want int
	}{
		{"same day", now, now.Add(5 * time.Hour), 0},
		{"future", now.AddDate(0, 0, 2), now, 0},
		{"five days", now.AddDate(0, 0, -5), now, 5},
		{"crosses midnight", time.Date(2024, 7, 14, 23, 59, 0, 0, time.UTC), time.Date(2024, 7, 15, 0, 1, 0, 0, time.UTC), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysOverdue(tt.due, tt.asOf))
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	future := now.AddDate(0, 0, 10)
	past := now.AddDate(0, 0, -10)
	tests := []struct {
		name    string
		paid    string
		total   string
		lateFee string
		due     time.Time
		want    model.FeeCollectionStatus
	}{
		{"nothing paid", "0", "1000", "0", future, model.FeeStatusPending},
		{"part paid", "400", "1000", "0", future, model.FeeStatusPartial},
		{"fully paid", "1000", "1000", "0", future, model.FeeStatusPaid},
		{"paid but late fee open", "1000", "1000", "50", past, model.FeeStatusOverdue},
		{"past due unpaid", "0", "1000", "0", past, model.FeeStatusOverdue},
		{"past due settled", "1100", "1000", "100", past, model.FeeStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(dec(tt.paid), dec(tt.total), dec(tt.lateFee), tt.due, now)
			assert.Equal(t, tt.want, got)
		})
	}
}
