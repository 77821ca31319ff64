package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin_backend/internals/features/finance/fees/model"
)

func TestSummarize(t *testing.T) {
	paid := newCollection("500")
	require.NoError(t, ApplyPayment(paid, dec("500"), now))

	partial := newCollection("1000")
	require.NoError(t, ApplyPayment(partial, dec("250"), now))

	overdue := newCollection("300")
	overdue.FeeCollectionDueDate = now.AddDate(0, 0, -2)
	overdue.FeeCollectionLateFee = dec("20")
	Refresh(overdue, now)

	inactive := newCollection("9999")
	inactive.FeeCollectionIsActive = false

	s := Summarize([]model.FeeCollectionModel{*paid, *partial, *overdue, *inactive}, now)

	assert.Equal(t, 3, s.Collections)
	assertDec(t, "1800", s.TotalAmount)
	assertDec(t, "20", s.LateFee)
	assertDec(t, "750", s.PaidAmount)
	assertDec(t, "1070", s.PendingAmount)
	assertDec(t, "320", s.OverdueAmount)
	assert.Equal(t, model.FeeStatusOverdue, s.Status)
	assert.False(t, s.HasNoDues)
}

func TestHasNoPendingDues(t *testing.T) {
	assert.True(t, HasNoPendingDues(nil, now), "no collections means no dues")

	settled := newCollection("100")
	require.NoError(t, ApplyPayment(settled, dec("100"), now))
	assert.True(t, HasNoPendingDues([]model.FeeCollectionModel{*settled}, now))

	open := newCollection("100")
	assert.False(t, HasNoPendingDues([]model.FeeCollectionModel{*settled, *open}, now))
}
