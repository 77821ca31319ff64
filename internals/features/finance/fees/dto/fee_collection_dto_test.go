package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin_backend/internals/features/finance/fees/ledger"
	"schooladmin_backend/internals/features/finance/fees/model"
)

func TestCreateFeeCollectionRequest_ToModel(t *testing.T) {
	asOf := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	base := func() CreateFeeCollectionRequest {
		return CreateFeeCollectionRequest{
			StudentID:    uuid.New(),
			AcademicYear: "2024-2025",
			DueDate:      "2024-07-31",
			Components: []FeeComponentRequest{
				{Name: "Tuition", Amount: decimal.NewFromInt(800)},
				{Name: "Library", Amount: decimal.NewFromInt(200)},
			},
		}
	}

	t.Run("discount reduces total", func(t *testing.T) {
		req := base()
		req.DiscountAmount = decimal.NewFromInt(100)
		require.NoError(t, req.Validate())

		m, err := req.ToModel(asOf)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(900).Equal(m.FeeCollectionTotalAmount))
		assert.True(t, decimal.NewFromInt(900).Equal(m.FeeCollectionPendingAmount))
		assert.Equal(t, model.FeeStatusPending, m.FeeCollectionStatus)
		assert.Equal(t, "2024-07-31", m.FeeCollectionDueDate.Format("2006-01-02"))
		assert.Len(t, m.FeeCollectionComponents, 2)
	})

	t.Run("discount spread across components", func(t *testing.T) {
		req := base()
		req.DiscountAmount = decimal.NewFromInt(250)

		m, err := req.ToModel(asOf)
		require.NoError(t, err)

		c := m.FeeCollectionComponents
		assert.True(t, decimal.NewFromInt(50).Equal(c[0].Discount))
		assert.False(t, c[0].IsPaid)
		assert.True(t, decimal.NewFromInt(200).Equal(c[1].Discount))
		assert.True(t, c[1].IsPaid)

		net := c[0].NetAmount().Add(c[1].NetAmount())
		assert.True(t, m.FeeCollectionTotalAmount.Equal(net))

		require.NoError(t, ledger.ApplyPayment(m, decimal.NewFromInt(750), asOf))
		assert.Equal(t, model.FeeStatusPaid, m.FeeCollectionStatus)
		for _, comp := range m.FeeCollectionComponents {
			assert.True(t, comp.IsPaid, comp.Name)
		}
	})

	t.Run("discount above sum", func(t *testing.T) {
		req := base()
		req.DiscountAmount = decimal.NewFromInt(1001)
		_, err := req.ToModel(asOf)
		assert.Error(t, err)
	})

	t.Run("non-positive component", func(t *testing.T) {
		req := base()
		req.Components[1].Amount = decimal.Zero
		assert.Error(t, req.Validate())
	})

	t.Run("missing components", func(t *testing.T) {
		req := base()
		req.Components = nil
		assert.Error(t, req.Validate())
	})
}

func TestFromFeeCollectionModel_DerivesStatus(t *testing.T) {
	due := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	m := &model.FeeCollectionModel{
		FeeCollectionTotalAmount:   decimal.NewFromInt(1000),
		FeeCollectionPaidAmount:    decimal.NewFromInt(200),
		FeeCollectionPendingAmount: decimal.NewFromInt(800),
		FeeCollectionLateFee:       decimal.Zero,
		FeeCollectionStatus:        model.FeeStatusPartial,
		FeeCollectionDueDate:       due,
	}

	before := FromFeeCollectionModel(m, due)
	assert.Equal(t, model.FeeStatusPartial, before.FeeCollectionStatus)
	assert.Equal(t, 0, before.FeeCollectionDaysOverdue)

	// stored column still says PARTIAL; read path must report OVERDUE
	after := FromFeeCollectionModel(m, due.AddDate(0, 0, 3))
	assert.Equal(t, model.FeeStatusOverdue, after.FeeCollectionStatus)
	assert.Equal(t, 3, after.FeeCollectionDaysOverdue)
}
