package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"schooladmin_backend/internals/features/finance/fees/model"
	helper "schooladmin_backend/internals/helpers"
)

func TestBuildStructuresFromCSV(t *testing.T) {
	csv := strings.Join([]string{
		"Academic Year,Class Name,Component Name,Amount,Frequency,Due Day,Is Optional,Description",
		"2024-2025,5,Tuition,1000,monthly,10,false,",
		"2024-2025,5,Transport,500,QUARTERLY,5,true,bus",
		"2024-2025,6,Tuition,1200,MONTHLY,10,false,",
		"2024-2025,6,Lab,abc,ANNUALLY,10,false,",
		",6,Library,100,ANNUALLY,10,false,",
	}, "\n")
	rows, err := helper.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)

	reqs, errs := BuildStructuresFromCSV(rows)

	require.Len(t, reqs, 2)
	assert.Equal(t, "5", reqs[0].ClassName)
	require.Len(t, reqs[0].Components, 2)
	assert.Equal(t, "monthly", reqs[0].Components[0].Frequency, "normalized later by Normalize")
	assert.True(t, reqs[0].Components[1].IsOptional)
	assert.Equal(t, 5, reqs[0].Components[1].DueDay)

	reqs[0].Normalize()
	assert.Equal(t, "MONTHLY", reqs[0].Components[0].Frequency)
	require.NoError(t, reqs[0].Validate())
	m := reqs[0].ToModel()
	assert.True(t, decimal.NewFromInt(14000).Equal(m.FeeStructureTotalAnnualFee), m.FeeStructureTotalAnnualFee.String())

	require.Len(t, errs, 2)
	assert.Equal(t, 5, errs[0].Line)
	assert.Contains(t, errs[0].Message, "invalid amount")
	assert.Equal(t, 6, errs[1].Line)
}

func TestBuildCollectionFromStructure(t *testing.T) {
	asOf := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fs := &model.FeeStructureModel{
		FeeStructureID:           uuid.New(),
		FeeStructureAcademicYear: "2024-2025",
		FeeStructureClassName:    "5",
		FeeStructureComponents: datatypes.JSONSlice[model.FeeStructureComponent]{
			{Name: "Tuition", Amount: decimal.NewFromInt(1000), Frequency: model.FrequencyMonthly},
			{Name: "Transport", Amount: decimal.NewFromInt(500), Frequency: model.FrequencyQuarterly, IsOptional: true},
			{Name: "Admission", Amount: decimal.NewFromInt(2500), Frequency: model.FrequencyOneTime},
		},
	}
	due := asOf.AddDate(0, 1, 0)
	student := uuid.New()

	tests := []struct {
		name            string
		includeOptional bool
		wantComponents  int
		wantTotal       int64
	}{
		{"required only", false, 2, 14500},
		{"with optional", true, 3, 16500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := BuildCollectionFromStructure(fs, student, due, nil, tt.includeOptional, asOf)

			assert.Len(t, fc.FeeCollectionComponents, tt.wantComponents)
			assert.True(t, decimal.NewFromInt(tt.wantTotal).Equal(fc.FeeCollectionTotalAmount))
			assert.True(t, fc.FeeCollectionTotalAmount.Equal(fc.FeeCollectionPendingAmount))
			assert.Equal(t, model.FeeStatusPending, fc.FeeCollectionStatus)
			assert.Equal(t, student, fc.FeeCollectionStudentID)
			require.NotNil(t, fc.FeeCollectionFeeStructureID)
			assert.Equal(t, fs.FeeStructureID, *fc.FeeCollectionFeeStructureID)
			assert.True(t, strings.HasPrefix(fc.FeeCollectionReceiptNumber, "RCPT-"))
		})
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" overdue ")
	require.NoError(t, err)
	assert.Equal(t, model.FeeStatusOverdue, st)

	st, err = ParseStatus("")
	require.NoError(t, err)
	assert.Empty(t, st)

	_, err = ParseStatus("late")
	assert.Error(t, err)
}
