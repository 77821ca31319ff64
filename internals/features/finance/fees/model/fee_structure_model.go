package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FeeFrequency string

const (
	FrequencyMonthly   FeeFrequency = "MONTHLY"
	FrequencyQuarterly FeeFrequency = "QUARTERLY"
	FrequencyAnnually  FeeFrequency = "ANNUALLY"
	FrequencyOneTime   FeeFrequency = "ONE_TIME"
)

// Multiplier: how many times a year the component is charged.
func (f FeeFrequency) Multiplier() int64 {
	switch f {
	case FrequencyMonthly:
		return 12
	case FrequencyQuarterly:
		return 4
	default:
		return 1
	}
}

type FeeStructureComponent struct {
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   FeeFrequency    `json:"frequency"`
	DueDay      int             `json:"due_day"`
	IsOptional  bool            `json:"is_optional"`
	Description string          `json:"description,omitempty"`
}

// AnnualAmount = amount x frequency multiplier.
func (c FeeStructureComponent) AnnualAmount() decimal.Decimal {
	return c.Amount.Mul(decimal.NewFromInt(c.Frequency.Multiplier()))
}

type FeeStructureModel struct {
	FeeStructureID             uuid.UUID                                  `gorm:"column:fee_structure_id;type:uuid;default:gen_random_uuid();primaryKey" json:"fee_structure_id"`
	FeeStructureAcademicYear   string                                     `gorm:"column:fee_structure_academic_year;size:20;not null;uniqueIndex:uq_fee_structures_year_class,priority:1" json:"fee_structure_academic_year"`
	FeeStructureClassName      string                                     `gorm:"column:fee_structure_class_name;size:50;not null;uniqueIndex:uq_fee_structures_year_class,priority:2" json:"fee_structure_class_name"`
	FeeStructureComponents     datatypes.JSONSlice[FeeStructureComponent] `gorm:"column:fee_structure_components;type:jsonb;not null" json:"fee_structure_components"`
	FeeStructureTotalAnnualFee decimal.Decimal                            `gorm:"column:fee_structure_total_annual_fee;type:numeric(14,2);not null;default:0" json:"fee_structure_total_annual_fee"`
	FeeStructureIsActive       bool                                       `gorm:"column:fee_structure_is_active;not null;default:true" json:"fee_structure_is_active"`
	FeeStructureCreatedAt      time.Time                                  `gorm:"column:fee_structure_created_at;autoCreateTime" json:"fee_structure_created_at"`
	FeeStructureUpdatedAt      time.Time                                  `gorm:"column:fee_structure_updated_at;autoUpdateTime" json:"fee_structure_updated_at"`
	FeeStructureDeletedAt      gorm.DeletedAt                             `gorm:"column:fee_structure_deleted_at;index" json:"-"`
}

func (FeeStructureModel) TableName() string { return "fee_structures" }

// ComputeTotalAnnualFee sums every component's annual amount.
func (m *FeeStructureModel) ComputeTotalAnnualFee() decimal.Decimal {
	total := decimal.Zero
	for _, c := range m.FeeStructureComponents {
		total = total.Add(c.AnnualAmount())
	}
	return total
}
