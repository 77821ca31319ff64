package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FeeCollectionStatus string

const (
	FeeStatusPending FeeCollectionStatus = "PENDING"
	FeeStatusPartial FeeCollectionStatus = "PARTIAL"
	FeeStatusPaid    FeeCollectionStatus = "PAID"
	FeeStatusOverdue FeeCollectionStatus = "OVERDUE"
)

// FeeComponent is one line item of a collection, kept in order inside a jsonb column.
// Discount is the share of the collection discount carried by this component.
type FeeComponent struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Discount   decimal.Decimal `json:"discount"`
	DueDate    *time.Time      `json:"due_date,omitempty"`
	IsPaid     bool            `json:"is_paid"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	PaidDate   *time.Time      `json:"paid_date,omitempty"`
}

// NetAmount is what the component still costs after its discount share.
func (c FeeComponent) NetAmount() decimal.Decimal {
	return c.Amount.Sub(c.Discount)
}

// SpreadDiscount assigns discount to components from the last one backwards so the
// component nets add up to the collection total. A component discounted to zero is
// marked paid at asOf.
func SpreadDiscount(comps []FeeComponent, discount decimal.Decimal, asOf time.Time) {
	remaining := discount
	for i := len(comps) - 1; i >= 0 && remaining.IsPositive(); i-- {
		c := &comps[i]
		share := decimal.Min(remaining, c.Amount.Sub(c.Discount))
		c.Discount = c.Discount.Add(share)
		remaining = remaining.Sub(share)
		if !c.NetAmount().IsPositive() {
			c.IsPaid = true
			at := asOf
			c.PaidDate = &at
		}
	}
}

func (c FeeComponent) Outstanding() decimal.Decimal {
	d := c.NetAmount().Sub(c.PaidAmount)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// FeeCollectionModel: everything one student owes for a period.
// Invariant: paid + pending == total + late fee.
type FeeCollectionModel struct {
	FeeCollectionID             uuid.UUID                         `gorm:"column:fee_collection_id;type:uuid;default:gen_random_uuid();primaryKey" json:"fee_collection_id"`
	FeeCollectionReceiptNumber  string                            `gorm:"column:fee_collection_receipt_number;size:40;not null;uniqueIndex:uq_fee_collections_receipt" json:"fee_collection_receipt_number"`
	FeeCollectionStudentID      uuid.UUID                         `gorm:"column:fee_collection_student_id;type:uuid;not null;index:idx_fee_collections_student_year,priority:1" json:"fee_collection_student_id"`
	FeeCollectionFeeStructureID *uuid.UUID                        `gorm:"column:fee_collection_fee_structure_id;type:uuid" json:"fee_collection_fee_structure_id,omitempty"`
	FeeCollectionAcademicYear   string                            `gorm:"column:fee_collection_academic_year;size:20;not null;index:idx_fee_collections_student_year,priority:2" json:"fee_collection_academic_year"`
	FeeCollectionTerm           *string                           `gorm:"column:fee_collection_term;size:50" json:"fee_collection_term,omitempty"`
	FeeCollectionComponents     datatypes.JSONSlice[FeeComponent] `gorm:"column:fee_collection_components;type:jsonb;not null" json:"fee_collection_components"`
	FeeCollectionTotalAmount    decimal.Decimal                   `gorm:"column:fee_collection_total_amount;type:numeric(14,2);not null;default:0" json:"fee_collection_total_amount"`
	FeeCollectionPaidAmount     decimal.Decimal                   `gorm:"column:fee_collection_paid_amount;type:numeric(14,2);not null;default:0" json:"fee_collection_paid_amount"`
	FeeCollectionPendingAmount  decimal.Decimal                   `gorm:"column:fee_collection_pending_amount;type:numeric(14,2);not null;default:0" json:"fee_collection_pending_amount"`
	FeeCollectionLateFee        decimal.Decimal                   `gorm:"column:fee_collection_late_fee;type:numeric(14,2);not null;default:0" json:"fee_collection_late_fee"`
	FeeCollectionDiscountAmount decimal.Decimal                   `gorm:"column:fee_collection_discount_amount;type:numeric(14,2);not null;default:0" json:"fee_collection_discount_amount"`
	FeeCollectionDiscountReason *string                           `gorm:"column:fee_collection_discount_reason;size:255" json:"fee_collection_discount_reason,omitempty"`
	FeeCollectionStatus         FeeCollectionStatus               `gorm:"column:fee_collection_status;type:varchar(10);not null;default:'PENDING';index" json:"fee_collection_status"`
	FeeCollectionDueDate        time.Time                         `gorm:"column:fee_collection_due_date;type:date;not null;index" json:"fee_collection_due_date"`
	FeeCollectionIsActive       bool                              `gorm:"column:fee_collection_is_active;not null;default:true" json:"fee_collection_is_active"`
	FeeCollectionCreatedAt      time.Time                         `gorm:"column:fee_collection_created_at;autoCreateTime" json:"fee_collection_created_at"`
	FeeCollectionUpdatedAt      time.Time                         `gorm:"column:fee_collection_updated_at;autoUpdateTime" json:"fee_collection_updated_at"`
	FeeCollectionDeletedAt      gorm.DeletedAt                    `gorm:"column:fee_collection_deleted_at;index" json:"-"`
}

func (FeeCollectionModel) TableName() string { return "fee_collections" }

// Clone deep-copies the component list so a failed ledger operation never leaks.
func (m *FeeCollectionModel) Clone() *FeeCollectionModel {
	cp := *m
	cp.FeeCollectionComponents = append(datatypes.JSONSlice[FeeComponent](nil), m.FeeCollectionComponents...)
	return &cp
}
