package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"schooladmin_backend/internals/features/finance/fees/ledger"
	"schooladmin_backend/internals/features/finance/fees/model"
	helper "schooladmin_backend/internals/helpers"
)

const dateLayout = "2006-01-02"

func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

/* =========================
   REQUEST: Create collection
========================= */

type FeeComponentRequest struct {
	Name    string          `json:"name" validate:"required,max=120"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate *string         `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type CreateFeeCollectionRequest struct {
	StudentID      uuid.UUID             `json:"student_id" validate:"required"`
	FeeStructureID *uuid.UUID            `json:"fee_structure_id"`
	AcademicYear   string                `json:"academic_year" validate:"required,max=20"`
	Term           *string               `json:"term" validate:"omitempty,max=50"`
	Components     []FeeComponentRequest `json:"components" validate:"required,min=1,dive"`
	DueDate        string                `json:"due_date" validate:"required,datetime=2006-01-02"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	DiscountReason *string               `json:"discount_reason" validate:"omitempty,max=255"`
}

func (r *CreateFeeCollectionRequest) Validate() error {
	if err := helper.Validator().Struct(r); err != nil {
		return err
	}
	if r.DiscountAmount.IsNegative() {
		return errors.New("discount_amount cannot be negative")
	}
	for _, c := range r.Components {
		if !c.Amount.IsPositive() {
			return fmt.Errorf("component %q: amount must be greater than zero", c.Name)
		}
	}
	return nil
}

// ToModel builds a fresh PENDING collection: total = sum(components) - discount.
func (r *CreateFeeCollectionRequest) ToModel(asOf time.Time) (*model.FeeCollectionModel, error) {
	due, err := ParseDate(r.DueDate)
	if err != nil {
		return nil, err
	}

	sum := decimal.Zero
	comps := make(datatypes.JSONSlice[model.FeeComponent], 0, len(r.Components))
	for _, c := range r.Components {
		fc := model.FeeComponent{Name: strings.TrimSpace(c.Name), Amount: c.Amount, PaidAmount: decimal.Zero}
		if c.DueDate != nil && *c.DueDate != "" {
			d, err := ParseDate(*c.DueDate)
			if err != nil {
				return nil, err
			}
			fc.DueDate = &d
		}
		sum = sum.Add(c.Amount)
		comps = append(comps, fc)
	}
	if r.DiscountAmount.GreaterThan(sum) {
		return nil, errors.New("discount cannot exceed the sum of the components")
	}
	model.SpreadDiscount(comps, r.DiscountAmount, asOf)

	m := &model.FeeCollectionModel{
		FeeCollectionReceiptNumber:  helper.GenReceiptNumber(),
		FeeCollectionStudentID:      r.StudentID,
		FeeCollectionFeeStructureID: r.FeeStructureID,
		FeeCollectionAcademicYear:   strings.TrimSpace(r.AcademicYear),
		FeeCollectionTerm:           r.Term,
		FeeCollectionComponents:     comps,
		FeeCollectionTotalAmount:    sum.Sub(r.DiscountAmount),
		FeeCollectionPaidAmount:     decimal.Zero,
		FeeCollectionLateFee:        decimal.Zero,
		FeeCollectionDiscountAmount: r.DiscountAmount,
		FeeCollectionDiscountReason: r.DiscountReason,
		FeeCollectionDueDate:        due,
		FeeCollectionIsActive:       true,
	}
	ledger.Refresh(m, asOf)
	return m, nil
}

/* =========================
   REQUEST: Late fees
========================= */

type RecalculateLateFeesRequest struct {
	PerDay *decimal.Decimal `json:"per_day"`
	AsOf   *string          `json:"as_of" validate:"omitempty,datetime=2006-01-02"`
}

type RecalculateLateFeesResult struct {
	AsOf    string          `json:"as_of"`
	PerDay  decimal.Decimal `json:"per_day"`
	Scanned int             `json:"scanned"`
	Updated int             `json:"updated"`
}

/* =========================
   RESPONSE
========================= */

type FeeCollectionResponse struct {
	FeeCollectionID             uuid.UUID                 `json:"fee_collection_id"`
	FeeCollectionReceiptNumber  string                    `json:"fee_collection_receipt_number"`
	FeeCollectionStudentID      uuid.UUID                 `json:"fee_collection_student_id"`
	FeeCollectionFeeStructureID *uuid.UUID                `json:"fee_collection_fee_structure_id,omitempty"`
	FeeCollectionAcademicYear   string                    `json:"fee_collection_academic_year"`
	FeeCollectionTerm           *string                   `json:"fee_collection_term,omitempty"`
	FeeCollectionComponents     []model.FeeComponent      `json:"fee_collection_components"`
	FeeCollectionTotalAmount    decimal.Decimal           `json:"fee_collection_total_amount"`
	FeeCollectionPaidAmount     decimal.Decimal           `json:"fee_collection_paid_amount"`
	FeeCollectionPendingAmount  decimal.Decimal           `json:"fee_collection_pending_amount"`
	FeeCollectionLateFee        decimal.Decimal           `json:"fee_collection_late_fee"`
	FeeCollectionDiscountAmount decimal.Decimal           `json:"fee_collection_discount_amount"`
	FeeCollectionDiscountReason *string                   `json:"fee_collection_discount_reason,omitempty"`
	FeeCollectionStatus         model.FeeCollectionStatus `json:"fee_collection_status"`
	FeeCollectionDueDate        string                    `json:"fee_collection_due_date"`
	FeeCollectionDaysOverdue    int                       `json:"fee_collection_days_overdue"`
	FeeCollectionIsActive       bool                      `json:"fee_collection_is_active"`
	FeeCollectionCreatedAt      time.Time                 `json:"fee_collection_created_at"`
	FeeCollectionUpdatedAt      time.Time                 `json:"fee_collection_updated_at"`
}

// FromFeeCollectionModel derives status and pending from the stored amounts as of asOf.
func FromFeeCollectionModel(m *model.FeeCollectionModel, asOf time.Time) FeeCollectionResponse {
	status := ledger.StatusOf(m, asOf)
	days := 0
	if status != model.FeeStatusPaid {
		days = ledger.DaysOverdue(m.FeeCollectionDueDate, asOf)
	}
	return FeeCollectionResponse{
		FeeCollectionID:             m.FeeCollectionID,
		FeeCollectionReceiptNumber:  m.FeeCollectionReceiptNumber,
		FeeCollectionStudentID:      m.FeeCollectionStudentID,
		FeeCollectionFeeStructureID: m.FeeCollectionFeeStructureID,
		FeeCollectionAcademicYear:   m.FeeCollectionAcademicYear,
		FeeCollectionTerm:           m.FeeCollectionTerm,
		FeeCollectionComponents:     m.FeeCollectionComponents,
		FeeCollectionTotalAmount:    m.FeeCollectionTotalAmount,
		FeeCollectionPaidAmount:     m.FeeCollectionPaidAmount,
		FeeCollectionPendingAmount:  ledger.PendingFor(m.FeeCollectionTotalAmount, m.FeeCollectionLateFee, m.FeeCollectionPaidAmount),
		FeeCollectionLateFee:        m.FeeCollectionLateFee,
		FeeCollectionDiscountAmount: m.FeeCollectionDiscountAmount,
		FeeCollectionDiscountReason: m.FeeCollectionDiscountReason,
		FeeCollectionStatus:         status,
		FeeCollectionDueDate:        m.FeeCollectionDueDate.Format(dateLayout),
		FeeCollectionDaysOverdue:    days,
		FeeCollectionIsActive:       m.FeeCollectionIsActive,
		FeeCollectionCreatedAt:      m.FeeCollectionCreatedAt,
		FeeCollectionUpdatedAt:      m.FeeCollectionUpdatedAt,
	}
}

func FromFeeCollectionModels(list []model.FeeCollectionModel, asOf time.Time) []FeeCollectionResponse {
	out := make([]FeeCollectionResponse, 0, len(list))
	for i := range list {
		out = append(out, FromFeeCollectionModel(&list[i], asOf))
	}
	return out
}

type StudentFeeDetailsResponse struct {
	StudentID   uuid.UUID               `json:"student_id"`
	StudentName string                  `json:"student_name"`
	ClassName   string                  `json:"class_name"`
	Section     string                  `json:"section"`
	Summary     ledger.Summary          `json:"summary"`
	NextDueDate *string                 `json:"next_due_date,omitempty"`
	Collections []FeeCollectionResponse `json:"collections"`
}

type ExamResultAccess struct {
	CanAccess bool   `json:"can_access"`
	Reason    string `json:"reason"`
}
