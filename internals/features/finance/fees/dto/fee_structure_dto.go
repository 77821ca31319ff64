package dto

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"schooladmin_backend/internals/features/finance/fees/model"
	helper "schooladmin_backend/internals/helpers"
)

/* =========================
   REQUEST: Upsert structure
========================= */

type FeeStructureComponentRequest struct {
	Name        string          `json:"name" validate:"required,max=120"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   string          `json:"frequency" validate:"required,oneof=MONTHLY QUARTERLY ANNUALLY ONE_TIME"`
	DueDay      int             `json:"due_day" validate:"min=1,max=31"`
	IsOptional  bool            `json:"is_optional"`
	Description string          `json:"description" validate:"omitempty,max=500"`
}

type UpsertFeeStructureRequest struct {
	AcademicYear string                         `json:"academic_year" validate:"required,max=20"`
	ClassName    string                         `json:"class_name" validate:"required,max=50"`
	Components   []FeeStructureComponentRequest `json:"components" validate:"required,min=1,dive"`
	IsActive     *bool                          `json:"is_active"`
}

func (r *UpsertFeeStructureRequest) Normalize() {
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
	r.ClassName = strings.TrimSpace(r.ClassName)
	for i := range r.Components {
		r.Components[i].Name = strings.TrimSpace(r.Components[i].Name)
		r.Components[i].Frequency = strings.ToUpper(strings.TrimSpace(r.Components[i].Frequency))
	}
}

func (r *UpsertFeeStructureRequest) Validate() error {
	if err := helper.Validator().Struct(r); err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, c := range r.Components {
		if c.Amount.IsNegative() {
			return fmt.Errorf("component %q: amount cannot be negative", c.Name)
		}
		key := strings.ToLower(c.Name)
		if seen[key] {
			return fmt.Errorf("component %q is listed twice", c.Name)
		}
		seen[key] = true
	}
	return nil
}

func (r *UpsertFeeStructureRequest) ToModel() *model.FeeStructureModel {
	comps := make(datatypes.JSONSlice[model.FeeStructureComponent], 0, len(r.Components))
	for _, c := range r.Components {
		comps = append(comps, model.FeeStructureComponent{
			Name:        c.Name,
			Amount:      c.Amount,
			Frequency:   model.FeeFrequency(c.Frequency),
			DueDay:      c.DueDay,
			IsOptional:  c.IsOptional,
			Description: c.Description,
		})
	}
	m := &model.FeeStructureModel{
		FeeStructureAcademicYear: r.AcademicYear,
		FeeStructureClassName:    r.ClassName,
		FeeStructureComponents:   comps,
		FeeStructureIsActive:     true,
	}
	if r.IsActive != nil {
		m.FeeStructureIsActive = *r.IsActive
	}
	m.FeeStructureTotalAnnualFee = m.ComputeTotalAnnualFee()
	return m
}

/* =========================
   REQUEST: Assign to class
========================= */

type AssignFeeStructureRequest struct {
	Section         string  `json:"section" validate:"omitempty,max=10"`
	DueDate         string  `json:"due_date" validate:"required,datetime=2006-01-02"`
	Term            *string `json:"term" validate:"omitempty,max=50"`
	IncludeOptional bool    `json:"include_optional"`
}

type AssignFeeStructureResult struct {
	FeeStructureID uuid.UUID `json:"fee_structure_id"`
	Created        int       `json:"created"`
	Skipped        int       `json:"skipped"`
}

/* =========================
   CSV import
========================= */

type FeeStructureImportResult struct {
	Upserted int                    `json:"upserted"`
	Failed   int                    `json:"failed"`
	Errors   []CSVRowError          `json:"errors,omitempty"`
	Items    []FeeStructureResponse `json:"items"`
}

type CSVRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

/* =========================
   RESPONSE
========================= */

type FeeStructureResponse struct {
	FeeStructureID             uuid.UUID                     `json:"fee_structure_id"`
	FeeStructureAcademicYear   string                        `json:"fee_structure_academic_year"`
	FeeStructureClassName      string                        `json:"fee_structure_class_name"`
	FeeStructureComponents     []model.FeeStructureComponent `json:"fee_structure_components"`
	FeeStructureTotalAnnualFee decimal.Decimal               `json:"fee_structure_total_annual_fee"`
	FeeStructureIsActive       bool                          `json:"fee_structure_is_active"`
}

func FromFeeStructureModel(m *model.FeeStructureModel) FeeStructureResponse {
	return FeeStructureResponse{
		FeeStructureID:             m.FeeStructureID,
		FeeStructureAcademicYear:   m.FeeStructureAcademicYear,
		FeeStructureClassName:      m.FeeStructureClassName,
		FeeStructureComponents:     m.FeeStructureComponents,
		FeeStructureTotalAnnualFee: m.FeeStructureTotalAnnualFee,
		FeeStructureIsActive:       m.FeeStructureIsActive,
	}
}

func FromFeeStructureModels(list []model.FeeStructureModel) []FeeStructureResponse {
	out := make([]FeeStructureResponse, 0, len(list))
	for i := range list {
		out = append(out, FromFeeStructureModel(&list[i]))
	}
	return out
}
