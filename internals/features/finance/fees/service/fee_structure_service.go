package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"schooladmin_backend/internals/features/finance/fees/dto"
	"schooladmin_backend/internals/features/finance/fees/ledger"
	"schooladmin_backend/internals/features/finance/fees/model"
	studentModel "schooladmin_backend/internals/features/school/students/model"
	helper "schooladmin_backend/internals/helpers"
)

/* ===================== UPSERT ===================== */

// UpsertFeeStructure creates or replaces the structure for (academic_year, class_name).
// A soft-deleted structure with the same key is revived. created reports an insert.
func UpsertFeeStructure(db *gorm.DB, req *dto.UpsertFeeStructureRequest) (*model.FeeStructureModel, bool, error) {
	in := req.ToModel()
	created := false

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing model.FeeStructureModel
		err := tx.Unscoped().
			Where("fee_structure_academic_year = ? AND fee_structure_class_name = ?", in.FeeStructureAcademicYear, in.FeeStructureClassName).
			Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(in).Error
		case err != nil:
			return err
		}

		if err := tx.Unscoped().Model(&existing).Updates(map[string]any{
			"fee_structure_components":       in.FeeStructureComponents,
			"fee_structure_total_annual_fee": in.FeeStructureTotalAnnualFee,
			"fee_structure_is_active":        in.FeeStructureIsActive,
			"fee_structure_deleted_at":       nil,
		}).Error; err != nil {
			return err
		}
		in.FeeStructureID = existing.FeeStructureID
		in.FeeStructureCreatedAt = existing.FeeStructureCreatedAt
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return in, created, nil
}

/* ===================== READ / DELETE ===================== */

type FeeStructureFilter struct {
	AcademicYear string
	ClassName    string
	OnlyActive   bool
}

func ListFeeStructures(db *gorm.DB, f FeeStructureFilter, p helper.Paging) ([]model.FeeStructureModel, int64, error) {
	q := db.Model(&model.FeeStructureModel{})
	if f.AcademicYear != "" {
		q = q.Where("fee_structure_academic_year = ?", f.AcademicYear)
	}
	if f.ClassName != "" {
		q = q.Where("fee_structure_class_name = ?", f.ClassName)
	}
	if f.OnlyActive {
		q = q.Where("fee_structure_is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.FeeStructureModel
	err := q.Order("fee_structure_academic_year DESC, fee_structure_class_name ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error
	return rows, total, err
}

func GetFeeStructure(db *gorm.DB, id uuid.UUID) (*model.FeeStructureModel, error) {
	var m model.FeeStructureModel
	if err := db.Where("fee_structure_id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Fee structure not found")
		}
		return nil, err
	}
	return &m, nil
}

func DeleteFeeStructure(db *gorm.DB, id uuid.UUID) error {
	res := db.Where("fee_structure_id = ?", id).Delete(&model.FeeStructureModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Fee structure not found")
	}
	return nil
}

/* ===================== CSV ===================== */

// BuildStructuresFromCSV groups component rows by (academic_year, class_name).
// Expected headers: academic_year, class_name, component_name, amount, frequency,
// due_day, is_optional, description.
func BuildStructuresFromCSV(rows []helper.CSVRow) ([]dto.UpsertFeeStructureRequest, []dto.CSVRowError) {
	var (
		order  []string
		groups = map[string]*dto.UpsertFeeStructureRequest{}
		errs   []dto.CSVRowError
	)
	for _, r := range rows {
		year, class := r.Get("academic_year"), r.Get("class_name")
		if class == "" {
			class = r.Get("class")
		}
		name := r.Get("component_name")
		if year == "" || class == "" || name == "" {
			errs = append(errs, dto.CSVRowError{Line: r.Line, Message: "academic_year, class_name and component_name are required"})
			continue
		}
		amount, err := decimal.NewFromString(r.Get("amount"))
		if err != nil {
			errs = append(errs, dto.CSVRowError{Line: r.Line, Message: fmt.Sprintf("invalid amount %q", r.Get("amount"))})
			continue
		}
		freq := strings.ToUpper(strings.ReplaceAll(r.Get("frequency"), " ", "_"))
		if freq == "" {
			freq = string(model.FrequencyAnnually)
		}
		dueDay := 10
		if v := r.Get("due_day"); v != "" {
			if dueDay, err = strconv.Atoi(v); err != nil {
				errs = append(errs, dto.CSVRowError{Line: r.Line, Message: fmt.Sprintf("invalid due_day %q", v)})
				continue
			}
		}
		optional, _ := strconv.ParseBool(strings.ToLower(r.Get("is_optional")))

		key := year + "|" + strings.ToLower(class)
		g, ok := groups[key]
		if !ok {
			g = &dto.UpsertFeeStructureRequest{AcademicYear: year, ClassName: class}
			groups[key] = g
			order = append(order, key)
		}
		g.Components = append(g.Components, dto.FeeStructureComponentRequest{
			Name:        name,
			Amount:      amount,
			Frequency:   freq,
			DueDay:      dueDay,
			IsOptional:  optional,
			Description: r.Get("description"),
		})
	}

	out := make([]dto.UpsertFeeStructureRequest, 0, len(order))
	for _, k := range order {
		out = append(out, *groups[k])
	}
	return out, errs
}

func ImportFeeStructuresCSV(db *gorm.DB, rows []helper.CSVRow) dto.FeeStructureImportResult {
	reqs, rowErrs := BuildStructuresFromCSV(rows)
	res := dto.FeeStructureImportResult{Errors: rowErrs, Failed: len(rowErrs), Items: []dto.FeeStructureResponse{}}

	for i := range reqs {
		req := &reqs[i]
		req.Normalize()
		if err := req.Validate(); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, dto.CSVRowError{Message: fmt.Sprintf("%s/%s: %v", req.AcademicYear, req.ClassName, err)})
			continue
		}
		m, _, err := UpsertFeeStructure(db, req)
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, dto.CSVRowError{Message: fmt.Sprintf("%s/%s: %v", req.AcademicYear, req.ClassName, err)})
			continue
		}
		res.Upserted++
		res.Items = append(res.Items, dto.FromFeeStructureModel(m))
	}
	return res
}

/* ===================== ASSIGN ===================== */

// BuildCollectionFromStructure charges each component's annual amount, skipping
// optional components unless includeOptional is set.
func BuildCollectionFromStructure(fs *model.FeeStructureModel, studentID uuid.UUID, due time.Time, term *string, includeOptional bool, asOf time.Time) *model.FeeCollectionModel {
	comps := make(datatypes.JSONSlice[model.FeeComponent], 0, len(fs.FeeStructureComponents))
	total := decimal.Zero
	for _, c := range fs.FeeStructureComponents {
		if c.IsOptional && !includeOptional {
			continue
		}
		amt := c.AnnualAmount()
		d := due
		comps = append(comps, model.FeeComponent{Name: c.Name, Amount: amt, DueDate: &d, PaidAmount: decimal.Zero})
		total = total.Add(amt)
	}
	fsID := fs.FeeStructureID
	fc := &model.FeeCollectionModel{
		FeeCollectionReceiptNumber:  helper.GenReceiptNumber(),
		FeeCollectionStudentID:      studentID,
		FeeCollectionFeeStructureID: &fsID,
		FeeCollectionAcademicYear:   fs.FeeStructureAcademicYear,
		FeeCollectionTerm:           term,
		FeeCollectionComponents:     comps,
		FeeCollectionTotalAmount:    total,
		FeeCollectionPaidAmount:     decimal.Zero,
		FeeCollectionLateFee:        decimal.Zero,
		FeeCollectionDiscountAmount: decimal.Zero,
		FeeCollectionDueDate:        due,
		FeeCollectionIsActive:       true,
	}
	ledger.Refresh(fc, asOf)
	return fc
}

// AssignStructureToClass creates one collection per active student of the class,
// skipping students that already have a collection for this structure.
func AssignStructureToClass(db *gorm.DB, structureID uuid.UUID, req *dto.AssignFeeStructureRequest, asOf time.Time) (dto.AssignFeeStructureResult, error) {
	res := dto.AssignFeeStructureResult{FeeStructureID: structureID}

	fs, err := GetFeeStructure(db, structureID)
	if err != nil {
		return res, err
	}
	if !fs.FeeStructureIsActive {
		return res, fiber.NewError(fiber.StatusBadRequest, "Fee structure is inactive")
	}
	due, err := dto.ParseDate(req.DueDate)
	if err != nil {
		return res, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&studentModel.StudentModel{}).
			Where("student_class_name = ? AND student_academic_year = ? AND student_status = ?",
				fs.FeeStructureClassName, fs.FeeStructureAcademicYear, studentModel.StudentStatusActive)
		if s := strings.TrimSpace(req.Section); s != "" {
			q = q.Where("student_section = ?", s)
		}
		var studentIDs []uuid.UUID
		if err := q.Pluck("student_id", &studentIDs).Error; err != nil {
			return err
		}
		if len(studentIDs) == 0 {
			return nil
		}

		var existing []uuid.UUID
		if err := tx.Model(&model.FeeCollectionModel{}).
			Where("fee_collection_fee_structure_id = ? AND fee_collection_student_id IN ?", structureID, studentIDs).
			Pluck("fee_collection_student_id", &existing).Error; err != nil {
			return err
		}
		has := make(map[uuid.UUID]bool, len(existing))
		for _, id := range existing {
			has[id] = true
		}

		batch := make([]*model.FeeCollectionModel, 0, len(studentIDs))
		for _, sid := range studentIDs {
			if has[sid] {
				res.Skipped++
				continue
			}
			batch = append(batch, BuildCollectionFromStructure(fs, sid, due, req.Term, req.IncludeOptional, asOf))
		}
		if len(batch) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(batch, 200).Error; err != nil {
			return err
		}
		res.Created = len(batch)
		return nil
	})
	return res, err
}
