package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schooladmin_backend/internals/features/finance/fees/dto"
	"schooladmin_backend/internals/features/finance/fees/ledger"
	"schooladmin_backend/internals/features/finance/fees/model"
	studentModel "schooladmin_backend/internals/features/school/students/model"
	helper "schooladmin_backend/internals/helpers"
)

const pendingDuesReason = "Pending fee dues. Please clear all dues to view exam results."

/* ===================== CREATE ===================== */

func CreateFeeCollection(db *gorm.DB, req *dto.CreateFeeCollectionRequest, asOf time.Time) (*model.FeeCollectionModel, error) {
	student, err := findStudent(db, req.StudentID)
	if err != nil {
		return nil, err
	}
	fc, err := req.ToModel(asOf)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	names := make([]string, 0, len(fc.FeeCollectionComponents))
	for _, c := range fc.FeeCollectionComponents {
		names = append(names, c.Name)
	}
	var dup int64
	if err := db.Model(&model.FeeCollectionModel{}).
		Where("fee_collection_student_id = ? AND fee_collection_academic_year = ? AND fee_collection_is_active = ?", student.StudentID, fc.FeeCollectionAcademicYear, true).
		Where("EXISTS (SELECT 1 FROM jsonb_array_elements(fee_collection_components) e WHERE e->>'name' IN ?)", names).
		Count(&dup).Error; err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Fee collection already exists for this period")
	}

	if err := db.Create(fc).Error; err != nil {
		return nil, err
	}
	return fc, nil
}

/* ===================== READ ===================== */

type FeeCollectionFilter struct {
	StudentID    *uuid.UUID
	AcademicYear string
	Status       model.FeeCollectionStatus
}

// statusScope filters on the derived status rather than the cached column.
func statusScope(status model.FeeCollectionStatus, asOf time.Time) func(*gorm.DB) *gorm.DB {
	today := asOf.UTC().Format("2006-01-02")
	return func(q *gorm.DB) *gorm.DB {
		switch status {
		case model.FeeStatusPaid:
			return q.Where("fee_collection_pending_amount <= 0")
		case model.FeeStatusOverdue:
			return q.Where("fee_collection_pending_amount > 0 AND fee_collection_due_date < ?", today)
		case model.FeeStatusPending:
			return q.Where("fee_collection_pending_amount > 0 AND fee_collection_due_date >= ? AND fee_collection_paid_amount <= 0", today)
		case model.FeeStatusPartial:
			return q.Where("fee_collection_pending_amount > 0 AND fee_collection_due_date >= ? AND fee_collection_paid_amount > 0", today)
		default:
			return q
		}
	}
}

func ListFeeCollections(db *gorm.DB, f FeeCollectionFilter, p helper.Paging, asOf time.Time) ([]model.FeeCollectionModel, int64, error) {
	q := db.Model(&model.FeeCollectionModel{}).Where("fee_collection_is_active = ?", true)
	if f.StudentID != nil {
		q = q.Where("fee_collection_student_id = ?", *f.StudentID)
	}
	if f.AcademicYear != "" {
		q = q.Where("fee_collection_academic_year = ?", f.AcademicYear)
	}
	if f.Status != "" {
		q = q.Scopes(statusScope(f.Status, asOf))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.FeeCollectionModel
	err := q.Order("fee_collection_due_date ASC, fee_collection_created_at ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&rows).Error
	return rows, total, err
}

func GetFeeCollection(db *gorm.DB, id uuid.UUID) (*model.FeeCollectionModel, error) {
	var m model.FeeCollectionModel
	if err := db.Where("fee_collection_id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Fee collection not found")
		}
		return nil, err
	}
	return &m, nil
}

func activeCollections(db *gorm.DB, studentID uuid.UUID, academicYear string) ([]model.FeeCollectionModel, error) {
	q := db.Where("fee_collection_student_id = ? AND fee_collection_is_active = ?", studentID, true)
	if academicYear != "" {
		q = q.Where("fee_collection_academic_year = ?", academicYear)
	}
	var rows []model.FeeCollectionModel
	err := q.Order("fee_collection_due_date ASC").Find(&rows).Error
	return rows, err
}

func StudentFeeDetails(db *gorm.DB, studentID uuid.UUID, academicYear string, asOf time.Time) (*dto.StudentFeeDetailsResponse, error) {
	student, err := findStudent(db, studentID)
	if err != nil {
		return nil, err
	}
	rows, err := activeCollections(db, studentID, academicYear)
	if err != nil {
		return nil, err
	}

	out := &dto.StudentFeeDetailsResponse{
		StudentID:   student.StudentID,
		StudentName: student.FullName(),
		ClassName:   student.StudentClassName,
		Section:     student.StudentSection,
		Summary:     ledger.Summarize(rows, asOf),
		Collections: dto.FromFeeCollectionModels(rows, asOf),
	}
	for i := range rows {
		if ledger.StatusOf(&rows[i], asOf) != model.FeeStatusPaid {
			d := rows[i].FeeCollectionDueDate.Format("2006-01-02")
			out.NextDueDate = &d
			break
		}
	}
	return out, nil
}

// HasNoPendingDues: true when the student has no outstanding active collection
// for the academic year (or has none at all).
func HasNoPendingDues(db *gorm.DB, studentID uuid.UUID, academicYear string, asOf time.Time) (bool, error) {
	rows, err := activeCollections(db, studentID, academicYear)
	if err != nil {
		return false, err
	}
	return ledger.HasNoPendingDues(rows, asOf), nil
}

func CanAccessExamResults(db *gorm.DB, studentID uuid.UUID, academicYear string, asOf time.Time) dto.ExamResultAccess {
	ok, err := HasNoPendingDues(db, studentID, academicYear, asOf)
	if err != nil {
		log.Printf("[FEES] dues check failed for %s: %v", studentID, err)
		return dto.ExamResultAccess{CanAccess: false, Reason: "Unable to verify fee status. Please contact administration."}
	}
	if !ok {
		return dto.ExamResultAccess{CanAccess: false, Reason: pendingDuesReason}
	}
	return dto.ExamResultAccess{CanAccess: true, Reason: "All fees are paid"}
}

/* ===================== LATE FEES ===================== */

// RecalculateLateFees locks every outstanding collection past due, recomputes its late
// fee and persists the ones that changed, all in one transaction.
func RecalculateLateFees(db *gorm.DB, asOf time.Time, perDiem decimal.Decimal) (dto.RecalculateLateFeesResult, error) {
	res := dto.RecalculateLateFeesResult{AsOf: asOf.UTC().Format("2006-01-02"), PerDay: perDiem}
	if perDiem.IsNegative() {
		return res, fiber.NewError(fiber.StatusBadRequest, ledger.ErrInvalidRate.Error())
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var rows []model.FeeCollectionModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("fee_collection_is_active = ? AND fee_collection_pending_amount > 0 AND fee_collection_due_date < ?", true, res.AsOf).
			Find(&rows).Error; err != nil {
			return err
		}
		res.Scanned = len(rows)

		ptrs := make([]*model.FeeCollectionModel, len(rows))
		for i := range rows {
			ptrs[i] = &rows[i]
		}
		changed, err := ledger.RecalculateLateFees(ptrs, asOf, perDiem)
		if err != nil {
			return err
		}
		for _, fc := range changed {
			if err := tx.Model(&model.FeeCollectionModel{}).
				Where("fee_collection_id = ?", fc.FeeCollectionID).
				Updates(map[string]any{
					"fee_collection_late_fee":       fc.FeeCollectionLateFee,
					"fee_collection_pending_amount": fc.FeeCollectionPendingAmount,
					"fee_collection_status":         fc.FeeCollectionStatus,
				}).Error; err != nil {
				return err
			}
		}
		res.Updated = len(changed)

		// status cache for rows whose fee did not move
		return tx.Model(&model.FeeCollectionModel{}).
			Where("fee_collection_is_active = ? AND fee_collection_pending_amount > 0 AND fee_collection_due_date < ? AND fee_collection_status <> ?", true, res.AsOf, model.FeeStatusOverdue).
			Update("fee_collection_status", model.FeeStatusOverdue).Error
	})
	if err != nil {
		return res, err
	}
	log.Printf("[LATE-FEE] as_of=%s scanned=%d updated=%d", res.AsOf, res.Scanned, res.Updated)
	return res, nil
}

/* ===================== helpers ===================== */

func findStudent(db *gorm.DB, id uuid.UUID) (*studentModel.StudentModel, error) {
	var s studentModel.StudentModel
	if err := db.Where("student_id = ?", id).Take(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return nil, err
	}
	return &s, nil
}

// ParseStatus accepts PAID/paid/Paid; empty means no filter.
func ParseStatus(s string) (model.FeeCollectionStatus, error) {
	st := model.FeeCollectionStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case "", model.FeeStatusPending, model.FeeStatusPartial, model.FeeStatusPaid, model.FeeStatusOverdue:
		return st, nil
	}
	return "", fiber.NewError(fiber.StatusBadRequest, "status must be one of PENDING, PARTIAL, PAID, OVERDUE")
}
