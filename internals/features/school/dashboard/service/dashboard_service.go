package service

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	feeModel "schooladmin_backend/internals/features/finance/fees/model"
	paymentModel "schooladmin_backend/internals/features/finance/payments/model"
	classModel "schooladmin_backend/internals/features/school/academics/classes/model"
	subjectModel "schooladmin_backend/internals/features/school/academics/subjects/model"
	attendanceService "schooladmin_backend/internals/features/school/attendance/service"
	"schooladmin_backend/internals/features/school/dashboard/dto"
	studentModel "schooladmin_backend/internals/features/school/students/model"
	teacherModel "schooladmin_backend/internals/features/school/teachers/model"
)

func counts(db *gorm.DB) (dto.Counts, error) {
	var c dto.Counts
	steps := []struct {
		model any
		where string
		args  []any
		dst   *int64
	}{
		{&studentModel.StudentModel{}, "", nil, &c.Students},
		{&studentModel.StudentModel{}, "student_status = ?", []any{studentModel.StudentStatusActive}, &c.ActiveStudents},
		{&teacherModel.TeacherModel{}, "", nil, &c.Teachers},
		{&classModel.ClassModel{}, "class_is_active = ?", []any{true}, &c.Classes},
		{&subjectModel.SubjectModel{}, "subject_is_active = ?", []any{true}, &c.Subjects},
	}
	for _, s := range steps {
		q := db.Model(s.model)
		if s.where != "" {
			q = q.Where(s.where, s.args...)
		}
		if err := q.Count(s.dst).Error; err != nil {
			return c, err
		}
	}
	return c, nil
}

// feeTotals aggregates active collections. Pending uses the stored ledger
// column; overdue is pending past its due date.
func feeTotals(db *gorm.DB, academicYear string, today time.Time) (dto.FeeTotals, error) {
	var row struct {
		Billed       decimal.Decimal
		LateFees     decimal.Decimal
		Collected    decimal.Decimal
		Pending      decimal.Decimal
		Overdue      decimal.Decimal
		OverdueCount int64
	}
	q := db.Model(&feeModel.FeeCollectionModel{}).
		Select(`COALESCE(SUM(fee_collection_total_amount),0) AS billed,
			COALESCE(SUM(fee_collection_late_fee),0) AS late_fees,
			COALESCE(SUM(fee_collection_paid_amount),0) AS collected,
			COALESCE(SUM(fee_collection_pending_amount),0) AS pending,
			COALESCE(SUM(fee_collection_pending_amount) FILTER (WHERE fee_collection_due_date < ? AND fee_collection_pending_amount > 0),0) AS overdue,
			COUNT(*) FILTER (WHERE fee_collection_due_date < ? AND fee_collection_pending_amount > 0) AS overdue_count`, today, today).
		Where("fee_collection_is_active = ?", true)
	if academicYear != "" {
		q = q.Where("fee_collection_academic_year = ?", academicYear)
	}
	if err := q.Scan(&row).Error; err != nil {
		return dto.FeeTotals{}, err
	}

	var collectedToday decimal.Decimal
	if err := db.Model(&paymentModel.PaymentTransactionModel{}).
		Select("COALESCE(SUM(payment_transaction_amount),0)").
		Where("payment_transaction_status = ? AND payment_transaction_paid_at >= ? AND payment_transaction_paid_at < ?",
			paymentModel.PaymentStatusSuccess, today, today.AddDate(0, 0, 1)).
		Scan(&collectedToday).Error; err != nil {
		return dto.FeeTotals{}, err
	}

	return dto.FeeTotals{
		Billed:         row.Billed,
		LateFees:       row.LateFees,
		Collected:      row.Collected,
		Pending:        row.Pending,
		Overdue:        row.Overdue,
		OverdueCount:   row.OverdueCount,
		CollectedToday: collectedToday,
	}, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Build assembles the admin dashboard as of now.
func Build(db *gorm.DB, academicYear, currency string, now time.Time) (*dto.DashboardResponse, error) {
	today := startOfDay(now)
	c, err := counts(db)
	if err != nil {
		return nil, err
	}
	fees, err := feeTotals(db, academicYear, today)
	if err != nil {
		return nil, err
	}
	fees.Currency = currency
	att, err := attendanceService.TodaySummary(db, now)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardResponse{
		Date:            today.Format("2006-01-02"),
		AcademicYear:    academicYear,
		Counts:          c,
		Fees:            fees,
		TodayAttendance: att,
	}, nil
}
