package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	feeModel "schooladmin_backend/internals/features/finance/fees/model"
	"schooladmin_backend/internals/features/finance/payments/model"
	studentModel "schooladmin_backend/internals/features/school/students/model"
	helper "schooladmin_backend/internals/helpers"
)

var (
	ErrFeeCollectionNotFound = fiber.NewError(fiber.StatusNotFound, "Fee collection not found")
	ErrTransactionNotFound   = fiber.NewError(fiber.StatusNotFound, "Payment transaction not found")
	ErrStudentNotFound       = fiber.NewError(fiber.StatusNotFound, "Student not found")
)

type TransactionFilter struct {
	StudentID       *uuid.UUID
	FeeCollectionID *uuid.UUID
	Status          model.PaymentStatus
	Gateway         model.PaymentGateway
	From            *time.Time
	To              *time.Time
}

// Store is the persistence the payment service needs. InTx hands fn a Store
// bound to one database transaction.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	GetFeeCollection(ctx context.Context, id uuid.UUID) (*feeModel.FeeCollectionModel, error)
	LockFeeCollection(ctx context.Context, id uuid.UUID) (*feeModel.FeeCollectionModel, error)
	SaveFeeCollection(ctx context.Context, fc *feeModel.FeeCollectionModel) error

	FindTransactionByCode(ctx context.Context, code string, forUpdate bool) (*model.PaymentTransactionModel, error)
	GatewayTransactionIDTaken(ctx context.Context, gatewayTxnID string, exclude uuid.UUID) (bool, error)
	CreateTransaction(ctx context.Context, t *model.PaymentTransactionModel) error
	SaveTransaction(ctx context.Context, t *model.PaymentTransactionModel) error
	ListTransactions(ctx context.Context, f TransactionFilter, p helper.Paging) ([]model.PaymentTransactionModel, int64, error)

	FindStudent(ctx context.Context, id uuid.UUID) (*studentModel.StudentModel, error)

	CreateGatewayEvent(ctx context.Context, ev *model.PaymentGatewayEventModel) error
	SaveGatewayEvent(ctx context.Context, ev *model.PaymentGatewayEventModel) error
}

/* ===================== GORM ===================== */

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) InTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) GetFeeCollection(ctx context.Context, id uuid.UUID) (*feeModel.FeeCollectionModel, error) {
	return s.takeFeeCollection(s.db.WithContext(ctx), id)
}

func (s *GormStore) LockFeeCollection(ctx context.Context, id uuid.UUID) (*feeModel.FeeCollectionModel, error) {
	return s.takeFeeCollection(s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (s *GormStore) takeFeeCollection(q *gorm.DB, id uuid.UUID) (*feeModel.FeeCollectionModel, error) {
	var fc feeModel.FeeCollectionModel
	err := q.Where("fee_collection_id = ? AND fee_collection_is_active = ?", id, true).Take(&fc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFeeCollectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fc, nil
}

// SaveFeeCollection writes only the ledger columns.
func (s *GormStore) SaveFeeCollection(ctx context.Context, fc *feeModel.FeeCollectionModel) error {
	return s.db.WithContext(ctx).Model(fc).
		Select(
			"fee_collection_components",
			"fee_collection_paid_amount",
			"fee_collection_pending_amount",
			"fee_collection_late_fee",
			"fee_collection_status",
		).
		Updates(fc).Error
}

func (s *GormStore) FindTransactionByCode(ctx context.Context, code string, forUpdate bool) (*model.PaymentTransactionModel, error) {
	q := s.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var t model.PaymentTransactionModel
	err := q.Where("payment_transaction_code = ?", code).Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) GatewayTransactionIDTaken(ctx context.Context, gatewayTxnID string, exclude uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.PaymentTransactionModel{}).
		Where("payment_transaction_gateway_transaction_id = ?", gatewayTxnID).
		Where("payment_transaction_id <> ?", exclude).
		Where("payment_transaction_status IN ?", []model.PaymentStatus{model.PaymentStatusSuccess, model.PaymentStatusRefunded}).
		Count(&n).Error
	return n > 0, err
}

func (s *GormStore) CreateTransaction(ctx context.Context, t *model.PaymentTransactionModel) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *GormStore) SaveTransaction(ctx context.Context, t *model.PaymentTransactionModel) error {
	return s.db.WithContext(ctx).Save(t).Error
}

func (s *GormStore) ListTransactions(ctx context.Context, f TransactionFilter, p helper.Paging) ([]model.PaymentTransactionModel, int64, error) {
	q := s.db.WithContext(ctx).Model(&model.PaymentTransactionModel{})
	if f.StudentID != nil {
		q = q.Where("payment_transaction_student_id = ?", *f.StudentID)
	}
	if f.FeeCollectionID != nil {
		q = q.Where("payment_transaction_fee_collection_id = ?", *f.FeeCollectionID)
	}
	if f.Status != "" {
		q = q.Where("payment_transaction_status = ?", f.Status)
	}
	if f.Gateway != "" {
		q = q.Where("payment_transaction_gateway = ?", f.Gateway)
	}
	if f.From != nil {
		q = q.Where("payment_transaction_created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("payment_transaction_created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.PaymentTransactionModel
	if err := q.Order("payment_transaction_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *GormStore) FindStudent(ctx context.Context, id uuid.UUID) (*studentModel.StudentModel, error) {
	var st studentModel.StudentModel
	err := s.db.WithContext(ctx).Where("student_id = ?", id).Take(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *GormStore) CreateGatewayEvent(ctx context.Context, ev *model.PaymentGatewayEventModel) error {
	return s.db.WithContext(ctx).Create(ev).Error
}

func (s *GormStore) SaveGatewayEvent(ctx context.Context, ev *model.PaymentGatewayEventModel) error {
	return s.db.WithContext(ctx).Save(ev).Error
}
