package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"schooladmin_backend/internals/features/finance/fees/ledger"
	feeModel "schooladmin_backend/internals/features/finance/fees/model"
	"schooladmin_backend/internals/features/finance/payments/dto"
	"schooladmin_backend/internals/features/finance/payments/gateway"
	"schooladmin_backend/internals/features/finance/payments/model"
	studentModel "schooladmin_backend/internals/features/school/students/model"
	helper "schooladmin_backend/internals/helpers"
)

var now = time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s got %s", want, got.String()}, msg...)...)
}

func statusCode(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe), "expected *fiber.Error, got %v", err)
	return fe.Code
}

/* ===================== in-memory store ===================== */

// txMu stands in for row locks: one InTx runs at a time.
type memStore struct {
	txMu     sync.Mutex
	mu       sync.Mutex
	fcs      map[uuid.UUID]*feeModel.FeeCollectionModel
	txns     map[string]*model.PaymentTransactionModel
	students map[uuid.UUID]*studentModel.StudentModel
	events   []*model.PaymentGatewayEventModel
}

func newMemStore() *memStore {
	return &memStore{
		fcs:      map[uuid.UUID]*feeModel.FeeCollectionModel{},
		txns:     map[string]*model.PaymentTransactionModel{},
		students: map[uuid.UUID]*studentModel.StudentModel{},
	}
}

func (m *memStore) InTx(_ context.Context, fn func(Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	fcs := make(map[uuid.UUID]*feeModel.FeeCollectionModel, len(m.fcs))
	for k, v := range m.fcs {
		fcs[k] = v.Clone()
	}
	txns := make(map[string]*model.PaymentTransactionModel, len(m.txns))
	for k, v := range m.txns {
		cp := *v
		txns[k] = &cp
	}
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.fcs, m.txns = fcs, txns
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) GetFeeCollection(_ context.Context, id uuid.UUID) (*feeModel.FeeCollectionModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fc, ok := m.fcs[id]
	if !ok {
		return nil, ErrFeeCollectionNotFound
	}
	return fc.Clone(), nil
}

func (m *memStore) LockFeeCollection(ctx context.Context, id uuid.UUID) (*feeModel.FeeCollectionModel, error) {
	return m.GetFeeCollection(ctx, id)
}

func (m *memStore) SaveFeeCollection(_ context.Context, fc *feeModel.FeeCollectionModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fcs[fc.FeeCollectionID] = fc.Clone()
	return nil
}

func (m *memStore) FindTransactionByCode(_ context.Context, code string, _ bool) (*model.PaymentTransactionModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.txns[code]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) GatewayTransactionIDTaken(_ context.Context, id string, exclude uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.txns {
		if t.PaymentTransactionID == exclude || t.PaymentTransactionGatewayTransactionID == nil {
			continue
		}
		settled := t.PaymentTransactionStatus == model.PaymentStatusSuccess || t.PaymentTransactionStatus == model.PaymentStatusRefunded
		if settled && *t.PaymentTransactionGatewayTransactionID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateTransaction(_ context.Context, t *model.PaymentTransactionModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.txns[t.PaymentTransactionCode]; ok {
		return errors.New("duplicate code")
	}
	if t.PaymentTransactionID == uuid.Nil {
		t.PaymentTransactionID = uuid.New()
	}
	t.PaymentTransactionCreatedAt = now
	cp := *t
	m.txns[t.PaymentTransactionCode] = &cp
	return nil
}

func (m *memStore) SaveTransaction(_ context.Context, t *model.PaymentTransactionModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.txns[t.PaymentTransactionCode] = &cp
	return nil
}

func (m *memStore) ListTransactions(_ context.Context, f TransactionFilter, _ helper.Paging) ([]model.PaymentTransactionModel, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PaymentTransactionModel
	for _, t := range m.txns {
		if f.StudentID != nil && t.PaymentTransactionStudentID != *f.StudentID {
			continue
		}
		if f.Status != "" && t.PaymentTransactionStatus != f.Status {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (m *memStore) FindStudent(_ context.Context, id uuid.UUID) (*studentModel.StudentModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.students[id]
	if !ok {
		return nil, ErrStudentNotFound
	}
	cp := *st
	return &cp, nil
}

func (m *memStore) CreateGatewayEvent(_ context.Context, ev *model.PaymentGatewayEventModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev.GatewayEventID = uuid.New()
	m.events = append(m.events, ev)
	return nil
}

func (m *memStore) SaveGatewayEvent(context.Context, *model.PaymentGatewayEventModel) error { return nil }

func (m *memStore) collection(id uuid.UUID) *feeModel.FeeCollectionModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fcs[id].Clone()
}

func (m *memStore) txn(code string) *model.PaymentTransactionModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.txns[code]
	return &cp
}

/* ===================== fake gateway ===================== */

type fakeGateway struct {
	verification *gateway.Verification
	verifyErr    error
	orderErr     error
	event        *gateway.WebhookEvent
	eventErr     error
	refundDelay  time.Duration
	refundErr    error
	refunds      atomic.Int32
}

func (g *fakeGateway) Name() string { return gateway.NameMidtrans }

func (g *fakeGateway) CreateOrder(_ context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	return &gateway.Order{OrderID: req.OrderID, Token: "snap-token", RedirectURL: "https://pay.example/" + req.OrderID}, nil
}

func (g *fakeGateway) Verify(context.Context, gateway.TxnRef) (*gateway.Verification, error) {
	return g.verification, g.verifyErr
}

func (g *fakeGateway) Refund(_ context.Context, ref gateway.TxnRef, _ decimal.Decimal, _ string) (*gateway.RefundResult, error) {
	g.refunds.Add(1)
	time.Sleep(g.refundDelay)
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	return &gateway.RefundResult{RefundID: "RF-" + ref.OrderID, Status: "200"}, nil
}

func (g *fakeGateway) ParseWebhook([]byte, func(string) string) (*gateway.WebhookEvent, error) {
	return g.event, g.eventErr
}

/* ===================== fixture ===================== */

type fixture struct {
	svc     *Service
	store   *memStore
	gw      *fakeGateway
	fcID    uuid.UUID
	student uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	studentID := uuid.New()
	email := "guardian@example.com"
	store.students[studentID] = &studentModel.StudentModel{
		StudentID:            studentID,
		StudentScholarNumber: "SCH-001",
		StudentFirstName:     "Asha",
		StudentLastName:      "Verma",
		StudentClassName:     "5",
		StudentSection:       "A",
		StudentGuardianEmail: &email,
	}

	due := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)
	fc := &feeModel.FeeCollectionModel{
		FeeCollectionID:            uuid.New(),
		FeeCollectionReceiptNumber: "RCPT-20240701-AAAA0001",
		FeeCollectionStudentID:     studentID,
		FeeCollectionAcademicYear:  "2024-2025",
		FeeCollectionComponents: datatypes.JSONSlice[feeModel.FeeComponent]{
			{Name: "Tuition", Amount: dec("250")},
			{Name: "Library", Amount: dec("250")},
			{Name: "Transport", Amount: dec("500")},
		},
		FeeCollectionTotalAmount: dec("1000"),
		FeeCollectionDueDate:     due,
		FeeCollectionIsActive:    true,
	}
	ledger.Refresh(fc, now)
	store.fcs[fc.FeeCollectionID] = fc

	gw := &fakeGateway{}
	svc := NewService(store, gateway.NewRegistry(gw, gateway.NewManual()), nil, "idr")
	svc.Now = func() time.Time { return now }

	return &fixture{svc: svc, store: store, gw: gw, fcID: fc.FeeCollectionID, student: studentID}
}

func (f *fixture) initiate(t *testing.T, amount string) *model.PaymentTransactionModel {
	t.Helper()
	txn, order, err := f.svc.Initiate(context.Background(), InitiateInput{Request: &dto.InitiatePaymentRequest{
		FeeCollectionID: f.fcID,
		Amount:          dec(amount),
		Gateway:         model.GatewayMidtrans,
		Method:          model.PaymentMethodOnline,
	}})
	require.NoError(t, err)
	require.NotNil(t, order)
	return txn
}

/* ===================== tests ===================== */

func TestInitiate(t *testing.T) {
	f := newFixture(t)
	txn := f.initiate(t, "400")

	stored := f.store.txn(txn.PaymentTransactionCode)
	assert.Equal(t, model.PaymentStatusPending, stored.PaymentTransactionStatus)
	assert.Equal(t, "IDR", stored.PaymentTransactionCurrency)
	require.NotNil(t, stored.PaymentTransactionGatewayOrderID)
	assert.Equal(t, stored.PaymentTransactionCode, *stored.PaymentTransactionGatewayOrderID)
	require.NotNil(t, stored.PaymentTransactionGatewayRedirectURL)
	assert.Equal(t, "snap-token", stored.Meta()["snap_token"])

	// nothing reaches the ledger before verification
	assertDec(t, "0", f.store.collection(f.fcID).FeeCollectionPaidAmount)

	t.Run("amount above pending", func(t *testing.T) {
		_, _, err := f.svc.Initiate(context.Background(), InitiateInput{Request: &dto.InitiatePaymentRequest{
			FeeCollectionID: f.fcID, Amount: dec("1001.50"), Gateway: model.GatewayMidtrans,
		}})
		assert.Equal(t, fiber.StatusBadRequest, statusCode(t, err))
	})

	t.Run("other student", func(t *testing.T) {
		other := uuid.New()
		_, _, err := f.svc.Initiate(context.Background(), InitiateInput{
			Request: &dto.InitiatePaymentRequest{FeeCollectionID: f.fcID, Amount: dec("100"), Gateway: model.GatewayMidtrans},
			Scope:   &other,
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("gateway down marks failed", func(t *testing.T) {
		f.gw.orderErr = errors.New("connection refused")
		defer func() { f.gw.orderErr = nil }()

		_, _, err := f.svc.Initiate(context.Background(), InitiateInput{Request: &dto.InitiatePaymentRequest{
			FeeCollectionID: f.fcID, Amount: dec("100"), Gateway: model.GatewayMidtrans,
		}})
		assert.Equal(t, fiber.StatusBadGateway, statusCode(t, err))

		failed, _, _ := f.store.ListTransactions(context.Background(), TransactionFilter{Status: model.PaymentStatusFailed}, helper.Paging{})
		assert.Len(t, failed, 1)
	})
}

func TestVerifySettlesLedger(t *testing.T) {
	f := newFixture(t)
	txn := f.initiate(t, "400")
	f.gw.verification = &gateway.Verification{Verified: true, Amount: dec("400"), GatewayTransactionID: "G-1", Status: gateway.StatusSuccess}

	got, err := f.svc.Verify(context.Background(), VerifyInput{TransactionCode: txn.PaymentTransactionCode})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusSuccess, got.PaymentTransactionStatus)
	require.NotNil(t, got.PaymentTransactionPaidAt)
	assert.Equal(t, "G-1", *got.PaymentTransactionGatewayTransactionID)

	fc := f.store.collection(f.fcID)
	assertDec(t, "400", fc.FeeCollectionPaidAmount)
	assertDec(t, "600", fc.FeeCollectionPendingAmount)
	assert.Equal(t, feeModel.FeeStatusPartial, fc.FeeCollectionStatus)
	assert.True(t, fc.FeeCollectionComponents[0].IsPaid)
	assertDec(t, "150", fc.FeeCollectionComponents[1].PaidAmount)
	assertDec(t, "0", fc.FeeCollectionComponents[2].PaidAmount)

	t.Run("replay rejected", func(t *testing.T) {
		_, err := f.svc.Verify(context.Background(), VerifyInput{TransactionCode: txn.PaymentTransactionCode})
		assert.ErrorIs(t, err, ErrDuplicateTransaction)
		assertDec(t, "400", f.store.collection(f.fcID).FeeCollectionPaidAmount)
	})

	t.Run("same gateway id on another transaction", func(t *testing.T) {
		second := f.initiate(t, "400")
		_, err := f.svc.Verify(context.Background(), VerifyInput{TransactionCode: second.PaymentTransactionCode})
		assert.ErrorIs(t, err, ErrDuplicateTransaction)
		assert.Equal(t, model.PaymentStatusFailed, f.store.txn(second.PaymentTransactionCode).PaymentTransactionStatus)
		assertDec(t, "400", f.store.collection(f.fcID).FeeCollectionPaidAmount)
	})
}

func TestVerifyRejected(t *testing.T) {
	tests := []struct {
		name       string
		v          *gateway.Verification
		wantErr    error
		wantStatus model.PaymentStatus
	}{
		{
			name:       "denied",
			v:          &gateway.Verification{Status: gateway.StatusFailed, Reason: "deny"},
			wantErr:    ErrVerificationFailed,
			wantStatus: model.PaymentStatusFailed,
		},
		{
			name:       "expired",
			v:          &gateway.Verification{Status: gateway.StatusCancelled},
			wantErr:    ErrVerificationFailed,
			wantStatus: model.PaymentStatusCancelled,
		},
		{
			name:       "still pending",
			v:          &gateway.Verification{Status: gateway.StatusPending},
			wantErr:    ErrStillPending,
			wantStatus: model.PaymentStatusPending,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			txn := f.initiate(t, "400")
			f.gw.verification = tt.v

			_, err := f.svc.Verify(context.Background(), VerifyInput{TransactionCode: txn.PaymentTransactionCode})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantStatus, f.store.txn(txn.PaymentTransactionCode).PaymentTransactionStatus)
			assertDec(t, "0", f.store.collection(f.fcID).FeeCollectionPaidAmount)
		})
	}

	t.Run("failure is terminal", func(t *testing.T) {
		f := newFixture(t)
		txn := f.initiate(t, "400")
		f.gw.verification = &gateway.Verification{Status: gateway.StatusFailed}
		_, _ = f.svc.Verify(context.Background(), VerifyInput{TransactionCode: txn.PaymentTransactionCode})

		f.gw.verification = &gateway.Verification{Verified: true, Amount: dec("400"), Status: gateway.StatusSuccess}
		_, err := f.svc.Verify(context.Background(), VerifyInput{TransactionCode: txn.PaymentTransactionCode})
		assert.ErrorIs(t, err, ErrTransactionNotPending)
	})
}

func TestVerifyAmountMismatch(t *testing.T) {
	f := newFixture(t)
	txn := f.initiate(t, "400")
	f.gw.verification = &gateway.Verification{Verified: true, Amount: dec("40"), GatewayTransactionID: "G-9", Status: gateway.StatusSuccess}

	_, err := f.svc.Verify(context.Background(), VerifyInput{TransactionCode: txn.PaymentTransactionCode})
	assert.Equal(t, fiber.StatusBadRequest, statusCode(t, err))

	stored := f.store.txn(txn.PaymentTransactionCode)
	assert.Equal(t, model.PaymentStatusFailed, stored.PaymentTransactionStatus)
	require.NotNil(t, stored.PaymentTransactionFailureReason)
	assertDec(t, "0", f.store.collection(f.fcID).FeeCollectionPaidAmount)
}

func TestRecordManualAndRefund(t *testing.T) {
	f := newFixture(t)
	ref := "CHQ-1001"
	txn, err := f.svc.RecordManual(context.Background(), &dto.ManualPaymentRequest{
		FeeCollectionID: f.fcID,
		Method:          model.PaymentMethodCheque,
		Reference:       &ref,
	}, nil)
	require.NoError(t, err)
	assertDec(t, "1000", txn.PaymentTransactionAmount)
	assert.Equal(t, model.GatewayManual, txn.PaymentTransactionGateway)
	assert.Equal(t, feeModel.FeeStatusPaid, f.store.collection(f.fcID).FeeCollectionStatus)

	t.Run("same reference twice", func(t *testing.T) {
		_, err := f.svc.RecordManual(context.Background(), &dto.ManualPaymentRequest{
			FeeCollectionID: f.fcID, Amount: dec("1"), Method: model.PaymentMethodCheque, Reference: &ref,
		}, nil)
		assert.ErrorIs(t, err, ErrDuplicateTransaction)
	})

	t.Run("refund above transaction amount", func(t *testing.T) {
		_, err := f.svc.Refund(context.Background(), txn.PaymentTransactionCode, &dto.RefundPaymentRequest{Amount: dec("1200"), Reason: "typo"})
		assert.Equal(t, fiber.StatusBadRequest, statusCode(t, err))
	})

	refunded, err := f.svc.Refund(context.Background(), txn.PaymentTransactionCode, &dto.RefundPaymentRequest{Amount: dec("200"), Reason: "transport not used"})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusRefunded, refunded.PaymentTransactionStatus)
	details := refunded.RefundDetails()
	require.NotNil(t, details)
	assertDec(t, "200", details.Amount)
	assert.Contains(t, details.RefundID, "MANUAL-RF-")

	fc := f.store.collection(f.fcID)
	assertDec(t, "800", fc.FeeCollectionPaidAmount)
	assertDec(t, "200", fc.FeeCollectionPendingAmount)
	assert.Equal(t, feeModel.FeeStatusPartial, fc.FeeCollectionStatus)
	assert.False(t, fc.FeeCollectionComponents[2].IsPaid)
	assertDec(t, "300", fc.FeeCollectionComponents[2].PaidAmount)

	t.Run("refund twice", func(t *testing.T) {
		_, err := f.svc.Refund(context.Background(), txn.PaymentTransactionCode, &dto.RefundPaymentRequest{Reason: "again"})
		assert.ErrorIs(t, err, ErrNotRefundable)
	})

	t.Run("receipt", func(t *testing.T) {
		r, err := f.svc.Receipt(context.Background(), txn.PaymentTransactionCode, nil)
		require.NoError(t, err)
		assert.Equal(t, "RCPT-20240701-AAAA0001", r.ReceiptNumber)
		assert.Equal(t, "Asha Verma", r.StudentName)
		assert.Len(t, r.Lines, 3)
		require.NotNil(t, r.Refund)
		assert.Contains(t, RenderReceiptText(*r), "Pending: 200.00")
	})
}

func TestGatewayRefundGoesThroughGateway(t *testing.T) {
	f := newFixture(t)
	txn := f.initiate(t, "1000")
	f.gw.verification = &gateway.Verification{Verified: true, Amount: dec("1000"), GatewayTransactionID: "G-2", Status: gateway.StatusSuccess}
	_, err := f.svc.Verify(context.Background(), VerifyInput{TransactionCode: txn.PaymentTransactionCode})
	require.NoError(t, err)

	_, err = f.svc.Refund(context.Background(), txn.PaymentTransactionCode, &dto.RefundPaymentRequest{Reason: "withdrawn"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.gw.refunds.Load())

	fc := f.store.collection(f.fcID)
	assertDec(t, "0", fc.FeeCollectionPaidAmount)
	assert.Equal(t, feeModel.FeeStatusPending, fc.FeeCollectionStatus)
}

func TestConcurrentRefundsReachGatewayOnce(t *testing.T) {
	f := newFixture(t)
	txn := f.initiate(t, "1000")
	f.gw.verification = &gateway.Verification{Verified: true, Amount: dec("1000"), GatewayTransactionID: "G-3", Status: gateway.StatusSuccess}
	_, err := f.svc.Verify(context.Background(), VerifyInput{TransactionCode: txn.PaymentTransactionCode})
	require.NoError(t, err)
	f.gw.refundDelay = 50 * time.Millisecond

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Refund(context.Background(), txn.PaymentTransactionCode, &dto.RefundPaymentRequest{Amount: dec("200"), Reason: "double click"})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), f.gw.refunds.Load())
	var ok, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrRefundInProgress), errors.Is(err, ErrNotRefundable):
			rejected++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, rejected)

	assert.Equal(t, model.PaymentStatusRefunded, f.store.txn(txn.PaymentTransactionCode).PaymentTransactionStatus)
	fc := f.store.collection(f.fcID)
	assertDec(t, "800", fc.FeeCollectionPaidAmount)
	assertDec(t, "200", fc.FeeCollectionPendingAmount)
}

func TestRefundClaimReleasedWhenGatewayFails(t *testing.T) {
	f := newFixture(t)
	txn := f.initiate(t, "1000")
	f.gw.verification = &gateway.Verification{Verified: true, Amount: dec("1000"), GatewayTransactionID: "G-4", Status: gateway.StatusSuccess}
	_, err := f.svc.Verify(context.Background(), VerifyInput{TransactionCode: txn.PaymentTransactionCode})
	require.NoError(t, err)

	f.gw.refundErr = errors.New("gateway timeout")
	_, err = f.svc.Refund(context.Background(), txn.PaymentTransactionCode, &dto.RefundPaymentRequest{Reason: "withdrawn"})
	assert.Equal(t, fiber.StatusBadGateway, statusCode(t, err))

	stored := f.store.txn(txn.PaymentTransactionCode)
	assert.Equal(t, model.PaymentStatusSuccess, stored.PaymentTransactionStatus)
	assert.False(t, stored.RefundInProgress())
	assertDec(t, "1000", f.store.collection(f.fcID).FeeCollectionPaidAmount)

	f.gw.refundErr = nil
	refunded, err := f.svc.Refund(context.Background(), txn.PaymentTransactionCode, &dto.RefundPaymentRequest{Reason: "withdrawn"})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusRefunded, refunded.PaymentTransactionStatus)
	assert.Equal(t, int32(2), f.gw.refunds.Load())
}

func TestHandleWebhook(t *testing.T) {
	f := newFixture(t)
	txn := f.initiate(t, "400")
	f.gw.event = &gateway.WebhookEvent{
		Provider:             gateway.NameMidtrans,
		Type:                 "settlement",
		OrderID:              txn.PaymentTransactionCode,
		GatewayTransactionID: "G-7",
		Status:               gateway.StatusSuccess,
		Amount:               dec("400"),
		SignatureValid:       true,
	}

	require.NoError(t, f.svc.HandleWebhook(context.Background(), "midtrans", []byte(`{}`), nil))
	assert.Equal(t, model.PaymentStatusSuccess, f.store.txn(txn.PaymentTransactionCode).PaymentTransactionStatus)
	assertDec(t, "400", f.store.collection(f.fcID).FeeCollectionPaidAmount)

	// gateways deliver at least once
	require.NoError(t, f.svc.HandleWebhook(context.Background(), "midtrans", []byte(`{}`), nil))
	assertDec(t, "400", f.store.collection(f.fcID).FeeCollectionPaidAmount)
	require.Len(t, f.store.events, 2)
	assert.Equal(t, model.GatewayEventProcessed, f.store.events[0].GatewayEventStatus)
	assert.Equal(t, model.GatewayEventIgnored, f.store.events[1].GatewayEventStatus)

	t.Run("bad signature", func(t *testing.T) {
		f.gw.event = &gateway.WebhookEvent{Provider: gateway.NameMidtrans, OrderID: txn.PaymentTransactionCode}
		f.gw.eventErr = gateway.ErrInvalidSignature
		err := f.svc.HandleWebhook(context.Background(), "midtrans", []byte(`{}`), nil)
		assert.ErrorIs(t, err, ErrInvalidWebhook)
		assert.Equal(t, model.GatewayEventFailed, f.store.events[len(f.store.events)-1].GatewayEventStatus)
	})

	t.Run("unknown order acknowledged", func(t *testing.T) {
		f.gw.eventErr = nil
		f.gw.event = &gateway.WebhookEvent{Provider: gateway.NameMidtrans, OrderID: "TXN-NOPE", Status: gateway.StatusSuccess, SignatureValid: true}
		assert.NoError(t, f.svc.HandleWebhook(context.Background(), "midtrans", []byte(`{}`), nil))
	})
}

func TestVerifyScope(t *testing.T) {
	f := newFixture(t)
	txn := f.initiate(t, "100")
	other := uuid.New()
	_, err := f.svc.Verify(context.Background(), VerifyInput{TransactionCode: txn.PaymentTransactionCode, Scope: &other})
	assert.ErrorIs(t, err, ErrForbidden)
}
