package service

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetActiveByIDs(ctx context.Context, ids []string) (map[string]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.Product), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, tx pgx.Tx, productID string, quantity int) (bool, error) {
	args := m.Called(ctx, tx, productID, quantity)
	return args.Bool(0), args.Error(1)
}

// MockCouponRepository is a mock implementation of CouponRepository.
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*model.Coupon, error) {
	args := m.Called(ctx, tx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Redeem(ctx context.Context, tx pgx.Tx, code, userID string, now time.Time) (bool, error) {
	args := m.Called(ctx, tx, code, userID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockCouponRepository) Upsert(ctx context.Context, coupon *model.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

// MockCheckoutRepository is a mock implementation of CheckoutRepository.
type MockCheckoutRepository struct {
	mock.Mock
}

func (m *MockCheckoutRepository) Create(ctx context.Context, session *model.CheckoutSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockCheckoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CheckoutSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.CheckoutSession, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutRepository) SetPaymentOrder(ctx context.Context, id uuid.UUID, provider, paymentOrderID string) (bool, error) {
	args := m.Called(ctx, id, provider, paymentOrderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCheckoutRepository) Complete(ctx context.Context, tx pgx.Tx, id, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, id, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCheckoutRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }
