package handler

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCheckoutService is a mock implementation of service.CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) CreateQuote(ctx context.Context, userID string, req *model.QuoteRequest) (*model.CheckoutSession, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutService) GetQuote(ctx context.Context, checkoutID uuid.UUID, userID string) (*model.CheckoutSession, error) {
	args := m.Called(ctx, checkoutID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutService) AttachPaymentOrder(ctx context.Context, checkoutID uuid.UUID, userID, provider, paymentOrderID string) (*model.CheckoutSession, error) {
	args := m.Called(ctx, checkoutID, userID, provider, paymentOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutSession), args.Error(1)
}

func (m *MockCheckoutService) RunReaper(ctx context.Context, interval time.Duration) {
	m.Called(ctx, interval)
}

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Finalize(ctx context.Context, checkoutID uuid.UUID, userID string, req *model.FinalizeRequest) (*model.Order, error) {
	args := m.Called(ctx, checkoutID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, orderID uuid.UUID, userID string) (*model.Order, error) {
	args := m.Called(ctx, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}
