package cart

import (
	"context"
	"testing"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repository.ProductRepository.
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

func floatPtr(f float64) *float64 { return &f }

func catalogue() map[string]model.Product {
	return map[string]model.Product{
		"P001": {ID: "P001", Name: "Classic Tee", MRP: 999.00, DiscountPercent: floatPtr(10), Stock: 10, IsActive: true},
		"P002": {ID: "P002", Name: "Denim Jacket", MRP: 2499.00, Stock: 5, IsActive: true},
	}
}

func TestNormalize_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockRepo.On("GetActiveByIDs", mock.Anything, []string{"P001", "P002"}).Return(catalogue(), nil)

	normalizer := NewNormalizer(mockRepo, zerolog.Nop())

	lines := []model.CartLine{
		{ProductID: "P001", Quantity: 2},
		{ProductID: "P002", Quantity: 1},
	}

	priced, subtotal, err := normalizer.Normalize(context.Background(), lines)

	require.NoError(t, err)
	require.Len(t, priced, 2)

	assert.Equal(t, "P001", priced[0].ProductID)
	assert.Equal(t, 899.10, priced[0].UnitPrice)
	assert.Equal(t, 2, priced[0].Quantity)
	assert.Equal(t, 1798.20, priced[0].LineTotal)

	assert.Equal(t, "P002", priced[1].ProductID)
	assert.Equal(t, 2499.00, priced[1].UnitPrice)
	assert.Equal(t, 2499.00, priced[1].LineTotal)

	assert.Equal(t, 4297.20, subtotal)
	mockRepo.AssertExpectations(t)
}

func TestNormalize_MergesDuplicateLines(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockRepo.On("GetActiveByIDs", mock.Anything, []string{"P001"}).Return(catalogue(), nil)

	normalizer := NewNormalizer(mockRepo, zerolog.Nop())

	lines := []model.CartLine{
		{ProductID: "P001", Quantity: 2},
		{ProductID: "P001", Quantity: 3},
	}

	priced, subtotal, err := normalizer.Normalize(context.Background(), lines)

	require.NoError(t, err)
	require.Len(t, priced, 1)
	assert.Equal(t, 5, priced[0].Quantity)
	assert.Equal(t, 4495.50, priced[0].LineTotal)
	assert.Equal(t, 4495.50, subtotal)
}

func TestNormalize_SizeKeepsLinesSeparate(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockRepo.On("GetActiveByIDs", mock.Anything, []string{"P001"}).Return(catalogue(), nil)

	normalizer := NewNormalizer(mockRepo, zerolog.Nop())

	lines := []model.CartLine{
		{ProductID: "P001", Quantity: 1, Size: "M"},
		{ProductID: "P001", Quantity: 1, Size: "L"},
		{ProductID: "P001", Quantity: 2, Size: "M"},
	}

	priced, _, err := normalizer.Normalize(context.Background(), lines)

	require.NoError(t, err)
	require.Len(t, priced, 2)
	assert.Equal(t, "M", priced[0].Size)
	assert.Equal(t, 3, priced[0].Quantity)
	assert.Equal(t, "L", priced[1].Size)
	assert.Equal(t, 1, priced[1].Quantity)
}

func TestNormalize_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		lines   []model.CartLine
		wantErr error
	}{
		{
			name:    "empty cart",
			lines:   nil,
			wantErr: model.ErrEmptyCart,
		},
		{
			name:    "missing product ID",
			lines:   []model.CartLine{{ProductID: "", Quantity: 1}},
			wantErr: model.ErrMissingProductID,
		},
		{
			name:    "zero quantity",
			lines:   []model.CartLine{{ProductID: "P001", Quantity: 0}},
			wantErr: model.ErrInvalidQuantity,
		},
		{
			name:    "negative quantity",
			lines:   []model.CartLine{{ProductID: "P001", Quantity: -2}},
			wantErr: model.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			normalizer := NewNormalizer(mockRepo, zerolog.Nop())

			_, _, err := normalizer.Normalize(context.Background(), tt.lines)

			assert.ErrorIs(t, err, tt.wantErr)
			mockRepo.AssertNotCalled(t, "GetActiveByIDs")
		})
	}
}

func TestNormalize_UnknownProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockRepo.On("GetActiveByIDs", mock.Anything, []string{"P404"}).Return(map[string]model.Product{}, nil)

	normalizer := NewNormalizer(mockRepo, zerolog.Nop())

	_, _, err := normalizer.Normalize(context.Background(), []model.CartLine{{ProductID: "P404", Quantity: 1}})

	assert.ErrorIs(t, err, model.ErrInvalidItem)
}

func TestNormalize_InsufficientStock(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockRepo.On("GetActiveByIDs", mock.Anything, []string{"P002"}).Return(catalogue(), nil)

	normalizer := NewNormalizer(mockRepo, zerolog.Nop())

	_, _, err := normalizer.Normalize(context.Background(), []model.CartLine{{ProductID: "P002", Quantity: 6}})

	assert.ErrorIs(t, err, model.ErrInsufficientStock)
}

func TestNormalize_MergedQuantityCheckedAgainstStock(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockRepo.On("GetActiveByIDs", mock.Anything, []string{"P002"}).Return(catalogue(), nil)

	normalizer := NewNormalizer(mockRepo, zerolog.Nop())

	// Each line fits stock on its own; the merged quantity does not.
	lines := []model.CartLine{
		{ProductID: "P002", Quantity: 3},
		{ProductID: "P002", Quantity: 3},
	}

	_, _, err := normalizer.Normalize(context.Background(), lines)

	assert.ErrorIs(t, err, model.ErrInsufficientStock)
}
