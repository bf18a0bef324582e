package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newRequest builds a request with an authenticated user and an optional
// checkout ID path value, mirroring what the router and middleware provide.
func newRequest(t *testing.T, method, target string, body any, userID string, pathID string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req = req.WithContext(middleware.WithUserID(context.Background(), userID))
	if pathID != "" {
		req.SetPathValue("id", pathID)
	}
	return req
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestCreateQuote_Handler(t *testing.T) {
	checkouts := new(MockCheckoutService)
	h := NewCheckoutHandler(checkouts, new(MockOrderService), zerolog.Nop())

	session := &model.CheckoutSession{
		ID:       uuid.New(),
		UserID:   "user-1",
		Subtotal: 1798.20,
		Total:    1798.20,
		Currency: "INR",
		Status:   model.CheckoutPending,
	}
	checkouts.On("CreateQuote", mock.Anything, "user-1", mock.AnythingOfType("*model.QuoteRequest")).Return(session, nil)

	body := model.QuoteRequest{Items: []model.CartLine{{ProductID: "P001", Quantity: 2}}}
	req := newRequest(t, http.MethodPost, "/api/checkout", body, "user-1", "")
	rec := httptest.NewRecorder()

	h.CreateQuote(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var got model.CheckoutSession
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, 1798.20, got.Total)
}

func TestCreateQuote_Handler_InvalidJSON(t *testing.T) {
	h := NewCheckoutHandler(new(MockCheckoutService), new(MockOrderService), zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewBufferString("{not json"))
	req = req.WithContext(middleware.WithUserID(context.Background(), "user-1"))
	rec := httptest.NewRecorder()

	h.CreateQuote(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.ErrCodeInvalidJSON, decodeErrorResponse(t, rec).Error)
}

func TestCreateQuote_Handler_BusinessErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"insufficient stock", model.ErrInsufficientStock, http.StatusBadRequest, model.ErrCodeInsufficientStock},
		{"empty cart", model.ErrEmptyCart, http.StatusBadRequest, model.ErrCodeEmptyCart},
		{"coupon rejected", model.ErrCouponMinOrderNotMet, http.StatusBadRequest, model.ErrCodeCouponMinOrderNotMet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkouts := new(MockCheckoutService)
			checkouts.On("CreateQuote", mock.Anything, "user-1", mock.Anything).Return(nil, tt.err)
			h := NewCheckoutHandler(checkouts, new(MockOrderService), zerolog.Nop())

			body := model.QuoteRequest{Items: []model.CartLine{{ProductID: "P001", Quantity: 1}}}
			req := newRequest(t, http.MethodPost, "/api/checkout", body, "user-1", "")
			rec := httptest.NewRecorder()

			h.CreateQuote(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeErrorResponse(t, rec).Error)
		})
	}
}

func TestGetQuote_Handler(t *testing.T) {
	checkoutID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", model.ErrCheckoutNotFound, http.StatusNotFound, model.ErrCodeCheckoutNotFound},
		{"expired", model.ErrCheckoutExpired, http.StatusBadRequest, model.ErrCodeCheckoutExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkouts := new(MockCheckoutService)
			checkouts.On("GetQuote", mock.Anything, checkoutID, "user-1").Return(nil, tt.err)
			h := NewCheckoutHandler(checkouts, new(MockOrderService), zerolog.Nop())

			req := newRequest(t, http.MethodGet, "/api/checkout/"+checkoutID.String(), nil, "user-1", checkoutID.String())
			rec := httptest.NewRecorder()

			h.GetQuote(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeErrorResponse(t, rec).Error)
		})
	}
}

func TestGetQuote_Handler_InvalidID(t *testing.T) {
	h := NewCheckoutHandler(new(MockCheckoutService), new(MockOrderService), zerolog.Nop())

	req := newRequest(t, http.MethodGet, "/api/checkout/not-a-uuid", nil, "user-1", "not-a-uuid")
	rec := httptest.NewRecorder()

	h.GetQuote(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttachPaymentOrder_Handler(t *testing.T) {
	checkoutID := uuid.New()
	provider := "razorpay"
	paymentOrderID := "pay_123"

	checkouts := new(MockCheckoutService)
	checkouts.On("AttachPaymentOrder", mock.Anything, checkoutID, "user-1", provider, paymentOrderID).Return(&model.CheckoutSession{
		ID:              checkoutID,
		UserID:          "user-1",
		Status:          model.CheckoutPending,
		PaymentProvider: &provider,
		PaymentOrderID:  &paymentOrderID,
		ExpiresAt:       time.Now().Add(10 * time.Minute),
	}, nil)
	h := NewCheckoutHandler(checkouts, new(MockOrderService), zerolog.Nop())

	body := map[string]string{"provider": provider, "paymentOrderId": paymentOrderID}
	req := newRequest(t, http.MethodPost, "/api/checkout/"+checkoutID.String()+"/payment-order", body, "user-1", checkoutID.String())
	rec := httptest.NewRecorder()

	h.AttachPaymentOrder(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAttachPaymentOrder_Handler_MissingFields(t *testing.T) {
	checkoutID := uuid.New()
	checkouts := new(MockCheckoutService)
	h := NewCheckoutHandler(checkouts, new(MockOrderService), zerolog.Nop())

	body := map[string]string{"provider": "razorpay"}
	req := newRequest(t, http.MethodPost, "/api/checkout/"+checkoutID.String()+"/payment-order", body, "user-1", checkoutID.String())
	rec := httptest.NewRecorder()

	h.AttachPaymentOrder(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	checkouts.AssertNotCalled(t, "AttachPaymentOrder")
}

func TestFinalize_Handler_Success(t *testing.T) {
	checkoutID := uuid.New()
	orderID := uuid.New()

	orders := new(MockOrderService)
	orders.On("Finalize", mock.Anything, checkoutID, "user-1", mock.AnythingOfType("*model.FinalizeRequest")).Return(&model.Order{
		ID:          orderID,
		OrderNumber: "ORD-20260829-1a2b3c4d",
		UserID:      "user-1",
		TotalPrice:  4297.20,
		Status:      model.OrderPaid,
	}, nil)
	h := NewCheckoutHandler(new(MockCheckoutService), orders, zerolog.Nop())

	body := model.FinalizeRequest{
		Payment: model.PaymentConfirmation{
			PaymentID:       "pay_abc",
			ExternalOrderID: "order_ext_1",
			Provider:        "razorpay",
			Status:          "paid",
		},
	}
	req := newRequest(t, http.MethodPost, "/api/checkout/"+checkoutID.String()+"/finalize", body, "user-1", checkoutID.String())
	rec := httptest.NewRecorder()

	h.Finalize(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var got model.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, orderID, got.ID)
	assert.Equal(t, model.OrderPaid, got.Status)
}

func TestFinalize_Handler_ValidationErrors(t *testing.T) {
	checkoutID := uuid.New()

	tests := []struct {
		name string
		body model.FinalizeRequest
	}{
		{
			name: "missing payment fields",
			body: model.FinalizeRequest{
				Payment: model.PaymentConfirmation{Status: "paid"},
			},
		},
		{
			name: "invalid payment status",
			body: model.FinalizeRequest{
				Payment: model.PaymentConfirmation{
					PaymentID:       "pay_abc",
					ExternalOrderID: "order_ext_1",
					Provider:        "razorpay",
					Status:          "refunded",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := new(MockOrderService)
			h := NewCheckoutHandler(new(MockCheckoutService), orders, zerolog.Nop())

			req := newRequest(t, http.MethodPost, "/api/checkout/"+checkoutID.String()+"/finalize", tt.body, "user-1", checkoutID.String())
			rec := httptest.NewRecorder()

			h.Finalize(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			orders.AssertNotCalled(t, "Finalize")
		})
	}
}

func TestFinalize_Handler_ErrorMapping(t *testing.T) {
	checkoutID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", model.ErrCheckoutNotFound, http.StatusNotFound, model.ErrCodeCheckoutNotFound},
		{"already finalized", model.ErrCheckoutAlreadyFinalized, http.StatusConflict, model.ErrCodeCheckoutAlreadyFinalized},
		{"expired", model.ErrCheckoutExpired, http.StatusBadRequest, model.ErrCodeCheckoutExpired},
		{"insufficient stock", model.ErrInsufficientStock, http.StatusBadRequest, model.ErrCodeInsufficientStock},
		{"coupon no longer valid", model.ErrCouponNoLongerValid, http.StatusBadRequest, model.ErrCodeCouponNoLongerValid},
		{"payment order mismatch", model.ErrPaymentOrderMismatch, http.StatusBadRequest, model.ErrCodePaymentOrderMismatch},
	}

	body := model.FinalizeRequest{
		Payment: model.PaymentConfirmation{
			PaymentID:       "pay_abc",
			ExternalOrderID: "order_ext_1",
			Provider:        "razorpay",
			Status:          "paid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := new(MockOrderService)
			orders.On("Finalize", mock.Anything, checkoutID, "user-1", mock.Anything).Return(nil, tt.err)
			h := NewCheckoutHandler(new(MockCheckoutService), orders, zerolog.Nop())

			req := newRequest(t, http.MethodPost, "/api/checkout/"+checkoutID.String()+"/finalize", body, "user-1", checkoutID.String())
			rec := httptest.NewRecorder()

			h.Finalize(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeErrorResponse(t, rec).Error)
		})
	}
}
