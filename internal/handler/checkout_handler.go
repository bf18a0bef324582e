package handler

import (
	"encoding/json"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CheckoutHandler handles quote-phase and finalize HTTP requests.
type CheckoutHandler struct {
	checkouts service.CheckoutService
	orders    service.OrderService
	logger    zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkouts service.CheckoutService, orders service.OrderService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkouts: checkouts,
		orders:    orders,
		logger:    logger.With().Str("handler", "checkout").Logger(),
	}
}

// paymentOrderRequest represents the payload for attaching a payment gateway
// order reference.
type paymentOrderRequest struct {
	Provider       string `json:"provider"`
	PaymentOrderID string `json:"paymentOrderId"`
}

// CreateQuote handles POST /api/checkout requests.
func (h *CheckoutHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req model.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	session, err := h.checkouts.CreateQuote(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// GetQuote handles GET /api/checkout/{id} requests.
func (h *CheckoutHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	checkoutID, ok := h.checkoutID(w, r)
	if !ok {
		return
	}

	session, err := h.checkouts.GetQuote(r.Context(), checkoutID, middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// AttachPaymentOrder handles POST /api/checkout/{id}/payment-order requests.
func (h *CheckoutHandler) AttachPaymentOrder(w http.ResponseWriter, r *http.Request) {
	checkoutID, ok := h.checkoutID(w, r)
	if !ok {
		return
	}

	var req paymentOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Provider == "" || req.PaymentOrderID == "" {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "provider and paymentOrderId are required", h.logger)
		return
	}

	session, err := h.checkouts.AttachPaymentOrder(
		r.Context(), checkoutID, middleware.UserID(r.Context()), req.Provider, req.PaymentOrderID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Finalize handles POST /api/checkout/{id}/finalize requests. The payment
// confirmation carried by the payload is trusted here: the payment
// collaborator verifies gateway signatures before this endpoint is invoked.
func (h *CheckoutHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	checkoutID, ok := h.checkoutID(w, r)
	if !ok {
		return
	}

	var req model.FinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Payment.PaymentID == "" || req.Payment.ExternalOrderID == "" || req.Payment.Provider == "" {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "paymentId, externalOrderId and provider are required", h.logger)
		return
	}
	if req.Payment.Status != "paid" && req.Payment.Status != "pending" {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "payment status must be paid or pending", h.logger)
		return
	}

	order, err := h.orders.Finalize(r.Context(), checkoutID, middleware.UserID(r.Context()), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// checkoutID parses the checkout identifier from the request path.
func (h *CheckoutHandler) checkoutID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid checkout ID format", h.logger)
		return uuid.Nil, false
	}
	return id, true
}
