package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order read requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// List handles GET /api/orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.service.ListByUser(r.Context(), middleware.UserID(r.Context()), limit, offset)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid order ID format", h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), orderID, middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
