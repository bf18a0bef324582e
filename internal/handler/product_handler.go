package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// ProductHandler handles catalogue read requests.
type ProductHandler struct {
	products repository.ProductRepository
	logger   zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products repository.ProductRepository, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := h.products.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	if products == nil {
		products = []model.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "product ID is required", h.logger)
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	if product == nil {
		writeError(w, model.ErrProductNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}
