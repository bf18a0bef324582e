package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	checkoutHandler *handler.CheckoutHandler,
	orderHandler *handler.OrderHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("GET /api/products", productHandler.GetAll)
	mux.HandleFunc("GET /api/products/{id}", productHandler.GetByID)

	mux.HandleFunc("POST /api/checkout", checkoutHandler.CreateQuote)
	mux.HandleFunc("GET /api/checkout/{id}", checkoutHandler.GetQuote)
	mux.HandleFunc("POST /api/checkout/{id}/payment-order", checkoutHandler.AttachPaymentOrder)
	mux.HandleFunc("POST /api/checkout/{id}/finalize", checkoutHandler.Finalize)

	mux.HandleFunc("GET /api/orders", orderHandler.List)
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.GetByID)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth -> Identity
	var h http.Handler = mux
	h = middleware.Identity(logger)(h)
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
