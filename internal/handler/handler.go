package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError maps an error to a stable machine-readable code and an
// HTTP-appropriate status. Internal store errors are never leaked.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	status := http.StatusInternalServerError
	code := model.ErrCodeInternalError
	message := "internal server error"

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		code = domainErr.Code
		message = domainErr.Message
		switch domainErr.Code {
		case model.ErrCodeCheckoutNotFound,
			model.ErrCodeOrderNotFound,
			model.ErrCodeProductNotFound:
			status = http.StatusNotFound
		case model.ErrCodeCheckoutAlreadyFinalized:
			status = http.StatusConflict
		default:
			status = http.StatusBadRequest
		}
	}

	logger.Error().
		Err(err).
		Str("code", code).
		Int("status", status).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeBadRequest writes a validation error response.
func writeBadRequest(w http.ResponseWriter, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("code", code).Str("message", message).Msg("bad request")
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: code, Message: message})
}
