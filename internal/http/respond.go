package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/amrtikande/shoop/internal/checkout"
	"github.com/amrtikande/shoop/internal/store"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleError maps workflow and store errors to HTTP statuses. Validation and
// stock errors are client-recoverable 4xx; storage failures are 5xx and keep
// the underlying cause out of the response body.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		validationErr *checkout.ValidationError
		notFoundErr   *checkout.NotFoundError
		stockErr      *store.InsufficientStockError
		storageErr    *checkout.StorageError
	)

	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, "validation_error", validationErr.Error())
	case errors.As(err, &stockErr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   stockErr.Error(),
			Code:    "insufficient_stock",
			Details: fmt.Sprintf("available: %d", stockErr.Available),
		})
	case errors.As(err, &notFoundErr):
		respondError(w, http.StatusNotFound, "not_found", notFoundErr.Error())
	case errors.Is(err, store.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not_found", "product not found")
	case errors.Is(err, store.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
	case errors.As(err, &storageErr):
		logger.Error("storage failure", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "storage_error", "storage operation failed")
	default:
		logger.Error("unexpected error", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
