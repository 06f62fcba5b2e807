package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"custodian/internal/catalog"
	"custodian/internal/lookup"
	"custodian/pkg/logging"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeReadOnly         = "READ_ONLY"
	ErrCodeUnavailable      = "CATALOG_UNAVAILABLE"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("HTTPAPI", "Failed to write response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, APIError{Code: code, Message: message})
}

// respondErr maps err to a status code and error body.
func respondErr(w http.ResponseWriter, err error) {
	var verr catalog.ValidationError
	switch {
	case catalog.IsUnavailable(err):
		logging.Warn("HTTPAPI", "Catalog unavailable: %v", err)
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, err.Error())
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error())
	case errors.Is(err, catalog.ErrServiceNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, lookup.ErrInvalidResourceID):
		respondError(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	default:
		logging.Error("HTTPAPI", err, "Request failed")
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
	}
}
