package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"goflare.io/atelier/catalog"
	"goflare.io/atelier/checkout"
	"goflare.io/atelier/emailtemplate"
	"goflare.io/atelier/order"
	"goflare.io/atelier/testimonial"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

const maxBodyBytes = 1 << 20

// handleServiceError maps domain errors onto HTTP statuses. Anything
// unrecognised is logged and reported as a generic 500.
func (h *handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *checkout.ValidationError

	switch {
	case errors.As(err, &validation):
		respondError(w, http.StatusUnprocessableEntity, "invalid_input", validation.Error())
	case errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, testimonial.ErrInvalid),
		errors.Is(err, emailtemplate.ErrInvalid):
		respondError(w, http.StatusUnprocessableEntity, "invalid_input", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, testimonial.ErrNotFound),
		errors.Is(err, emailtemplate.ErrNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, checkout.ErrSubmissionFailed):
		h.logger.Error("Checkout failed", zap.String("path", r.URL.Path), zap.Error(err))
		respondError(w, http.StatusBadGateway, "submission_failed", "could not place the order, please try again")
	default:
		h.logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
