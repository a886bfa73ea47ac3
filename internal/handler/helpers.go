// Package handler exposes the HTTP JSON API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Desktoo/WorkEzy-demo/internal/service"
	"github.com/Desktoo/WorkEzy-demo/pkg/logger"
)

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeValidationErrorWithErrors(w http.ResponseWriter, message string, errors map[string][]string) {
	response := map[string]interface{}{
		"message": message,
		"errors":  errors,
	}
	writeJSON(w, http.StatusUnprocessableEntity, response)
}

func decodeJSONBody(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return io.EOF
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeServiceError maps service sentinel errors onto HTTP statuses. Unknown
// errors are logged and surfaced as a 500 without detail.
func writeServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrEmployerNotFound),
		errors.Is(err, service.ErrCandidateNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrJobNotFound),
		errors.Is(err, service.ErrApplicationNotFound),
		errors.Is(err, service.ErrAnswerNotFound),
		errors.Is(err, service.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicatePayment),
		errors.Is(err, service.ErrPaymentConsumed),
		errors.Is(err, service.ErrInsufficientCredits),
		errors.Is(err, service.ErrAttemptLimitReached),
		errors.Is(err, service.ErrAlreadyApplied),
		errors.Is(err, service.ErrJobClosed),
		errors.Is(err, service.ErrEmployerExists),
		errors.Is(err, service.ErrCandidateExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNoActivePlan):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, service.ErrInvalidSignature):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrScreeningIncomplete),
		errors.Is(err, service.ErrInvalidDestination),
		errors.Is(err, service.ErrInvalidOTPCode),
		errors.Is(err, service.ErrOTPExpired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrOTPResendThrottled):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		log.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
