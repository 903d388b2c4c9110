package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boddenberg/crm-previdenciario-go/internal/domain"
	"github.com/boddenberg/crm-previdenciario-go/internal/port"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

// maxBodyBytes bounds request bodies; document images are the largest.
const maxBodyBytes = 15 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeBody decodes the JSON body into v, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// toast publishes a user-facing notification when a notifier is wired.
func toast(n port.Notifier, severity domain.Severity, msg string) {
	if n != nil {
		n.Add(msg, severity)
	}
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var validation *domain.ErrValidation
	var aiUnavailable *domain.ErrAIUnavailable
	var aiRequest *domain.ErrAIRequest
	var circuitOpen *domain.ErrCircuitOpen
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &aiUnavailable):
		logger.Warn("AI not configured")
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &aiRequest):
		if errors.As(err, &circuitOpen) {
			logger.Error("circuit breaker open", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		logger.Error("AI request failed",
			zap.String("operation", aiRequest.Operation),
			zap.Error(aiRequest.Err),
		)
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &external):
		logger.Error("external service error", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
