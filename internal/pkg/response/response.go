package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/convrt/rag-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		// Headers are already sent; nothing useful left to do on failure
		_ = enc.Encode(data)
	}
}

// Success writes a 200 OK response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Error logs err and writes the error envelope. The detail carries the
// error text when err is not nil.
func Error(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	body := entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}

	if err != nil {
		body.Detail = err.Error()
		if status >= http.StatusInternalServerError {
			ctxzap.Error(ctx, message, zap.Error(err))
		} else {
			ctxzap.Warn(ctx, message, zap.Error(err))
		}
	} else {
		ctxzap.Warn(ctx, message)
	}

	JSON(w, status, body)
}

// UsecaseError maps domain errors to HTTP statuses.
func UsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrNotInitialized):
		Error(ctx, w, http.StatusServiceUnavailable, "RAG client not initialized", err)
	case errors.Is(err, entity.ErrSessionNotFound):
		Error(ctx, w, http.StatusNotFound, "Session not found", err)
	case errors.Is(err, entity.ErrUnsupportedFormat):
		Error(ctx, w, http.StatusBadRequest, "Only CSV files are supported", err)
	case errors.Is(err, entity.ErrFileTooLarge):
		Error(ctx, w, http.StatusRequestEntityTooLarge, "file too large", err)
	case errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrMissingField):
		Error(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrMalformedReportJSON):
		Error(ctx, w, http.StatusInternalServerError, "Failed to parse report from model", err)
	case errors.Is(err, entity.ErrRegionRestricted):
		Error(ctx, w, http.StatusInternalServerError, "Vertex AI RAG is restricted in the configured region", err)
	default:
		Error(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
