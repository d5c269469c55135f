package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/convrt/rag-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecaseError_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{entity.ErrNotInitialized, http.StatusServiceUnavailable},
		{fmt.Errorf("resolve corpus: %w", entity.ErrNotInitialized), http.StatusServiceUnavailable},
		{entity.ErrSessionNotFound, http.StatusNotFound},
		{entity.ErrUnsupportedFormat, http.StatusBadRequest},
		{fmt.Errorf("%w: prompt", entity.ErrMissingField), http.StatusBadRequest},
		{fmt.Errorf("%w: id", entity.ErrInvalidParameter), http.StatusBadRequest},
		{entity.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{fmt.Errorf("%w: x", entity.ErrCorpusResolution), http.StatusInternalServerError},
		{fmt.Errorf("%w: bad row", entity.ErrFormat), http.StatusInternalServerError},
		{&entity.ReportParseError{Err: errors.New("eof")}, http.StatusInternalServerError},
		{errors.New("upstream"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			UsecaseError(context.Background(), rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body entity.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, http.StatusText(tt.status), body.Error)
			assert.NotEmpty(t, body.Message)
			assert.Equal(t, tt.err.Error(), body.Detail)
		})
	}
}

func TestError_WithoutCause(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(context.Background(), rec, http.StatusBadRequest, "invalid JSON body", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Bad Request","message":"invalid JSON body"}`, rec.Body.String())
}
