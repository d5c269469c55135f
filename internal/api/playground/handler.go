package playground

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/convrt/rag-backend/internal/api/request"
	"github.com/convrt/rag-backend/internal/entity"
	"github.com/convrt/rag-backend/internal/pkg/logger"
	"github.com/convrt/rag-backend/internal/pkg/response"
	"github.com/convrt/rag-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   PlaygroundUsecase
	validator *validator.Validator
}

func NewHandler(usecase PlaygroundUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// Query handles POST /playground/query
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "PlaygroundQuery")

	var req entity.PlaygroundQueryRequest
	if err := request.DecodeJSON(w, r, h.validator, &req); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	answer, err := h.usecase.Query(ctx, &req)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.QueryResponse{Response: answer})
}

// SaveSession handles POST /playground/sessions/save
func (h *Handler) SaveSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SavePlaygroundSession")

	var session entity.PlaygroundSession
	if err := request.DecodeJSON(w, r, h.validator, &session); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	if err := h.usecase.Save(ctx, &session); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.MessageResponse{Message: "Session saved successfully"})
}

// ListSessions handles GET /playground/sessions
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListPlaygroundSessions")

	sessions, err := h.usecase.List(ctx)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	ctxzap.Debug(ctx, "playground sessions listed", zap.Int("count", len(sessions)))
	response.Success(w, entity.ListSessionsResponse{Sessions: sessions})
}

// GetSession handles GET /playground/sessions/{session_id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	ctx := logger.WithSession(r.Context(), "GetPlaygroundSession", sessionID)

	session, err := h.usecase.Get(ctx, sessionID)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	response.Success(w, session)
}

// DeleteSession handles DELETE /playground/sessions/{session_id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	ctx := logger.WithSession(r.Context(), "DeletePlaygroundSession", sessionID)

	if err := h.usecase.Delete(ctx, sessionID); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.MessageResponse{Message: "Session deleted successfully"})
}

// ExportSession handles GET /playground/sessions/{session_id}/export
func (h *Handler) ExportSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	ctx := logger.WithSession(r.Context(), "ExportPlaygroundSession", sessionID)

	format := entity.FormatMarkdown
	if f := r.URL.Query().Get("format"); f != "" {
		format = entity.ResultFormat(f)
	}
	if !format.IsValid() {
		response.UsecaseError(ctx, w, fmt.Errorf("%w: format must be markdown, docx or pdf, got %q", entity.ErrInvalidParameter, format))
		return
	}

	file, err := h.usecase.Export(ctx, sessionID, format)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "playground session exported",
		zap.String("format", string(format)),
		zap.Int("bytes", len(file.Data)),
	)

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}
