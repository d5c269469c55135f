package chat

import (
	"net/http"

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
	usecase   ChatUsecase
	validator *validator.Validator
}

func NewHandler(usecase ChatUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// Query handles POST /chat/query
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ChatQuery")

	var req entity.ChatQueryRequest
	if err := request.DecodeJSON(w, r, h.validator, &req); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}
	ctx = logger.WithReport(ctx, req.ReportID)

	answer, err := h.usecase.Query(ctx, &req)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.QueryResponse{Response: answer})
}

// SaveHistory handles POST /chat/history/save
func (h *Handler) SaveHistory(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SaveChatHistory")

	var req entity.SaveChatHistoryRequest
	if err := request.DecodeJSON(w, r, h.validator, &req); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	if err := h.usecase.SaveHistory(ctx, &req); err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.MessageResponse{Message: "Chat history saved successfully"})
}

// GetHistory handles GET /chat/history/{session_id}
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	ctx := logger.WithSession(r.Context(), "GetChatHistory", sessionID)

	messages, err := h.usecase.LoadHistory(ctx, sessionID)
	if err != nil {
		response.UsecaseError(ctx, w, err)
		return
	}

	ctxzap.Debug(ctx, "chat history loaded", zap.Int("message_count", len(messages)))
	response.Success(w, entity.ChatHistoryResponse{Messages: messages})
}
