package chat

import (
	"context"

	"github.com/convrt/rag-backend/internal/entity"
)

type ChatUsecase interface {
	Query(ctx context.Context, req *entity.ChatQueryRequest) (string, error)
	SaveHistory(ctx context.Context, req *entity.SaveChatHistoryRequest) error
	LoadHistory(ctx context.Context, sessionID string) ([]entity.Message, error)
}
