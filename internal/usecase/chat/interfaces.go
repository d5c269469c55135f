package chat

import (
	"context"

	"github.com/convrt/rag-backend/internal/entity"
)

type CorpusResolver interface {
	Resolve(ctx context.Context, reportID string) (*entity.Corpus, error)
}

type LLMConnector interface {
	Generate(ctx context.Context, req *entity.GenerateRequest) (string, error)
}
