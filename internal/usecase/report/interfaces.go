package report

import (
	"context"

	"github.com/convrt/rag-backend/internal/entity"
)

type LLMConnector interface {
	Generate(ctx context.Context, req *entity.GenerateRequest) (string, error)
}
