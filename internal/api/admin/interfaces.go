package admin

import (
	"context"

	"github.com/convrt/rag-backend/internal/entity"
)

type AdminUsecase interface {
	Ingest(ctx context.Context, req *entity.IngestRequest) (*entity.IngestResult, error)
	ListFiles(ctx context.Context, reportID string) ([]string, error)
}
