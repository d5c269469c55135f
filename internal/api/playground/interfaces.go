package playground

import (
	"context"

	"github.com/convrt/rag-backend/internal/entity"
)

type PlaygroundUsecase interface {
	Query(ctx context.Context, req *entity.PlaygroundQueryRequest) (string, error)
	Save(ctx context.Context, session *entity.PlaygroundSession) error
	List(ctx context.Context) ([]entity.SessionSummary, error)
	Get(ctx context.Context, id string) (*entity.PlaygroundSession, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, id string, format entity.ResultFormat) (*entity.ExportFile, error)
}
