package report

import (
	"context"

	"github.com/convrt/rag-backend/internal/entity"
)

type ReportUsecase interface {
	Generate(ctx context.Context, req *entity.ReportGenerateRequest) (*entity.Report, error)
}
