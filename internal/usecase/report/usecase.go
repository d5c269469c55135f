package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/convrt/rag-backend/internal/entity"
	"github.com/convrt/rag-backend/internal/pkg/logger"
	"github.com/convrt/rag-backend/internal/pkg/metrics"
	"github.com/convrt/rag-backend/internal/pkg/prompt"
	"github.com/convrt/rag-backend/internal/pkg/reportparser"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const metricsMode = "report"

// ReportUsecase asks the model for a structured research report.
type ReportUsecase struct {
	llmConnector LLMConnector
	defaultModel string
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewUsecase(
	llmConnector LLMConnector,
	defaultModel string,
	metrics *metrics.Metrics,
	logger *zap.Logger,
) *ReportUsecase {
	return &ReportUsecase{
		llmConnector: llmConnector,
		defaultModel: defaultModel,
		metrics:      metrics,
		logger:       logger,
	}
}

// Generate returns the model's report JSON exactly as parsed, without schema
// checks.
func (uc *ReportUsecase) Generate(ctx context.Context, req *entity.ReportGenerateRequest) (*entity.Report, error) {
	model := req.ModelID
	if model == "" {
		model = uc.defaultModel
	}
	ctx = logger.AddFields(ctx, zap.String("model", model))

	start := time.Now()
	raw, err := uc.llmConnector.Generate(ctx, &entity.GenerateRequest{
		Model:             model,
		SystemInstruction: prompt.ReportInstruction(),
		Prompt:            prompt.ReportPrompt(req.Question),
		ResponseMIMEType:  entity.ResponseMIMETypeJSON,
	})
	uc.metrics.ObserveModelCall(metricsMode, model, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	report, err := reportparser.Parse(raw)
	if err != nil {
		var parseErr *entity.ReportParseError
		if errors.As(err, &parseErr) {
			ctxzap.Error(ctx, "model returned malformed report JSON",
				zap.String("preview", parseErr.Preview),
				zap.Error(parseErr.Err),
			)
		}
		return nil, err
	}

	ctxzap.Info(ctx, "report generated", zap.Int("components", len(report.Components())))
	return report, nil
}
