package playground

import (
	"context"
	"fmt"
	"time"

	"github.com/convrt/rag-backend/internal/entity"
	"github.com/convrt/rag-backend/internal/pkg/formatter"
	"github.com/convrt/rag-backend/internal/pkg/logger"
	"github.com/convrt/rag-backend/internal/pkg/metrics"
	"github.com/convrt/rag-backend/internal/pkg/prompt"
	"github.com/convrt/rag-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const metricsMode = "playground"

// PlaygroundUsecase runs the research-consultant conversation, which never
// touches a corpus, and manages its saved sessions.
type PlaygroundUsecase struct {
	sessionRepo      repository.PlaygroundRepository
	llmConnector     LLMConnector
	formatterFactory *formatter.Factory
	defaultModel     string
	metrics          *metrics.Metrics
	logger           *zap.Logger
}

func NewUsecase(
	sessionRepo repository.PlaygroundRepository,
	llmConnector LLMConnector,
	formatterFactory *formatter.Factory,
	defaultModel string,
	metrics *metrics.Metrics,
	logger *zap.Logger,
) *PlaygroundUsecase {
	return &PlaygroundUsecase{
		sessionRepo:      sessionRepo,
		llmConnector:     llmConnector,
		formatterFactory: formatterFactory,
		defaultModel:     defaultModel,
		metrics:          metrics,
		logger:           logger,
	}
}

func (uc *PlaygroundUsecase) Query(ctx context.Context, req *entity.PlaygroundQueryRequest) (string, error) {
	model := req.ModelID
	if model == "" {
		model = uc.defaultModel
	}

	ctx = logger.AddFields(ctx,
		zap.String("session_id", req.SessionID),
		zap.String("model", model),
	)
	ctxzap.Info(ctx, "playground query", zap.Int("history_length", len(req.History)))

	start := time.Now()
	answer, err := uc.llmConnector.Generate(ctx, &entity.GenerateRequest{
		Model:             model,
		SystemInstruction: prompt.PlaygroundInstruction(),
		History:           req.History,
		Prompt:            req.Prompt,
	})
	uc.metrics.ObserveModelCall(metricsMode, model, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("generate playground answer: %w", err)
	}

	return answer, nil
}

// Save stores the session as given, replacing any previous version.
func (uc *PlaygroundUsecase) Save(ctx context.Context, session *entity.PlaygroundSession) error {
	session.Normalize()
	if err := uc.sessionRepo.Save(ctx, session); err != nil {
		return fmt.Errorf("save playground session: %w", err)
	}

	ctxzap.Info(ctx, "playground session saved",
		zap.String("session_id", session.ID),
		zap.Int("message_count", len(session.Messages)),
	)
	return nil
}

func (uc *PlaygroundUsecase) List(ctx context.Context) ([]entity.SessionSummary, error) {
	summaries, err := uc.sessionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list playground sessions: %w", err)
	}
	return summaries, nil
}

func (uc *PlaygroundUsecase) Get(ctx context.Context, id string) (*entity.PlaygroundSession, error) {
	return uc.sessionRepo.Get(ctx, id)
}

func (uc *PlaygroundUsecase) Delete(ctx context.Context, id string) error {
	if err := uc.sessionRepo.Delete(ctx, id); err != nil {
		return err
	}
	ctxzap.Info(ctx, "playground session deleted", zap.String("session_id", id))
	return nil
}

// Export renders a saved session as a downloadable document.
func (uc *PlaygroundUsecase) Export(ctx context.Context, id string, format entity.ResultFormat) (*entity.ExportFile, error) {
	fm, err := uc.formatterFactory.Create(format)
	if err != nil {
		return nil, err
	}

	session, err := uc.sessionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := fm.Format(formatter.NewTranscript(session))
	if err != nil {
		return nil, fmt.Errorf("render %s transcript: %w", format, err)
	}

	return &entity.ExportFile{
		Filename:    session.ID + fm.FileExtension(),
		ContentType: fm.ContentType(),
		Data:        data,
	}, nil
}
