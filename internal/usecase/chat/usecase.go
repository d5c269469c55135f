package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/convrt/rag-backend/internal/entity"
	"github.com/convrt/rag-backend/internal/pkg/logger"
	"github.com/convrt/rag-backend/internal/pkg/metrics"
	"github.com/convrt/rag-backend/internal/pkg/prompt"
	"github.com/convrt/rag-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const metricsMode = "chat"

// ChatUsecase answers questions grounded on a report's corpus and keeps
// chat transcripts.
type ChatUsecase struct {
	historyRepo  repository.ChatHistoryRepository
	corpora      CorpusResolver
	llmConnector LLMConnector
	defaultModel string
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewUsecase(
	historyRepo repository.ChatHistoryRepository,
	corpora CorpusResolver,
	llmConnector LLMConnector,
	defaultModel string,
	metrics *metrics.Metrics,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		historyRepo:  historyRepo,
		corpora:      corpora,
		llmConnector: llmConnector,
		defaultModel: defaultModel,
		metrics:      metrics,
		logger:       logger,
	}
}

// Query answers req.Prompt using slide content first, then the corpus, then
// general knowledge, replying in the language of the conversation.
func (uc *ChatUsecase) Query(ctx context.Context, req *entity.ChatQueryRequest) (string, error) {
	corpus, err := uc.corpora.Resolve(ctx, req.ReportID)
	if err != nil {
		return "", fmt.Errorf("resolve corpus: %w", err)
	}

	model := req.ModelID
	if model == "" {
		model = uc.defaultModel
	}
	lang := prompt.DetectLanguage(req.Prompt, req.History)

	ctx = logger.AddFields(ctx,
		zap.String("model", model),
		zap.String("corpus", corpus.DisplayName),
		zap.String("language", string(lang)),
	)
	ctxzap.Info(ctx, "grounded query",
		zap.Int("history_length", len(req.History)),
		zap.Bool("has_slide_context", req.SlideContext != ""),
	)

	start := time.Now()
	answer, err := uc.llmConnector.Generate(ctx, &entity.GenerateRequest{
		Model:             model,
		SystemInstruction: prompt.GroundedInstruction(lang),
		History:           req.History,
		Prompt:            prompt.GroundedPrompt(req.Prompt, req.SlideContext),
		Corpus:            corpus,
	})
	uc.metrics.ObserveModelCall(metricsMode, model, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("generate grounded answer: %w", err)
	}

	return answer, nil
}

// SaveHistory replaces the stored transcript of a chat session.
func (uc *ChatUsecase) SaveHistory(ctx context.Context, req *entity.SaveChatHistoryRequest) error {
	if err := uc.historyRepo.Save(ctx, entity.NewChatHistory(req.SessionID, req.Messages)); err != nil {
		return fmt.Errorf("save chat history: %w", err)
	}

	ctxzap.Info(ctx, "chat history saved",
		zap.String("session_id", req.SessionID),
		zap.Int("message_count", len(req.Messages)),
	)
	return nil
}

// LoadHistory returns a session's messages; unknown sessions have none.
func (uc *ChatUsecase) LoadHistory(ctx context.Context, sessionID string) ([]entity.Message, error) {
	messages, err := uc.historyRepo.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	return messages, nil
}
