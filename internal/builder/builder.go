package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/convrt/rag-backend/internal/api"
	adminapi "github.com/convrt/rag-backend/internal/api/admin"
	chatapi "github.com/convrt/rag-backend/internal/api/chat"
	playgroundapi "github.com/convrt/rag-backend/internal/api/playground"
	reportapi "github.com/convrt/rag-backend/internal/api/report"
	"github.com/convrt/rag-backend/internal/config"
	"github.com/convrt/rag-backend/internal/corpus"
	"github.com/convrt/rag-backend/internal/integration/llm"
	"github.com/convrt/rag-backend/internal/integration/rag"
	"github.com/convrt/rag-backend/internal/pkg/formatter"
	"github.com/convrt/rag-backend/internal/pkg/metrics"
	"github.com/convrt/rag-backend/internal/pkg/validator"
	"github.com/convrt/rag-backend/internal/usecase/admin"
	"github.com/convrt/rag-backend/internal/usecase/chat"
	"github.com/convrt/rag-backend/internal/usecase/playground"
	"github.com/convrt/rag-backend/internal/usecase/report"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type ragConnector interface {
	corpus.RagConnector
	admin.RagConnector
}

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("project_id", cfg.VertexCfg.ProjectID),
		zap.String("location", cfg.VertexCfg.Location),
	)

	store, err := setupStorage(ctx, cfg.StorageCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	// Initialize external service connectors (with mock support)
	var ragConn ragConnector
	var llmConn llm.Generator

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		ragConn = rag.NewMockConnector(logger)
		llmConn = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using Vertex AI connectors")
		ts := setupTokenSource(ctx, cfg.VertexCfg.CredentialsScope, logger)
		ragConn = rag.NewConnector(cfg.VertexCfg, ts, logger)
		llmConn = llm.NewConnector(cfg.VertexCfg, ts, logger)
	}
	if cfg.LLMCfg.FallbackModel != "" {
		logger.Info("Model fallback enabled", zap.String("fallback_model", cfg.LLMCfg.FallbackModel))
		llmConn = llm.NewFallbackGenerator(llmConn, cfg.LLMCfg.FallbackModel)
	}

	corpora := corpus.NewRegistry(ragConn, cfg.VertexCfg.CorpusDisplayName, cfg.VertexCfg.Location)
	initCtx := ctxzap.ToContext(ctx, logger.With(zap.String("action", "init_corpus")))
	if err := corpora.Init(initCtx); err != nil {
		// The service still answers playground and report requests without a corpus.
		logger.Error("Failed to initialize default corpus", zap.Error(err))
	}

	m := metrics.New(cfg.MetricsNamespace)
	v := validator.New(cfg.FileUploadCfg)
	formatters := formatter.NewFactory(cfg.PDFFontPath)

	adminUC := admin.NewUsecase(corpora, ragConn, cfg.FileUploadCfg.WorkDir, m, logger)
	chatUC := chat.NewUsecase(store.chatHistory, corpora, llmConn, cfg.LLMCfg.DefaultModel, m, logger)
	playgroundUC := playground.NewUsecase(store.playground, llmConn, formatters, cfg.LLMCfg.DefaultModel, m, logger)
	reportUC := report.NewUsecase(llmConn, cfg.LLMCfg.DefaultModel, m, logger)
	logger.Info("Use cases initialized")

	handlers := api.Handlers{
		Admin:      adminapi.NewHandler(adminUC, cfg.FileUploadCfg, v),
		Chat:       chatapi.NewHandler(chatUC, v),
		Playground: playgroundapi.NewHandler(playgroundUC, v),
		Report:     reportapi.NewHandler(reportUC, v),
	}

	router := api.SetupRouter(handlers, api.RouterOptions{
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
		RequestTimeout:       cfg.RequestTimeout,
		ChatHistoryDir:       cfg.StorageCfg.ChatHistoryDir,
		PlaygroundHistoryDir: cfg.StorageCfg.PlaygroundHistoryDir,
		CorpusReady: func() bool {
			_, ok := corpora.Default()
			return ok
		},
		Metrics: m,
	}, logger)
	logger.Info("HTTP router configured")

	// Model calls can take minutes, so write timeout follows the request timeout.
	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     store.db,
		logger: logger,
	}, nil
}

// setupTokenSource returns application default credentials. Without them the
// connectors fall back to the static token and remote calls fail at request time.
func setupTokenSource(ctx context.Context, scope string, logger *zap.Logger) oauth2.TokenSource {
	ts, err := google.DefaultTokenSource(ctx, scope)
	if err != nil {
		logger.Warn("Google application default credentials not found", zap.Error(err))
		return nil
	}
	return ts
}
