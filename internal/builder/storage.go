package builder

import (
	"context"
	"fmt"

	"github.com/convrt/rag-backend/internal/config"
	"github.com/convrt/rag-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// storage holds the session repositories for the configured driver. db is
// nil for the file driver.
type storage struct {
	chatHistory repository.ChatHistoryRepository
	playground  repository.PlaygroundRepository
	db          *pgxpool.Pool
}

func setupStorage(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*storage, error) {
	if cfg.Driver == config.StorageDriverPostgres {
		return setupPostgresStorage(ctx, cfg, logger)
	}

	chatStore, err := repository.NewFileStore(cfg.ChatHistoryDir)
	if err != nil {
		return nil, fmt.Errorf("chat history store: %w", err)
	}
	playgroundStore, err := repository.NewFileStore(cfg.PlaygroundHistoryDir)
	if err != nil {
		return nil, fmt.Errorf("playground store: %w", err)
	}
	logger.Info("File storage initialized",
		zap.String("chat_history_dir", cfg.ChatHistoryDir),
		zap.String("playground_history_dir", cfg.PlaygroundHistoryDir),
	)

	return &storage{
		chatHistory: repository.NewChatHistoryStore(chatStore),
		playground:  repository.NewPlaygroundStore(playgroundStore),
	}, nil
}

func setupPostgresStorage(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*storage, error) {
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := connectDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Postgres storage initialized",
		zap.Int32("max_conns", db.Config().MaxConns),
		zap.Int32("min_conns", db.Config().MinConns),
	)

	return &storage{
		chatHistory: repository.NewChatHistoryStore(repository.NewPostgresStore(db, repository.CollectionChatHistory)),
		playground:  repository.NewPlaygroundStore(repository.NewPostgresStore(db, repository.CollectionPlayground)),
		db:          db,
	}, nil
}

func connectDatabase(ctx context.Context, cfg config.StorageConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MinConns = int32(cfg.DBMinConns)
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.DBHealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
