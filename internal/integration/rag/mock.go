package rag

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/convrt/rag-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector keeps corpora and files in memory for local runs without Vertex AI.
type MockConnector struct {
	logger *zap.Logger

	mu      sync.Mutex
	corpora []entity.Corpus
	files   map[string][]entity.CorpusFile
	nextID  int
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
		files:  make(map[string][]entity.CorpusFile),
	}
}

func (m *MockConnector) ListCorpora(ctx context.Context) ([]entity.Corpus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctxzap.Info(ctx, "[MOCK] listing rag corpora", zap.Int("count", len(m.corpora)))
	return append([]entity.Corpus(nil), m.corpora...), nil
}

func (m *MockConnector) CreateCorpus(ctx context.Context, displayName string) (*entity.Corpus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	corpus := entity.Corpus{
		Name:        fmt.Sprintf("projects/mock/locations/mock/ragCorpora/%d", m.nextID),
		DisplayName: displayName,
	}
	m.corpora = append(m.corpora, corpus)

	ctxzap.Info(ctx, "[MOCK] rag corpus created", zap.String("corpus", corpus.Name))
	return &corpus, nil
}

func (m *MockConnector) UploadFile(ctx context.Context, corpusName, path, displayName, description string) (*entity.CorpusFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat upload file: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	file := entity.CorpusFile{
		Name:        fmt.Sprintf("%s/ragFiles/%d", corpusName, m.nextID),
		DisplayName: displayName,
		Description: description,
	}
	m.files[corpusName] = append(m.files[corpusName], file)

	ctxzap.Info(ctx, "[MOCK] file uploaded to rag corpus",
		zap.String("corpus", corpusName),
		zap.String("display_name", displayName),
		zap.Int64("size", info.Size()),
	)
	return &file, nil
}

func (m *MockConnector) ListFiles(ctx context.Context, corpusName string) ([]entity.CorpusFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctxzap.Info(ctx, "[MOCK] listing rag files", zap.String("corpus", corpusName))
	return append([]entity.CorpusFile{}, m.files[corpusName]...), nil
}
