package admin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/convrt/rag-backend/internal/entity"
	"github.com/convrt/rag-backend/internal/pkg/logger"
	"github.com/convrt/rag-backend/internal/pkg/metrics"
	"github.com/convrt/rag-backend/internal/pkg/records"
	"github.com/convrt/rag-backend/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const processedSuffix = "_processed.txt"

// AdminUsecase turns uploaded CSV datasets into corpus files.
type AdminUsecase struct {
	corpora      CorpusResolver
	ragConnector RagConnector
	workDir      string
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewUsecase(
	corpora CorpusResolver,
	ragConnector RagConnector,
	workDir string,
	metrics *metrics.Metrics,
	logger *zap.Logger,
) *AdminUsecase {
	return &AdminUsecase{
		corpora:      corpora,
		ragConnector: ragConnector,
		workDir:      workDir,
		metrics:      metrics,
		logger:       logger,
	}
}

// Ingest formats a CSV dataset into text records and uploads them to the
// corpus of req.ReportID. The working directory is removed on every path.
func (uc *AdminUsecase) Ingest(ctx context.Context, req *entity.IngestRequest) (*entity.IngestResult, error) {
	ctx = logger.AddFields(ctx,
		zap.String("filename", req.Filename),
		zap.String("report_id", req.ReportID),
	)

	if !validator.IsAllowedFile(req.Filename) {
		return nil, entity.ErrUnsupportedFormat
	}

	result, err := uc.ingest(ctx, req)
	recordCount := 0
	if result != nil {
		recordCount = result.Records
	}
	uc.metrics.ObserveIngest(recordCount, err)

	return result, err
}

func (uc *AdminUsecase) ingest(ctx context.Context, req *entity.IngestRequest) (*entity.IngestResult, error) {
	corpus, err := uc.corpora.Resolve(ctx, req.ReportID)
	if err != nil {
		return nil, fmt.Errorf("resolve corpus: %w", err)
	}

	dir, err := os.MkdirTemp(uc.workDir, "ingest-*")
	if err != nil {
		return nil, fmt.Errorf("create ingest dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			ctxzap.Warn(ctx, "failed to remove ingest dir", zap.String("dir", dir), zap.Error(err))
		}
	}()

	processedPath := filepath.Join(dir, processedName(req.Filename))
	recordCount, err := records.WriteFile(req.Content, req.Filename, req.Description, processedPath)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "dataset formatted", zap.Int("records", recordCount))

	description := req.Description
	if description == "" {
		description = entity.DefaultDatasetDescription
	}

	file, err := uc.ragConnector.UploadFile(ctx, corpus.Name, processedPath, req.Filename, description)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", req.Filename, err)
	}

	ctxzap.Info(ctx, "dataset uploaded to corpus",
		zap.String("corpus", corpus.DisplayName),
		zap.String("rag_file", file.Name),
	)

	return &entity.IngestResult{
		File:    file,
		Corpus:  corpus,
		Records: recordCount,
	}, nil
}

// IngestFile ingests a CSV file from the local filesystem.
func (uc *AdminUsecase) IngestFile(ctx context.Context, path, description, reportID string) (*entity.IngestResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return uc.Ingest(ctx, &entity.IngestRequest{
		Filename:    filepath.Base(path),
		Content:     f,
		Description: description,
		ReportID:    reportID,
	})
}

// ListFiles returns the display names of the files in a report's corpus.
func (uc *AdminUsecase) ListFiles(ctx context.Context, reportID string) ([]string, error) {
	corpus, err := uc.corpora.Resolve(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("resolve corpus: %w", err)
	}

	files, err := uc.ragConnector.ListFiles(ctx, corpus.Name)
	if err != nil {
		return nil, fmt.Errorf("list corpus files: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.DisplayName)
	}
	return names, nil
}

// processedName maps "sales.csv" to "sales_processed.txt".
func processedName(filename string) string {
	base := validator.SanitizeFilename(filename)
	return strings.TrimSuffix(base, filepath.Ext(base)) + processedSuffix
}
