package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/avast/retry-go/v4"
	"github.com/convrt/rag-backend/internal/config"
	"github.com/convrt/rag-backend/internal/entity"
	"github.com/convrt/rag-backend/internal/integration/common"
	pkgRetry "github.com/convrt/rag-backend/internal/pkg/retry"
	pkghttp "github.com/convrt/rag-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const listPageSize = "100"

var errOperationPending = errors.New("operation still running")

// Connector talks to the Vertex AI RAG Engine REST API.
type Connector struct {
	config    config.VertexConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.VertexConfig,
	ts oauth2.TokenSource,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTP, cfg.BaseURL(), ts, logger),
		config:    cfg,
		logger:    logger,
	}
}

func (c *Connector) parent() string {
	return fmt.Sprintf("projects/%s/locations/%s", c.config.ProjectID, c.config.Location)
}

// ListCorpora returns every corpus in the configured project and region.
// GET /v1/{parent}/ragCorpora, following nextPageToken
func (c *Connector) ListCorpora(ctx context.Context) ([]entity.Corpus, error) {
	endpoint := fmt.Sprintf("/v1/%s/ragCorpora", c.parent())

	var corpora []entity.Corpus
	pageToken := ""
	for {
		opts := []pkghttp.RequestOpt{pkghttp.WithQuery("pageSize", listPageSize)}
		if pageToken != "" {
			opts = append(opts, pkghttp.WithQuery("pageToken", pageToken))
		}

		var resp listCorporaResponse
		if err := c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, &resp, opts...); err != nil {
			return nil, err
		}

		corpora = append(corpora, resp.RagCorpora...)
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	ctxzap.Debug(ctx, "listed rag corpora", zap.Int("count", len(corpora)))
	return corpora, nil
}

// CreateCorpus creates a corpus and waits for the long-running operation to finish.
// POST /v1/{parent}/ragCorpora
func (c *Connector) CreateCorpus(ctx context.Context, displayName string) (*entity.Corpus, error) {
	endpoint := fmt.Sprintf("/v1/%s/ragCorpora", c.parent())

	ctxzap.Info(ctx, "creating rag corpus", zap.String("display_name", displayName))

	var op operation
	if err := c.connector.DoRequest(ctx, http.MethodPost, endpoint, createCorpusRequest{DisplayName: displayName}, &op); err != nil {
		return nil, fmt.Errorf("create corpus: %w", err)
	}

	if !op.Done {
		done, err := c.waitOperation(ctx, op.Name)
		if err != nil {
			return nil, fmt.Errorf("wait for corpus creation: %w", err)
		}
		op = *done
	}

	if op.Error != nil {
		return nil, fmt.Errorf("create corpus: %s", op.Error.Message)
	}

	var corpus entity.Corpus
	if err := json.Unmarshal(op.Response, &corpus); err != nil {
		return nil, fmt.Errorf("decode created corpus: %w", err)
	}
	if corpus.Name == "" {
		return nil, fmt.Errorf("create corpus: operation %s returned no corpus", op.Name)
	}

	ctxzap.Info(ctx, "rag corpus created", zap.String("corpus", corpus.Name))
	return &corpus, nil
}

// waitOperation polls GET /v1/{name} until the operation reports done.
func (c *Connector) waitOperation(ctx context.Context, name string) (*operation, error) {
	pollCfg := c.config.OperationPoll
	if pollCfg.Attempts == 0 {
		pollCfg = *pkgRetry.DefaultRetryConfig()
	}
	ctx, cancel := pollCfg.WithTimeout(ctx)
	defer cancel()

	var result operation
	err := retry.Do(
		func() error {
			var op operation
			if err := c.connector.DoRequest(ctx, http.MethodGet, "/v1/"+name, nil, &op); err != nil {
				return retry.Unrecoverable(err)
			}
			if !op.Done {
				return errOperationPending
			}
			result = op
			return nil
		},
		append(pollCfg.ToRetryOptions(ctx),
			retry.RetryIf(func(err error) bool { return errors.Is(err, errOperationPending) }),
			retry.OnRetry(func(n uint, err error) {
				ctxzap.Debug(ctx, "operation pending", zap.String("operation", name), zap.Uint("attempt", n+1))
			}),
		)...,
	)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// UploadFile uploads the file at path into the corpus.
// POST /upload/v1/{corpus}/ragFiles:upload with multipart/form-data
func (c *Connector) UploadFile(ctx context.Context, corpusName, path, displayName, description string) (*entity.CorpusFile, error) {
	endpoint := fmt.Sprintf("/upload/v1/%s/ragFiles:upload", corpusName)

	ctxzap.Info(ctx, "uploading file to rag corpus",
		zap.String("corpus", corpusName),
		zap.String("display_name", displayName),
	)

	metadata, err := json.Marshal(uploadMetadata{RagFile: uploadFileInfo{
		DisplayName: displayName,
		Description: description,
	}})
	if err != nil {
		return nil, fmt.Errorf("marshal upload metadata: %w", err)
	}

	prepareBody := func(writer *multipart.Writer) error {
		if err := writer.WriteField("metadata", string(metadata)); err != nil {
			return fmt.Errorf("write metadata: %w", err)
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open upload file: %w", err)
		}
		defer f.Close()

		part, err := writer.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}

		if _, err := io.Copy(part, f); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}
		return nil
	}

	var resp uploadFileResponse
	err = c.connector.DoMultipartRequest(ctx, http.MethodPost, endpoint, prepareBody, &resp,
		pkghttp.WithHeader("X-Goog-Upload-Protocol", "multipart"))
	if err != nil {
		ctxzap.Error(ctx, "failed to upload file", zap.Error(err))
		return nil, err
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("upload file: %s", resp.Error.Message)
	}

	ctxzap.Info(ctx, "file uploaded successfully", zap.String("rag_file", resp.RagFile.Name))
	return &resp.RagFile, nil
}

// ListFiles returns every file in the corpus.
// GET /v1/{corpus}/ragFiles, following nextPageToken
func (c *Connector) ListFiles(ctx context.Context, corpusName string) ([]entity.CorpusFile, error) {
	endpoint := fmt.Sprintf("/v1/%s/ragFiles", corpusName)

	files := []entity.CorpusFile{}
	pageToken := ""
	for {
		opts := []pkghttp.RequestOpt{pkghttp.WithQuery("pageSize", listPageSize)}
		if pageToken != "" {
			opts = append(opts, pkghttp.WithQuery("pageToken", pageToken))
		}

		var resp listFilesResponse
		if err := c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, &resp, opts...); err != nil {
			return nil, fmt.Errorf("list files: %w", err)
		}

		files = append(files, resp.RagFiles...)
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	ctxzap.Debug(ctx, "listed rag files", zap.Int("count", len(files)))
	return files, nil
}
