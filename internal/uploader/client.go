// Package uploader pushes local CSV datasets to a running backend through
// its admin API.
package uploader

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/convrt/rag-backend/internal/entity"
	pkghttp "github.com/convrt/rag-backend/pkg/http"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

type Client struct {
	connector *pkghttp.Connector
}

func NewClient(serverURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		connector: pkghttp.NewConnector(
			&pkghttp.ConnectorConfig{BaseURL: serverURL, Logger: logger},
			pkghttp.WithRequestTimeout(timeout),
			pkghttp.WithRequestLogging(),
		),
	}
}

// Upload sends the file at path to POST /admin/upload and returns the
// server's confirmation message.
func (c *Client) Upload(ctx context.Context, path, description, reportID string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var resp entity.MessageResponse
	err = c.connector.DoMultipartRequest(ctx, http.MethodPost, "/admin/upload",
		func(w *multipart.Writer) error {
			part, err := w.CreateFormFile("file", filepath.Base(path))
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, f); err != nil {
				return err
			}
			if description != "" {
				if err := w.WriteField("description", description); err != nil {
					return err
				}
			}
			if reportID != "" {
				return w.WriteField("report_id", reportID)
			}
			return nil
		},
		&resp,
		pkghttp.WithHeader(requestIDHeader, uuid.NewString()),
	)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}
	return resp.Message, nil
}

// ListFiles returns the display names of the files in a report's corpus.
func (c *Client) ListFiles(ctx context.Context, reportID string) ([]string, error) {
	opts := []pkghttp.RequestOpt{pkghttp.WithHeader(requestIDHeader, uuid.NewString())}
	if reportID != "" {
		opts = append(opts, pkghttp.WithQuery("report_id", reportID))
	}

	var resp entity.ListFilesResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, "/admin/files", nil, &resp, opts...); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return resp.Files, nil
}
