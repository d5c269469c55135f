package uploader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FileUploader is the part of Client used by batch and watch uploads.
type FileUploader interface {
	Upload(ctx context.Context, path, description, reportID string) (string, error)
}

// BatchResult lists file names by outcome, each in sorted order.
type BatchResult struct {
	Uploaded []string
	Failed   []string
}

// CollectFiles returns the non-hidden regular files directly inside dir.
// Subdirectories are not descended into.
func CollectFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || !e.Type().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Description is the dataset description attached to CLI uploads.
func Description(path string) string {
	return "Uploaded from " + filepath.Base(path)
}

// UploadAll uploads files with at most concurrency requests in flight. A
// failed file is recorded and does not stop the rest.
func UploadAll(ctx context.Context, up FileUploader, files []string, reportID string, concurrency int) *BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		mu     sync.Mutex
		result BatchResult
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, path := range files {
		g.Go(func() error {
			name := filepath.Base(path)
			msg, err := up.Upload(ctx, path, Description(path), reportID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				ctxzap.Error(ctx, "upload failed", zap.String("file", name), zap.Error(err))
				result.Failed = append(result.Failed, name)
				return nil
			}
			ctxzap.Info(ctx, msg, zap.String("file", name))
			result.Uploaded = append(result.Uploaded, name)
			return nil
		})
	}
	// Workers never fail the group; outcomes are in result.
	_ = g.Wait()

	sort.Strings(result.Uploaded)
	sort.Strings(result.Failed)
	return &result
}
