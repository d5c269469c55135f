package uploader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/convrt/rag-backend/internal/pkg/validator"
	"github.com/fsnotify/fsnotify"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Watch calls onReady for every CSV file in dir that is created or written,
// once no further events for it arrived within debounce. It blocks until ctx
// is cancelled. onReady is never called concurrently.
func Watch(ctx context.Context, dir string, debounce time.Duration, onReady func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var (
		mu     sync.Mutex
		timers = make(map[string]*time.Timer)
		ready  = make(chan string, 64)
	)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case path := <-ready:
			onReady(path)

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !watched(event.Name) {
				continue
			}

			mu.Lock()
			if t, ok := timers[event.Name]; ok {
				t.Reset(debounce)
			} else {
				name := event.Name
				timers[name] = time.AfterFunc(debounce, func() {
					mu.Lock()
					delete(timers, name)
					mu.Unlock()
					select {
					case ready <- name:
					case <-ctx.Done():
					}
				})
			}
			mu.Unlock()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			ctxzap.Warn(ctx, "file watcher error", zap.Error(err))
		}
	}
}

func watched(path string) bool {
	name := filepath.Base(path)
	return !strings.HasPrefix(name, ".") && validator.IsAllowedFile(name)
}
