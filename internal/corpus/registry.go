// Package corpus resolves logical corpus names to remote corpus handles and
// keeps them for the life of the process.
package corpus

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/convrt/rag-backend/internal/entity"
	pkghttp "github.com/convrt/rag-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// DefaultReportID selects the default corpus, as does an empty report id.
const DefaultReportID = "default"

type RagConnector interface {
	ListCorpora(ctx context.Context) ([]entity.Corpus, error)
	CreateCorpus(ctx context.Context, displayName string) (*entity.Corpus, error)
}

// Registry maps logical names to corpus handles. Concurrent first use of the
// same name may create the remote corpus twice; that is tolerated.
type Registry struct {
	connector     RagConnector
	handles       *cache.Cache
	baseName      string
	location      string
	defaultCorpus atomic.Pointer[entity.Corpus]
}

func NewRegistry(connector RagConnector, baseName, location string) *Registry {
	return &Registry{
		connector: connector,
		handles:   cache.New(cache.NoExpiration, 0),
		baseName:  baseName,
		location:  location,
	}
}

// Init resolves the default corpus. Until it succeeds, default lookups fail
// with entity.ErrNotInitialized.
func (r *Registry) Init(ctx context.Context) error {
	corpus, err := r.ResolveOrCreate(ctx, r.baseName)
	if err != nil {
		return err
	}
	r.defaultCorpus.Store(corpus)
	return nil
}

// Default returns the default corpus if Init has succeeded.
func (r *Registry) Default() (*entity.Corpus, bool) {
	corpus := r.defaultCorpus.Load()
	return corpus, corpus != nil
}

// Resolve returns the corpus for a report: the default one for "" or
// "default", otherwise "{base}-{reportID}", created on first use.
func (r *Registry) Resolve(ctx context.Context, reportID string) (*entity.Corpus, error) {
	if reportID == "" || reportID == DefaultReportID {
		corpus, ok := r.Default()
		if !ok {
			return nil, entity.ErrNotInitialized
		}
		return corpus, nil
	}

	return r.ResolveOrCreate(ctx, NamespacedName(r.baseName, reportID))
}

// NamespacedName is the display name of the corpus dedicated to reportID.
func NamespacedName(baseName, reportID string) string {
	return baseName + "-" + reportID
}

// ResolveOrCreate returns the cached handle for name, or finds the remote
// corpus with exactly that display name, or creates it.
func (r *Registry) ResolveOrCreate(ctx context.Context, name string) (*entity.Corpus, error) {
	if cached, ok := r.handles.Get(name); ok {
		return cached.(*entity.Corpus), nil
	}

	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(zap.String("corpus_display_name", name)))
	ctxzap.Info(ctx, "resolving rag corpus")

	corpora, err := r.connector.ListCorpora(ctx)
	if err != nil && pkghttp.StatusCode(err) != http.StatusNotFound {
		return nil, r.resolutionError(ctx, name, err)
	}

	for i := range corpora {
		if corpora[i].DisplayName == name {
			corpus := corpora[i]
			ctxzap.Info(ctx, "found existing corpus", zap.String("corpus", corpus.Name))
			r.handles.Set(name, &corpus, cache.NoExpiration)
			return &corpus, nil
		}
	}

	ctxzap.Info(ctx, "corpus not found, creating new one")
	corpus, err := r.connector.CreateCorpus(ctx, name)
	if err != nil {
		return nil, r.resolutionError(ctx, name, err)
	}

	ctxzap.Info(ctx, "created new corpus", zap.String("corpus", corpus.Name))
	r.handles.Set(name, corpus, cache.NoExpiration)
	return corpus, nil
}

func (r *Registry) resolutionError(ctx context.Context, name string, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "restricted") || strings.Contains(msg, "capacity limitation") {
		ctxzap.Error(ctx, "!!! CRITICAL ERROR: region is restricted !!!",
			zap.String("location", r.location),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w: region %q: %w", entity.ErrCorpusResolution, entity.ErrRegionRestricted, r.location, err)
	}

	ctxzap.Error(ctx, "error resolving corpus", zap.Error(err))
	return fmt.Errorf("%w: %s: %w", entity.ErrCorpusResolution, name, err)
}
