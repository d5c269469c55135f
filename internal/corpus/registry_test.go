package corpus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/convrt/rag-backend/internal/entity"
	pkghttp "github.com/convrt/rag-backend/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnector struct {
	mu        sync.Mutex
	corpora   []entity.Corpus
	listErr   error
	createErr error
	lists     int
	creates   []string
}

func (f *fakeConnector) ListCorpora(context.Context) ([]entity.Corpus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]entity.Corpus(nil), f.corpora...), nil
}

func (f *fakeConnector) CreateCorpus(_ context.Context, displayName string) (*entity.Corpus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.creates = append(f.creates, displayName)
	c := entity.Corpus{Name: fmt.Sprintf("corpora/%d", len(f.corpora)+1), DisplayName: displayName}
	f.corpora = append(f.corpora, c)
	return &c, nil
}

func TestResolveOrCreate_ReusesExisting(t *testing.T) {
	fake := &fakeConnector{corpora: []entity.Corpus{
		{Name: "corpora/1", DisplayName: "multi-csv-corpus-old"},
		{Name: "corpora/2", DisplayName: "multi-csv-corpus"},
	}}
	reg := NewRegistry(fake, "multi-csv-corpus", "us-west1")

	corpus, err := reg.ResolveOrCreate(context.Background(), "multi-csv-corpus")
	require.NoError(t, err)
	assert.Equal(t, "corpora/2", corpus.Name)
	assert.Empty(t, fake.creates)
}

func TestResolveOrCreate_CreatesWhenMissing(t *testing.T) {
	fake := &fakeConnector{}
	reg := NewRegistry(fake, "base", "us-west1")

	corpus, err := reg.ResolveOrCreate(context.Background(), "base")
	require.NoError(t, err)
	assert.Equal(t, "base", corpus.DisplayName)
	assert.Equal(t, []string{"base"}, fake.creates)
}

func TestResolveOrCreate_CacheShortCircuits(t *testing.T) {
	fake := &fakeConnector{}
	reg := NewRegistry(fake, "base", "us-west1")

	first, err := reg.ResolveOrCreate(context.Background(), "base")
	require.NoError(t, err)
	second, err := reg.ResolveOrCreate(context.Background(), "base")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, fake.lists)
	assert.Len(t, fake.creates, 1)
}

func TestResolveOrCreate_ListNotFoundTreatedAsEmpty(t *testing.T) {
	fake := &fakeConnector{listErr: &pkghttp.HTTPError{StatusCode: http.StatusNotFound, Message: "no corpora"}}
	reg := NewRegistry(fake, "base", "us-west1")

	corpus, err := reg.ResolveOrCreate(context.Background(), "base")
	require.NoError(t, err)
	assert.Equal(t, "base", corpus.DisplayName)
}

func TestResolveOrCreate_ListFailure(t *testing.T) {
	fake := &fakeConnector{listErr: &pkghttp.HTTPError{StatusCode: http.StatusForbidden, Message: "permission denied"}}
	reg := NewRegistry(fake, "base", "us-west1")

	_, err := reg.ResolveOrCreate(context.Background(), "base")
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrCorpusResolution)
	assert.NotErrorIs(t, err, entity.ErrRegionRestricted)
	assert.Empty(t, fake.creates)
}

func TestResolveOrCreate_RegionRestricted(t *testing.T) {
	for _, msg := range []string{
		"location us-west1 is restricted for this project",
		"RAG Engine is unavailable due to capacity limitation",
	} {
		fake := &fakeConnector{listErr: &pkghttp.HTTPError{StatusCode: http.StatusBadRequest, Message: msg}}
		reg := NewRegistry(fake, "base", "us-west1")

		_, err := reg.ResolveOrCreate(context.Background(), "base")
		require.Error(t, err)
		assert.ErrorIs(t, err, entity.ErrCorpusResolution)
		assert.ErrorIs(t, err, entity.ErrRegionRestricted)
		assert.Contains(t, err.Error(), "us-west1")
	}
}

func TestResolveOrCreate_CreateFailure(t *testing.T) {
	fake := &fakeConnector{createErr: errors.New("quota exceeded")}
	reg := NewRegistry(fake, "base", "us-west1")

	_, err := reg.ResolveOrCreate(context.Background(), "base")
	assert.ErrorIs(t, err, entity.ErrCorpusResolution)

	fake.createErr = nil
	corpus, err := reg.ResolveOrCreate(context.Background(), "base")
	require.NoError(t, err)
	assert.Equal(t, "base", corpus.DisplayName)
}

func TestResolve_DefaultRequiresInit(t *testing.T) {
	fake := &fakeConnector{}
	reg := NewRegistry(fake, "base", "us-west1")

	for _, id := range []string{"", DefaultReportID} {
		_, err := reg.Resolve(context.Background(), id)
		assert.ErrorIs(t, err, entity.ErrNotInitialized)
	}
	_, ok := reg.Default()
	assert.False(t, ok)

	require.NoError(t, reg.Init(context.Background()))

	for _, id := range []string{"", DefaultReportID} {
		corpus, err := reg.Resolve(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "base", corpus.DisplayName)
	}
}

func TestResolve_NamespacedIndependentOfDefault(t *testing.T) {
	fake := &fakeConnector{}
	reg := NewRegistry(fake, "base", "us-west1")

	corpus, err := reg.Resolve(context.Background(), "r42")
	require.NoError(t, err)
	assert.Equal(t, "base-r42", corpus.DisplayName)

	_, ok := reg.Default()
	assert.False(t, ok, "namespaced resolution must not initialize the default corpus")

	again, err := reg.Resolve(context.Background(), "r42")
	require.NoError(t, err)
	assert.Same(t, corpus, again)
	assert.Equal(t, []string{"base-r42"}, fake.creates)
}
