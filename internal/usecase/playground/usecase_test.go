package playground

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/convrt/rag-backend/internal/entity"
	"github.com/convrt/rag-backend/internal/pkg/formatter"
	"github.com/convrt/rag-backend/internal/pkg/metrics"
	"github.com/convrt/rag-backend/internal/pkg/prompt"
	"github.com/convrt/rag-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLLM struct {
	req *entity.GenerateRequest
	err error
}

func (f *fakeLLM) Generate(_ context.Context, req *entity.GenerateRequest) (string, error) {
	f.req = req
	return "consultant answer", f.err
}

func newTestUsecase(t *testing.T, llm *fakeLLM) *PlaygroundUsecase {
	t.Helper()
	store, err := repository.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewUsecase(
		repository.NewPlaygroundStore(store),
		llm,
		formatter.NewFactory(""),
		"gemini-2.5-pro",
		metrics.New("test"),
		zap.NewNop(),
	)
}

func TestQuery_NoRetrieval(t *testing.T) {
	llm := &fakeLLM{}
	uc := newTestUsecase(t, llm)

	history := []entity.Message{{Role: entity.RoleUser, Content: "hi"}}
	answer, err := uc.Query(context.Background(), &entity.PlaygroundQueryRequest{
		Prompt:    "Design a brand survey",
		SessionID: "s1",
		History:   history,
	})
	require.NoError(t, err)
	assert.Equal(t, "consultant answer", answer)

	assert.Nil(t, llm.req.Corpus)
	assert.Equal(t, "gemini-2.5-pro", llm.req.Model)
	assert.Equal(t, prompt.PlaygroundInstruction(), llm.req.SystemInstruction)
	assert.Equal(t, "Design a brand survey", llm.req.Prompt)
	assert.Equal(t, history, llm.req.History)
}

func TestQuery_Error(t *testing.T) {
	boom := errors.New("boom")
	uc := newTestUsecase(t, &fakeLLM{err: boom})

	_, err := uc.Query(context.Background(), &entity.PlaygroundQueryRequest{Prompt: "p", SessionID: "s", ModelID: "m"})
	assert.ErrorIs(t, err, boom)
}

func TestSessions_Lifecycle(t *testing.T) {
	ctx := context.Background()
	uc := newTestUsecase(t, &fakeLLM{})

	require.NoError(t, uc.Save(ctx, &entity.PlaygroundSession{
		ID: "s1", Title: "First", CreatedAt: "2024-01-01T00:00:00", UpdatedAt: "2024-01-01T00:00:00",
	}))
	require.NoError(t, uc.Save(ctx, &entity.PlaygroundSession{
		ID: "s2", Title: "Second", CreatedAt: "2024-01-02T00:00:00", UpdatedAt: "2024-01-05T00:00:00",
		Messages: []entity.Message{{Role: entity.RoleUser, Content: "q"}},
	}))

	got, err := uc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "en", got.Language)
	assert.NotNil(t, got.Messages)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].ID)
	assert.Equal(t, 1, list[0].MessageCount)

	require.NoError(t, uc.Delete(ctx, "s1"))
	_, err = uc.Get(ctx, "s1")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, "s1"), entity.ErrSessionNotFound)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	uc := newTestUsecase(t, &fakeLLM{})

	require.NoError(t, uc.Save(ctx, &entity.PlaygroundSession{
		ID:    "s1",
		Title: "Survey",
		Messages: []entity.Message{
			{Role: entity.RoleUser, Content: "q"},
			{Role: entity.RoleAssistant, Content: "a"},
		},
	}))

	md, err := uc.Export(ctx, "s1", entity.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "s1.md", md.Filename)
	assert.Equal(t, "text/markdown; charset=utf-8", md.ContentType)
	assert.Equal(t, "# Survey\n\n## User\n\nq\n\n## Assistant\n\na\n", string(md.Data))

	pdf, err := uc.Export(ctx, "s1", entity.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "s1.pdf", pdf.Filename)
	assert.True(t, bytes.HasPrefix(pdf.Data, []byte("%PDF-")))

	_, err = uc.Export(ctx, "missing", entity.FormatMarkdown)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)

	_, err = uc.Export(ctx, "s1", "html")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}
