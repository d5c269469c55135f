package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/convrt/rag-backend/internal/config"
	"github.com/convrt/rag-backend/internal/entity"
	"github.com/convrt/rag-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	query   *entity.ChatQueryRequest
	saved   *entity.SaveChatHistoryRequest
	history map[string][]entity.Message
	err     error
}

func (f *fakeUsecase) Query(_ context.Context, req *entity.ChatQueryRequest) (string, error) {
	f.query = req
	if f.err != nil {
		return "", f.err
	}
	return "grounded answer", nil
}

func (f *fakeUsecase) SaveHistory(_ context.Context, req *entity.SaveChatHistoryRequest) error {
	f.saved = req
	return f.err
}

func (f *fakeUsecase) LoadHistory(_ context.Context, sessionID string) ([]entity.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	if msgs, ok := f.history[sessionID]; ok {
		return msgs, nil
	}
	return []entity.Message{}, nil
}

func serve(uc *fakeUsecase, method, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, validator.New(config.FileUploadConfig{})))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestQuery(t *testing.T) {
	uc := &fakeUsecase{}
	rec := serve(uc, http.MethodPost, "/chat/query",
		`{"prompt":"Sales?","history":[{"role":"user","content":"hi"}],"slide_context":"S","report_id":"r1","model_id":"m"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"response":"grounded answer"}`, rec.Body.String())
	assert.Equal(t, &entity.ChatQueryRequest{
		Prompt:       "Sales?",
		ModelID:      "m",
		History:      []entity.Message{{Role: entity.RoleUser, Content: "hi"}},
		SlideContext: "S",
		ReportID:     "r1",
	}, uc.query)
}

func TestQuery_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		ucErr  error
		status int
	}{
		{name: "malformed json", body: `{`, status: http.StatusBadRequest},
		{name: "missing prompt", body: `{}`, status: http.StatusBadRequest},
		{name: "bad role", body: `{"prompt":"p","history":[{"role":"model","content":"x"}]}`, status: http.StatusBadRequest},
		{name: "not initialized", body: `{"prompt":"p"}`, ucErr: entity.ErrNotInitialized, status: http.StatusServiceUnavailable},
		{name: "model failure", body: `{"prompt":"p"}`, ucErr: entity.ErrModelNotAvailable, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUsecase{err: tt.ucErr}, http.MethodPost, "/chat/query", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestSaveHistory(t *testing.T) {
	uc := &fakeUsecase{}
	rec := serve(uc, http.MethodPost, "/chat/history/save",
		`{"session_id":"abc","messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Chat history saved successfully"}`, rec.Body.String())
	assert.Equal(t, "abc", uc.saved.SessionID)
	assert.Len(t, uc.saved.Messages, 2)

	rec = serve(&fakeUsecase{}, http.MethodPost, "/chat/history/save", `{"messages":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHistory(t *testing.T) {
	uc := &fakeUsecase{history: map[string][]entity.Message{
		"abc": {{Role: entity.RoleUser, Content: "hi"}},
	}}

	rec := serve(uc, http.MethodGet, "/chat/history/abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"messages":[{"role":"user","content":"hi"}]}`, rec.Body.String())

	rec = serve(uc, http.MethodGet, "/chat/history/unknown", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"messages":[]}`, rec.Body.String())
}
