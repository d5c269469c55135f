package uploader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestClient_Upload(t *testing.T) {
	var gotName, gotContent, gotDesc, gotReport, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/upload", r.URL.Path)
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		data, _ := io.ReadAll(file)
		gotName, gotContent = header.Filename, string(data)
		gotDesc = r.FormValue("description")
		gotReport = r.FormValue("report_id")
		gotReqID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{"message":"Successfully uploaded sales.csv"}`))
	}))
	defer srv.Close()

	path := writeFile(t, t.TempDir(), "sales.csv", "a,b\n1,2\n")
	c := NewClient(srv.URL, 5*time.Second, zap.NewNop())

	msg, err := c.Upload(context.Background(), path, "Uploaded from sales.csv", "r1")
	require.NoError(t, err)
	assert.Equal(t, "Successfully uploaded sales.csv", msg)
	assert.Equal(t, "sales.csv", gotName)
	assert.Equal(t, "a,b\n1,2\n", gotContent)
	assert.Equal(t, "Uploaded from sales.csv", gotDesc)
	assert.Equal(t, "r1", gotReport)
	assert.NotEmpty(t, gotReqID)
}

func TestClient_UploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Bad Request"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	path := writeFile(t, t.TempDir(), "x.csv", "a\n1\n")
	_, err := NewClient(srv.URL, time.Second, zap.NewNop()).Upload(context.Background(), path, "", "")
	assert.ErrorContains(t, err, "HTTP 400")
}

func TestClient_ListFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/files", r.URL.Path)
		assert.Equal(t, "r2", r.URL.Query().Get("report_id"))
		_, _ = w.Write([]byte(`{"files":["a.csv","b.csv"]}`))
	}))
	defer srv.Close()

	files, err := NewClient(srv.URL, time.Second, zap.NewNop()).ListFiles(context.Background(), "r2")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "b.csv"}, files)
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "x")
	writeFile(t, dir, "a.txt", "x")
	writeFile(t, dir, ".hidden.csv", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	files, err := CollectFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.csv")}, files)

	_, err = CollectFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

type fakeUploader struct {
	mu       sync.Mutex
	calls    map[string]string
	fail     map[string]bool
	inFlight int
	maxSeen  int
}

func (f *fakeUploader) Upload(_ context.Context, path, description, _ string) (string, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.calls[filepath.Base(path)] = description
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
	if f.fail[filepath.Base(path)] {
		return "", errors.New("boom")
	}
	return "Successfully uploaded " + filepath.Base(path), nil
}

func TestUploadAll(t *testing.T) {
	up := &fakeUploader{calls: map[string]string{}, fail: map[string]bool{"c.csv": true}}
	files := []string{"/d/a.csv", "/d/b.csv", "/d/c.csv", "/d/d.csv"}

	result := UploadAll(context.Background(), up, files, "", 2)

	assert.Equal(t, []string{"a.csv", "b.csv", "d.csv"}, result.Uploaded)
	assert.Equal(t, []string{"c.csv"}, result.Failed)
	assert.Equal(t, "Uploaded from a.csv", up.calls["a.csv"])
	assert.LessOrEqual(t, up.maxSeen, 2)
}

func TestWatch_DebouncesCSVWrites(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, 100*time.Millisecond, func(path string) { got <- filepath.Base(path) })
	}()
	time.Sleep(100 * time.Millisecond)

	path := writeFile(t, dir, "data.csv", "a\n")
	for i := 0; i < 3; i++ {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		_, _ = f.WriteString("1\n")
		require.NoError(t, f.Close())
	}
	writeFile(t, dir, "notes.txt", "ignored")

	select {
	case name := <-got:
		assert.Equal(t, "data.csv", name)
	case <-time.After(3 * time.Second):
		t.Fatal("no upload triggered")
	}

	select {
	case name := <-got:
		t.Fatalf("unexpected second trigger for %s", name)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	assert.NoError(t, <-done)
}
