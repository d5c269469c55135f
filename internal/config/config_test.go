package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.ServerAddr)
	assert.Equal(t, "convrt-common", cfg.VertexCfg.ProjectID)
	assert.Equal(t, "us-west1", cfg.VertexCfg.Location)
	assert.Equal(t, "multi-csv-corpus", cfg.VertexCfg.CorpusDisplayName)
	assert.Equal(t, 15, cfg.VertexCfg.RetrievalTopK)
	assert.InDelta(t, 0.4, cfg.VertexCfg.VectorDistanceThreshold, 1e-9)
	assert.Equal(t, 5*time.Minute, cfg.VertexCfg.HTTP.RequestTimeout)
	assert.Equal(t, uint(60), cfg.VertexCfg.OperationPoll.Attempts)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLMCfg.DefaultModel)
	assert.Empty(t, cfg.LLMCfg.FallbackModel)
	assert.Equal(t, StorageDriverFile, cfg.StorageCfg.Driver)
	assert.Equal(t, "chat_history", cfg.StorageCfg.ChatHistoryDir)
	assert.Equal(t, "chat_history/playground", cfg.StorageCfg.PlaygroundHistoryDir)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.NotEmpty(t, cfg.FileUploadCfg.WorkDir)
	assert.Equal(t, "https://us-west1-aiplatform.googleapis.com", cfg.VertexCfg.BaseURL())
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("PROJECT_ID", "acme")
	t.Setenv("LOCATION", "europe-west4")
	t.Setenv("CORPUS_DISPLAY_NAME", "reports")
	t.Setenv("VERTEX_SERVICE_URL", "http://localhost:9999/")
	t.Setenv("LLM_FALLBACK_MODEL", "gemini-2.0-flash")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.VertexCfg.ProjectID)
	assert.Equal(t, "europe-west4", cfg.VertexCfg.Location)
	assert.Equal(t, "reports", cfg.VertexCfg.CorpusDisplayName)
	assert.Equal(t, "http://localhost:9999", cfg.VertexCfg.BaseURL())
	assert.Equal(t, "gemini-2.0-flash", cfg.LLMCfg.FallbackModel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "postgres without url",
			env:  map[string]string{"STORAGE_DRIVER": "postgres"},
			want: "DATABASE_URL is required",
		},
		{
			name: "unknown driver",
			env:  map[string]string{"STORAGE_DRIVER": "s3"},
			want: "STORAGE_DRIVER must be",
		},
		{
			name: "top k out of range",
			env:  map[string]string{"VERTEX_RETRIEVAL_TOP_K": "0"},
			want: "VERTEX_RETRIEVAL_TOP_K",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.prod", getEnvFile("production"))
	assert.Equal(t, ".env.local", getEnvFile("dev"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}
