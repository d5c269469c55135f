package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/convrt/rag-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

const (
	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr         string        `env:"SERVER_ADDR" envDefault:":8000"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"0s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	// Vertex AI configuration
	VertexCfg VertexConfig

	// Model defaults
	LLMCfg LLMConfig `envPrefix:"LLM_"`

	// Session storage configuration
	StorageCfg StorageConfig

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// TTF font embedded in PDF transcript exports
	PDFFontPath string `env:"EXPORT_PDF_FONT_PATH"`

	// Prometheus metric namespace
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"rag_backend"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// VertexConfig points the connector at a project, region and default corpus.
type VertexConfig struct {
	ProjectID               string               `env:"PROJECT_ID,notEmpty" envDefault:"convrt-common"`
	Location                string               `env:"LOCATION,notEmpty" envDefault:"us-west1"`
	CorpusDisplayName       string               `env:"CORPUS_DISPLAY_NAME,notEmpty" envDefault:"multi-csv-corpus"`
	HTTP                    HTTPClientConfig     `envPrefix:"VERTEX_"`
	RetrievalTopK           int                  `env:"VERTEX_RETRIEVAL_TOP_K" envDefault:"15"`
	VectorDistanceThreshold float64              `env:"VERTEX_VECTOR_DISTANCE_THRESHOLD" envDefault:"0.4"`
	OperationPoll           pkgRetry.RetryConfig `envPrefix:"VERTEX_RETRY_"`
	CredentialsScope        string               `env:"VERTEX_SCOPE" envDefault:"https://www.googleapis.com/auth/cloud-platform"`
}

// BaseURL returns the regional endpoint unless one is configured explicitly.
func (c VertexConfig) BaseURL() string {
	if c.HTTP.Url != "" {
		return strings.TrimSuffix(c.HTTP.Url, "/")
	}
	return fmt.Sprintf("https://%s-aiplatform.googleapis.com", c.Location)
}

type LLMConfig struct {
	DefaultModel  string `env:"DEFAULT_MODEL" envDefault:"gemini-2.5-pro"`
	FallbackModel string `env:"FALLBACK_MODEL"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"5m"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"30s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"5m"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// StorageConfig selects where chat and playground documents live.
type StorageConfig struct {
	Driver               string `env:"STORAGE_DRIVER" envDefault:"file"`
	ChatHistoryDir       string `env:"CHAT_HISTORY_DIR" envDefault:"chat_history"`
	PlaygroundHistoryDir string `env:"PLAYGROUND_HISTORY_DIR" envDefault:"chat_history/playground"`

	// Database configuration, used by the postgres driver
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB
	WorkDir       string `env:"WORK_DIR"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.FileUploadCfg.WorkDir == "" {
		cfg.FileUploadCfg.WorkDir = os.TempDir()
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.StorageCfg.Driver {
	case StorageDriverFile:
	case StorageDriverPostgres:
		if cfg.StorageCfg.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
		if cfg.StorageCfg.DBMaxConns < 1 || cfg.StorageCfg.DBMaxConns > 200 {
			errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.StorageCfg.DBMaxConns))
		}
		if cfg.StorageCfg.DBMinConns < 0 || cfg.StorageCfg.DBMinConns > cfg.StorageCfg.DBMaxConns {
			errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.StorageCfg.DBMaxConns, cfg.StorageCfg.DBMinConns))
		}
	default:
		errors = append(errors, fmt.Sprintf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverFile, StorageDriverPostgres, cfg.StorageCfg.Driver))
	}

	if cfg.VertexCfg.RetrievalTopK < 1 || cfg.VertexCfg.RetrievalTopK > 100 {
		errors = append(errors, fmt.Sprintf("VERTEX_RETRIEVAL_TOP_K must be between 1 and 100, got %d", cfg.VertexCfg.RetrievalTopK))
	}

	if cfg.VertexCfg.VectorDistanceThreshold < 0 {
		errors = append(errors, fmt.Sprintf("VERTEX_VECTOR_DISTANCE_THRESHOLD must not be negative, got %v", cfg.VertexCfg.VectorDistanceThreshold))
	}

	if cfg.FileUploadCfg.MaxUploadSize <= 0 {
		errors = append(errors, fmt.Sprintf("FILE_UPLOAD_MAX_UPLOAD_SIZE must be positive, got %d", cfg.FileUploadCfg.MaxUploadSize))
	}

	if cfg.LLMCfg.DefaultModel == "" {
		errors = append(errors, "LLM_DEFAULT_MODEL must not be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
