package api

import (
	"net/http"
	"time"

	adminapi "github.com/convrt/rag-backend/internal/api/admin"
	chatapi "github.com/convrt/rag-backend/internal/api/chat"
	"github.com/convrt/rag-backend/internal/api/docs"
	"github.com/convrt/rag-backend/internal/api/middleware"
	playgroundapi "github.com/convrt/rag-backend/internal/api/playground"
	reportapi "github.com/convrt/rag-backend/internal/api/report"
	"github.com/convrt/rag-backend/internal/entity"
	"github.com/convrt/rag-backend/internal/pkg/metrics"
	"github.com/convrt/rag-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handlers struct {
	Admin      *adminapi.Handler
	Chat       *chatapi.Handler
	Playground *playgroundapi.Handler
	Report     *reportapi.Handler
}

// RouterOptions configures the cross-cutting parts of the router.
type RouterOptions struct {
	CORSAllowedOrigins []string
	// RequestTimeout of zero leaves requests unbounded.
	RequestTimeout       time.Duration
	ChatHistoryDir       string
	PlaygroundHistoryDir string
	CorpusReady          func() bool
	Metrics              *metrics.Metrics
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(h Handlers, opts RouterOptions, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(opts.CORSAllowedOrigins))
	r.Use(opts.Metrics.Middleware)
	if opts.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(opts.RequestTimeout))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, entity.MessageResponse{Message: "Vertex AI RAG Backend is running"})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ready := opts.CorpusReady != nil && opts.CorpusReady()
		response.Success(w, entity.HealthResponse{
			Status:               "healthy",
			ChatHistoryDir:       opts.ChatHistoryDir,
			PlaygroundHistoryDir: opts.PlaygroundHistoryDir,
			CorpusReady:          ready,
		})
	})

	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	docs.RegisterRoutes(r)

	adminapi.RegisterRoutes(r, h.Admin)
	chatapi.RegisterRoutes(r, h.Chat)
	playgroundapi.RegisterRoutes(r, h.Playground)
	reportapi.RegisterRoutes(r, h.Report)

	return r
}
