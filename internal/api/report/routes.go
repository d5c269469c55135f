package report

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers report generation routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/report/generate", h.Generate)
}
