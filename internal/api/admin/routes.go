package admin

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers dataset administration routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/upload", h.Upload)
		r.Get("/files", h.ListFiles)
	})
}
