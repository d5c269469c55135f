package playground

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers playground routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/playground", func(r chi.Router) {
		r.Post("/query", h.Query)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/save", h.SaveSession)
			r.Get("/", h.ListSessions)

			r.Route("/{session_id}", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Delete("/", h.DeleteSession)
				r.Get("/export", h.ExportSession)
			})
		})
	})
}
