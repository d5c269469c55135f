package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers grounded chat routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/query", h.Query)
		r.Post("/history/save", h.SaveHistory)
		r.Get("/history/{session_id}", h.GetHistory)
	})
}
