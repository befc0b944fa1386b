package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", h.AnalyzeHandler)
		r.Post("/chat", h.ChatHandler)
		r.Post("/presentation", h.PresentationHandler)

		r.Post("/seek", h.SeekHandler)
		r.Get("/seek/events", h.SeekEventsHandler)
	})

	return r
}
