package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/verse/internal/httpserver/deps"
	"github.com/MrSnakeDoc/verse/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/verse/internal/httpserver/mw"
)

func init() { Register(registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api", func(api chi.Router) {
		api.Use(mw.RateLimit(d.Limiter, d.TrustProxy))
		api.Post("/updates", handlers.Updates(d))
		api.Get("/passage", handlers.Passage(d))
	})
}
