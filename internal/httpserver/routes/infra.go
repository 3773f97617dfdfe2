package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/verse/internal/httpserver/deps"
	"github.com/MrSnakeDoc/verse/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/verse/internal/httpserver/mw"
)

func init() { Register(registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	ops := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	ops.Get("/infra", handlers.Infra(d))
	ops.Method("GET", "/metrics", handlers.Metrics())
}
