package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	catHnd "bom-sourcing/internal/catalog/handler"
	"bom-sourcing/internal/config"
	matchHnd "bom-sourcing/internal/matching/handler"
	"bom-sourcing/internal/middleware"
	"bom-sourcing/server/http/handlers"
)

type Handlers struct {
	Match   *matchHnd.Handler
	Catalog *catHnd.Handler
}

func NewRouter(cfg config.Config, logger zerolog.Logger, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> request id -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) << 20))

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/template", h.Match.Template)
	r.Post("/match", h.Match.Match)
	r.Post("/match/export", h.Match.Export)

	r.Get("/suppliers", h.Catalog.ListSuppliers)
	r.Post("/suppliers", h.Catalog.AddSupplier)
	r.Get("/suppliers/{name}", h.Catalog.GetSupplier)
	r.Patch("/suppliers/{name}", h.Catalog.UpdateSupplier)

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/status", h.Catalog.Status)
		r.Post("/import", h.Catalog.Import)
		r.Post("/refresh", h.Catalog.Refresh)
	})

	return r
}
