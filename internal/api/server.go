// Package api serves the scraped play-by-play and aggregate views as JSON
// for notebook consumption. Read-only; everything comes from the scraper's
// in-memory store.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/slapshotlabs/rinkline/internal/api/handler"
	"github.com/slapshotlabs/rinkline/internal/config"
	"github.com/slapshotlabs/rinkline/internal/nhl"
	"github.com/slapshotlabs/rinkline/internal/scraper"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(s *scraper.Scraper, client *nhl.Client, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "Link"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(s, client, cfg, logger)

	// --- Routes ---
	r.Get("/", h.Root)
	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", h.Games)
		r.Route("/games/{gameID}", func(r chi.Router) {
			r.Get("/pbp", h.PlayByPlay)
			r.Get("/rosters", h.Rosters)
			r.Get("/shifts", h.Shifts)
			r.Get("/changes", h.Changes)
			r.Get("/stats", h.Stats)
			r.Get("/lines", h.Lines)
			r.Get("/teams", h.Teams)
		})

		r.Get("/schedule/{date}", h.Schedule)
		r.Get("/standings/{date}", h.Standings)
	})

	return r
}
