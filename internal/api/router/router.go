// Package router assembles the public and admin HTTP surfaces.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/leadline-ai/leadline/internal/http/handlers"
	httpmiddleware "github.com/leadline-ai/leadline/internal/http/middleware"
	"github.com/leadline-ai/leadline/internal/leads"
	"github.com/leadline-ai/leadline/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	TurnHandler        *handlers.TurnHandler
	LeadsHandler       *leads.Handler
	MerchantConfig     *handlers.MerchantConfigHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	AdminToken         string

	// Per-IP limit on the public message endpoint. Zero disables limiting.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		if cfg.TurnHandler != nil {
			public.Get("/health", cfg.TurnHandler.HealthCheck)

			turns := public
			if cfg.RateLimitPerSecond > 0 {
				turns = public.With(httpmiddleware.TurnThrottle(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
			}
			turns.Post("/v1/merchants/{merchantID}/sessions/{sessionID}/messages", cfg.TurnHandler.PostMessage)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Merchant-facing endpoints, guarded by the shared admin token.
	r.Group(func(protected chi.Router) {
		protected.Use(httpmiddleware.BearerToken(cfg.AdminToken))

		if cfg.LeadsHandler != nil {
			protected.Route("/v1/merchants/{merchantID}/leads", func(r chi.Router) {
				r.Get("/", cfg.LeadsHandler.ListLeads)
				r.Get("/stats", cfg.LeadsHandler.GetStats)
				r.Get("/{leadID}", cfg.LeadsHandler.GetLead)
			})
		}
		if cfg.MerchantConfig != nil {
			protected.Route("/admin/merchants/{merchantID}/config", func(r chi.Router) {
				r.Get("/", cfg.MerchantConfig.GetConfig)
				r.Put("/", cfg.MerchantConfig.PutConfig)
			})
		}
	})

	return r
}
