// Package api provides the HTTP API for TasteTrail.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/tastetrail/tastetrail/internal/api/handler"
	"github.com/tastetrail/tastetrail/internal/api/middleware"
	"github.com/tastetrail/tastetrail/internal/geocoding"
	"github.com/tastetrail/tastetrail/internal/planner"
	"github.com/tastetrail/tastetrail/internal/poi"
	"github.com/tastetrail/tastetrail/internal/sequence"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	Planner    *planner.Service
	Repository poi.Repository
	Geocoder   *geocoding.Service
	Line       sequence.Line

	// DatasetSize reports the number of loaded places for readiness and
	// status reporting.
	DatasetSize func() int

	// GeocoderState reports the geocoding circuit breaker state; nil
	// when no provider is configured.
	GeocoderState func() gobreaker.State
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "tastetrail-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DatasetSize, cfg.GeocoderState)
	planHandler := handler.NewPlanHandler(cfg.Planner, cfg.Repository, cfg.Geocoder, cfg.Logger)
	metadataHandler := handler.NewMetadataHandler(cfg.Line)

	planRateLimit := middleware.RateLimitByIP(middleware.PlanRateLimit)         // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Metadata endpoints (public) - standard rate limiting
		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/stations", metadataHandler.ListStations)
			r.Get("/enums", metadataHandler.GetEnums)
		})

		// Planning endpoint - stricter rate limiting, JSON bodies only
		r.Group(func(r chi.Router) {
			r.Use(planRateLimit)
			r.Use(middleware.RequireJSON)
			r.Post("/itineraries:plan", planHandler.PlanItinerary)
		})
	})

	return r
}
