// Package main provides the entrypoint for the TasteTrail API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/tastetrail/tastetrail/internal/api"
	"github.com/tastetrail/tastetrail/internal/api/middleware"
	"github.com/tastetrail/tastetrail/internal/config"
	"github.com/tastetrail/tastetrail/internal/database"
	"github.com/tastetrail/tastetrail/internal/geocoding"
	"github.com/tastetrail/tastetrail/internal/geocoding/kakao"
	"github.com/tastetrail/tastetrail/internal/planner"
	"github.com/tastetrail/tastetrail/internal/poi"
	"github.com/tastetrail/tastetrail/internal/provider/resilience"
	"github.com/tastetrail/tastetrail/internal/ranking"
	"github.com/tastetrail/tastetrail/internal/review"
	"github.com/tastetrail/tastetrail/internal/sequence"
	"github.com/tastetrail/tastetrail/internal/telemetry"
	"github.com/tastetrail/tastetrail/internal/waittime"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tastetrail-api"

	cfg := config.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		Level(cfg.ZerologLevel()).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.AppEnv).
		Msg("starting TasteTrail API")

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.AppEnv,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTELEnabled,
		SampleRatio:    cfg.TraceSampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTELEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Select the dataset repository
	var repo poi.Repository
	switch cfg.DatasetSource {
	case config.DatasetSourcePostgres:
		dbConfig := database.ConfigFromEnv()
		pool, connErr := database.Connect(ctx, dbConfig)
		if connErr != nil {
			log.Fatal().Err(connErr).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Str("database", dbConfig.Database).
			Msg("database connected")
		repo = poi.NewPostgresRepository(pool)
	default:
		repo = poi.NewFileRepository(cfg.DatasetPath)
	}

	// Load the dataset once; the planner serves from memory.
	places, err := repo.LoadAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.DatasetSource).Msg("failed to load place dataset")
	}
	log.Info().Int("places", len(places)).Msg("place dataset loaded")

	memRepo := poi.NewMemoryRepository(places)
	stats := review.BuildIndex(places)

	// Initialize the planning engines
	plannerService := planner.NewService(planner.ServiceConfig{
		Ranker: ranking.NewEngine(ranking.Config{}, stats),
		Waits:  waittime.NewEstimator(waittime.EstimatorConfig{}, stats),
		Greedy: sequence.NewGreedy(sequence.GreedyConfig{}),
		Line:   sequence.NewLineSelector(sequence.LineConfig{}, sequence.DefaultLine()),
		Logger: log,
	})

	// Initialize geocoding (optional, requires a Kakao API key)
	var geocoder *geocoding.Service
	var geocoderState func() gobreaker.State
	if cfg.KakaoAPIKey != "" {
		httpClient := resilience.NewClient(resilience.ClientConfig{Name: kakao.ProviderName})
		kakaoClient := kakao.NewClient(kakao.ClientConfig{
			APIKey:     cfg.KakaoAPIKey,
			HTTPClient: httpClient,
		})
		geocoder = geocoding.NewService(geocoding.ServiceConfig{
			Provider: kakaoClient,
			Logger:   log,
		})
		geocoderState = httpClient.State
		log.Info().Msg("kakao geocoding initialized")
	} else {
		log.Warn().Msg("KAKAO_API_KEY not set - origin names will not be geocoded")
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:       Version,
		BuildTime:     BuildTime,
		Logger:        log,
		ServiceName:   serviceName,
		Metrics:       metrics,
		Planner:       plannerService,
		Repository:    memRepo,
		Geocoder:      geocoder,
		Line:          sequence.DefaultLine(),
		DatasetSize:   func() int { return len(places) },
		GeocoderState: geocoderState,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
