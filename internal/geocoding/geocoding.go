// Package geocoding resolves free-form place names to coordinates
// through an external provider, with caching and stale-if-error reuse so
// provider hiccups never fail a planning request.
package geocoding

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tastetrail/tastetrail/internal/geo"
)

// Provider errors.
var (
	// ErrNotFound is returned when the provider has no result for the
	// query.
	ErrNotFound = errors.New("place not found")
)

// Provider resolves a place name to a coordinate.
type Provider interface {
	// Name returns the provider identifier for logging.
	Name() string

	// Geocode resolves the query to a coordinate.
	Geocode(ctx context.Context, query string) (geo.Coordinate, error)
}

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Provider is the upstream geocoder.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long resolved coordinates stay fresh
	// (default: 24 hours; place coordinates rarely move).
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale entries on provider errors
	// (default: 7 days).
	StaleIfErrorTTL time.Duration
}

// Service provides cached geocoding.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedCoordinate
}

type cachedCoordinate struct {
	coord     geo.Coordinate
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 7 * 24 * time.Hour
	}
	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cachedCoordinate),
	}
}

// Locate resolves a place name to a coordinate, serving from cache when
// fresh and falling back to a stale entry when the provider fails.
func (s *Service) Locate(ctx context.Context, name string) (geo.Coordinate, error) {
	key := cacheKey(name)

	s.mu.RLock()
	entry := s.cache[key]
	s.mu.RUnlock()

	now := time.Now()
	if entry != nil && now.Before(entry.expiresAt) {
		return entry.coord, nil
	}

	coord, err := s.provider.Geocode(ctx, name)
	if err != nil {
		if entry != nil && now.Sub(entry.fetchedAt) < s.staleIfErrorTTL {
			s.logger.Warn().
				Err(err).
				Str("provider", s.provider.Name()).
				Str("query", name).
				Msg("geocoding failed, serving stale coordinate")
			return entry.coord, nil
		}
		return geo.Coordinate{}, err
	}

	s.mu.Lock()
	s.cache[key] = &cachedCoordinate{
		coord:     coord,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}
	s.mu.Unlock()

	return coord, nil
}

func cacheKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
