package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tastetrail/tastetrail/internal/geo"
	"github.com/tastetrail/tastetrail/internal/poi"
)

// AuditJob verifies the loaded place dataset: parseable hours, usable
// coordinates, wait predictions, and per-district coverage.
type AuditJob struct {
	config AuditConfig
	logger zerolog.Logger
	repo   poi.Repository

	metrics *AuditMetrics
}

// AuditMetrics tracks audit job statistics across runs.
type AuditMetrics struct {
	mu sync.RWMutex

	TotalRuns   int64
	FailedRuns  int64
	TotalIssues int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
}

// AuditJobConfig holds configuration for creating an AuditJob.
type AuditJobConfig struct {
	Config     AuditConfig
	Logger     zerolog.Logger
	Repository poi.Repository
}

// NewAuditJob creates a new dataset audit job.
func NewAuditJob(cfg AuditJobConfig) *AuditJob {
	return &AuditJob{
		config:  cfg.Config.withDefaults(),
		logger:  cfg.Logger,
		repo:    cfg.Repository,
		metrics: &AuditMetrics{},
	}
}

// AuditIssue is a single dataset defect.
type AuditIssue struct {
	PlaceID string
	Check   string
	Detail  string
}

// DistrictCoverage reports how many locatable places fall inside one
// audit target.
type DistrictCoverage struct {
	District  string
	Places    int
	MinPlaces int
}

// Met reports whether the district meets its coverage floor.
func (d DistrictCoverage) Met() bool { return d.Places >= d.MinPlaces }

// AuditResult contains the result of one audit run.
type AuditResult struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	TotalPlaces int
	WithHours   int
	Locatable   int
	WithWaits   int

	Coverage []DistrictCoverage
	Issues   []AuditIssue

	// Err is set when the dataset could not be loaded at all.
	Err error
}

// HoursRate returns the fraction of places with parseable hours.
func (r *AuditResult) HoursRate() float64 {
	if r.TotalPlaces == 0 {
		return 0
	}
	return float64(r.WithHours) / float64(r.TotalPlaces)
}

// LocatableRate returns the fraction of places with usable coordinates.
func (r *AuditResult) LocatableRate() float64 {
	if r.TotalPlaces == 0 {
		return 0
	}
	return float64(r.Locatable) / float64(r.TotalPlaces)
}

// Healthy reports whether the dataset passes the configured floors.
func (r *AuditResult) Healthy(cfg AuditConfig) bool {
	if r.Err != nil || r.TotalPlaces == 0 {
		return false
	}
	if r.HoursRate() < cfg.MinHoursRate {
		return false
	}
	if r.LocatableRate() < cfg.MinLocatableRate {
		return false
	}
	for _, c := range r.Coverage {
		if !c.Met() {
			return false
		}
	}
	return true
}

// placeResult is the per-place check outcome flowing out of the worker
// pool.
type placeResult struct {
	hasHours  bool
	locatable bool
	hasWaits  bool
	district  int // target index, -1 when outside every district
	issues    []AuditIssue
}

// Run executes the audit against the current dataset.
func (j *AuditJob) Run(ctx context.Context) *AuditResult {
	startTime := time.Now()
	result := &AuditResult{StartTime: startTime}

	runCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	places, err := j.repo.LoadAll(runCtx)
	if err != nil {
		result.Err = err
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		j.updateMetrics(result, false)
		return result
	}
	result.TotalPlaces = len(places)

	j.logger.Info().
		Int("total_places", result.TotalPlaces).
		Int("concurrency", j.config.Concurrency).
		Msg("starting dataset audit")

	placesChan := make(chan *poi.POI, len(places))
	resultsChan := make(chan placeResult, len(places))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.auditWorker(runCtx, placesChan, resultsChan)
		}()
	}

	for _, p := range places {
		placesChan <- p
	}
	close(placesChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	districtCounts := make([]int, len(j.config.Targets))
	for pr := range resultsChan {
		if pr.hasHours {
			result.WithHours++
		}
		if pr.locatable {
			result.Locatable++
		}
		if pr.hasWaits {
			result.WithWaits++
		}
		if pr.district >= 0 {
			districtCounts[pr.district]++
		}
		result.Issues = append(result.Issues, pr.issues...)
	}

	for i, target := range j.config.Targets {
		result.Coverage = append(result.Coverage, DistrictCoverage{
			District:  target.Name,
			Places:    districtCounts[i],
			MinPlaces: target.MinPlaces,
		})
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	healthy := result.Healthy(j.config)
	j.updateMetrics(result, healthy)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("issues", len(result.Issues)).
		Float64("hours_rate", result.HoursRate()).
		Float64("locatable_rate", result.LocatableRate()).
		Bool("healthy", healthy).
		Msg("dataset audit completed")

	return result
}

func (j *AuditJob) auditWorker(ctx context.Context, places <-chan *poi.POI, results chan<- placeResult) {
	for p := range places {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.auditPlace(p)
		}
	}
}

func (j *AuditJob) auditPlace(p *poi.POI) placeResult {
	result := placeResult{district: -1}

	if p.Hours != nil && p.Hours.HasAny() {
		result.hasHours = true
	} else {
		result.issues = append(result.issues, AuditIssue{
			PlaceID: p.ID,
			Check:   "hours",
			Detail:  "no parseable business hours",
		})
	}

	if p.Locatable() {
		result.locatable = true
		result.district = j.districtOf(p.Coordinate)
	} else {
		result.issues = append(result.issues, AuditIssue{
			PlaceID: p.ID,
			Check:   "coordinates",
			Detail:  "missing or invalid coordinates",
		})
	}

	if p.WaitPrediction != nil {
		result.hasWaits = true
	} else if !j.config.SkipWaits {
		result.issues = append(result.issues, AuditIssue{
			PlaceID: p.ID,
			Check:   "waits",
			Detail:  "no wait prediction table",
		})
	}

	return result
}

// districtOf returns the index of the nearest target whose radius covers
// the coordinate, or -1.
func (j *AuditJob) districtOf(c geo.Coordinate) int {
	best := -1
	bestDist := j.config.RadiusKm
	for i, target := range j.config.Targets {
		d := geo.HaversineKm(c, target.Center)
		if d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func (j *AuditJob) updateMetrics(result *AuditResult, healthy bool) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	if !healthy {
		j.metrics.FailedRuns++
	}
	j.metrics.TotalIssues += int64(len(result.Issues))
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *AuditJob) GetMetrics() AuditMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return AuditMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		FailedRuns:      j.metrics.FailedRuns,
		TotalIssues:     j.metrics.TotalIssues,
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
	}
}

// MetricsSnapshot returns the current metrics as a map.
func (j *AuditJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"failed_runs":       m.FailedRuns,
		"total_issues":      m.TotalIssues,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
	}
}
