// Package planner orchestrates the itinerary pipeline: availability
// filtering, ranking, route sequencing and itinerary assembly. The
// planner is synchronous and deterministic; everything it reads was
// built once at startup.
package planner

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tastetrail/tastetrail/internal/availability"
	"github.com/tastetrail/tastetrail/internal/geo"
	"github.com/tastetrail/tastetrail/internal/poi"
	"github.com/tastetrail/tastetrail/internal/ranking"
	"github.com/tastetrail/tastetrail/internal/sequence"
	"github.com/tastetrail/tastetrail/internal/waittime"
	"github.com/tastetrail/tastetrail/pkg/polyline"
)

// Empty-itinerary reasons surfaced to the caller.
const (
	ReasonNoCandidates = "no candidates match the request"
	ReasonNoRoute      = "no feasible route for the given constraints"
)

// Request is one planning invocation. Candidates arrive pre-filtered by
// the retrieval stage; the planner does not perform text search.
type Request struct {
	Candidates []*poi.POI

	// Keywords are the requested menu keywords; empty for open-ended
	// requests.
	Keywords []string

	Constraint availability.Constraint

	// Mode selects the sequencing strategy: subway routes along the
	// fixed line, everything else uses the cost-greedy sequencer.
	Mode geo.TravelMode

	// Origin is the caller's starting coordinate; the zero value means
	// no origin was given.
	Origin geo.Coordinate

	// TourMode enables the bakery-tour ranking filters.
	TourMode bool
}

// Stop is one itinerary entry.
type Stop struct {
	POI         *poi.POI
	Score       float64
	WaitMinutes float64

	// StationName names the subway station serving this stop; empty
	// outside line-bound routing.
	StationName string

	// Arrive and Depart are set in timeline mode only.
	Arrive poi.TimeOfDay
	Depart poi.TimeOfDay

	// LastOrderAt carries the stop's effective close on the final
	// requested day, when one applies.
	LastOrderAt poi.TimeOfDay
}

// Leg is the travel between two consecutive itinerary points.
type Leg struct {
	From            geo.Coordinate
	To              geo.Coordinate
	DistanceKm      float64
	DurationMinutes float64

	// Mode is the per-leg travel mode; short legs downgrade to walking.
	Mode geo.TravelMode
}

// Itinerary is the planner's result. Empty itineraries carry a
// user-facing reason instead of an error.
type Itinerary struct {
	Stops    []Stop
	Legs     []Leg
	Geometry string

	EmptyReason string
}

// Empty reports whether the itinerary has no stops.
func (it Itinerary) Empty() bool { return len(it.Stops) == 0 }

// ServiceConfig holds configuration for the planner service.
type ServiceConfig struct {
	// Ranker scores and orders candidates.
	Ranker *ranking.Engine

	// Waits estimates queueing time per stop.
	Waits *waittime.Estimator

	// Greedy sequences walking, car and free-form transit routes.
	Greedy *sequence.Greedy

	// Line sequences subway routes along the fixed line.
	Line *sequence.LineSelector

	// Logger for service operations.
	Logger zerolog.Logger

	// DwellMinutes is the per-stop visit duration used by the timeline
	// clock. Defaults to 15.
	DwellMinutes float64

	// DefaultOpenMinute stands in for unknown opening times in the
	// timeline clock. Defaults to 10:00.
	DefaultOpenMinute poi.TimeOfDay

	// Now supplies the current instant for "right now" requests.
	Now func() time.Time
}

// Service plans itineraries.
type Service struct {
	ranker *ranking.Engine
	waits  *waittime.Estimator
	greedy *sequence.Greedy
	line   *sequence.LineSelector
	logger zerolog.Logger

	dwellMinutes      float64
	defaultOpenMinute poi.TimeOfDay
	now               func() time.Time
}

// NewService creates a new planner service.
func NewService(cfg ServiceConfig) *Service {
	dwell := cfg.DwellMinutes
	if dwell == 0 {
		dwell = 15
	}
	openMin := cfg.DefaultOpenMinute
	if !openMin.IsSet() || openMin == 0 {
		openMin = poi.NewTimeOfDay(10, 0)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		ranker:            cfg.Ranker,
		waits:             cfg.Waits,
		greedy:            cfg.Greedy,
		line:              cfg.Line,
		logger:            cfg.Logger,
		dwellMinutes:      dwell,
		defaultOpenMinute: openMin,
		now:               now,
	}
}

// Plan builds an itinerary for the request. Plan never fails: degraded
// inputs fall back stage by stage, and only a fully empty result is
// reported, via Itinerary.EmptyReason.
func (s *Service) Plan(ctx context.Context, req Request) Itinerary {
	if len(req.Candidates) == 0 {
		return Itinerary{EmptyReason: ReasonNoCandidates}
	}

	open, lastDayClose := s.filterAvailable(req)
	ranked := s.ranker.Rank(open, ranking.Request{Keywords: req.Keywords, TourMode: req.TourMode})
	if len(ranked) == 0 {
		return Itinerary{EmptyReason: ReasonNoCandidates}
	}

	items := make([]sequence.Item, 0, len(ranked))
	for _, c := range ranked {
		items = append(items, sequence.Item{
			POI:         c.POI,
			Score:       c.Score,
			WaitMinutes: s.waits.ExpectedWaitMinutes(c.POI, req.Constraint),
		})
	}
	items = s.walkingOriginCut(items, req)

	var it Itinerary
	if req.Mode == geo.ModeSubway {
		it = s.assembleLine(s.line.Sequence(items), req, lastDayClose)
	} else {
		ordered := s.greedy.Sequence(items, req.Constraint, req.Mode, req.Origin)
		it = s.assembleGreedy(ordered, req, lastDayClose)
	}

	if it.Empty() && it.EmptyReason == "" {
		it.EmptyReason = ReasonNoRoute
	}
	s.logger.Debug().
		Int("candidates", len(req.Candidates)).
		Int("stops", len(it.Stops)).
		Str("mode", string(req.Mode)).
		Msg("itinerary planned")
	return it
}

// filterAvailable drops candidates closed for the requested window. A
// cut that would empty the pool is abandoned rather than returning
// nothing.
func (s *Service) filterAvailable(req Request) ([]*poi.POI, map[string]poi.TimeOfDay) {
	var kept []*poi.POI
	var lastDayClose map[string]poi.TimeOfDay

	if req.Constraint.UseNow {
		kept = availability.FilterOpenAt(req.Candidates, s.now())
	} else {
		kept, lastDayClose = availability.FilterAvailable(req.Candidates, req.Constraint)
	}
	if len(kept) == 0 {
		return req.Candidates, nil
	}
	return kept, lastDayClose
}

// walkingOriginCut trims walking requests with an origin down to stops
// inside one walking leg of that origin. Abandoned when it would leave
// nothing to visit.
func (s *Service) walkingOriginCut(items []sequence.Item, req Request) []sequence.Item {
	if req.Mode != geo.ModeWalk || req.Origin.IsZero() || !req.Origin.Valid() {
		return items
	}
	maxKm := geo.ModeWalk.MaxLegKm()
	kept := make([]sequence.Item, 0, len(items))
	for _, it := range items {
		if !it.POI.Locatable() {
			continue
		}
		if geo.HaversineKm(req.Origin, it.POI.Coordinate) <= maxKm {
			kept = append(kept, it)
		}
	}
	if len(kept) == 0 {
		return items
	}
	return kept
}

func (s *Service) assembleGreedy(ordered []sequence.Item, req Request, lastDayClose map[string]poi.TimeOfDay) Itinerary {
	if len(ordered) == 0 {
		return Itinerary{}
	}

	timeline := req.Constraint.Timeline()
	var it Itinerary
	clock := 0.0

	prev := geo.Coordinate{}
	hasPrev := false
	if req.Origin.Valid() && !req.Origin.IsZero() {
		prev = req.Origin
		hasPrev = true
	}

	for i, item := range ordered {
		stop := Stop{
			POI:         item.POI,
			Score:       item.Score,
			WaitMinutes: item.WaitMinutes,
			Arrive:      poi.TimeNone,
			Depart:      poi.TimeNone,
			LastOrderAt: poi.TimeNone,
		}
		if closeAt, ok := lastDayClose[item.POI.ID]; ok {
			stop.LastOrderAt = closeAt
		}

		travel := 0.0
		if item.POI.Locatable() {
			if hasPrev {
				distKm := geo.HaversineKm(prev, item.POI.Coordinate)
				legMode := geo.LegMode(distKm, req.Mode)
				travel = geo.TravelMinutes(distKm, legMode)
				it.Legs = append(it.Legs, Leg{
					From:            prev,
					To:              item.POI.Coordinate,
					DistanceKm:      distKm,
					DurationMinutes: travel,
					Mode:            legMode,
				})
			}
			prev = item.POI.Coordinate
			hasPrev = true
		}

		if timeline {
			arrive := clock + travel
			if open := s.openMinute(item.POI); i == 0 || float64(open) > arrive {
				arrive = float64(open)
			}
			depart := arrive + item.WaitMinutes + s.dwellMinutes
			stop.Arrive = clampMinute(arrive)
			stop.Depart = clampMinute(depart)
			clock = depart
		}

		it.Stops = append(it.Stops, stop)
	}

	it.Geometry = s.encodeGeometry(req, it)
	return it
}

func (s *Service) assembleLine(placed []sequence.Placed, req Request, lastDayClose map[string]poi.TimeOfDay) Itinerary {
	if len(placed) == 0 {
		return Itinerary{}
	}

	var it Itinerary
	prev := geo.Coordinate{}
	hasPrev := false
	if req.Origin.Valid() && !req.Origin.IsZero() {
		prev = req.Origin
		hasPrev = true
	}

	for _, p := range placed {
		stop := Stop{
			POI:         p.POI,
			Score:       p.Score,
			WaitMinutes: p.WaitMinutes,
			Arrive:      poi.TimeNone,
			Depart:      poi.TimeNone,
			LastOrderAt: poi.TimeNone,
		}
		if st, ok := s.line.Station(p.StationIndex); ok {
			stop.StationName = st.Name
		}
		if closeAt, ok := lastDayClose[p.POI.ID]; ok {
			stop.LastOrderAt = closeAt
		}

		if p.POI.Locatable() {
			if hasPrev {
				distKm := geo.HaversineKm(prev, p.POI.Coordinate)
				legMode := geo.LegMode(distKm, geo.ModeSubway)
				it.Legs = append(it.Legs, Leg{
					From:            prev,
					To:              p.POI.Coordinate,
					DistanceKm:      distKm,
					DurationMinutes: geo.TravelMinutes(distKm, legMode),
					Mode:            legMode,
				})
			}
			prev = p.POI.Coordinate
			hasPrev = true
		}

		it.Stops = append(it.Stops, stop)
	}

	it.Geometry = s.encodeGeometry(req, it)
	return it
}

// encodeGeometry produces the polyline over the origin (when present)
// and every locatable stop.
func (s *Service) encodeGeometry(req Request, it Itinerary) string {
	var coords []polyline.Coordinate
	if req.Origin.Valid() && !req.Origin.IsZero() {
		coords = append(coords, polyline.Coordinate{Lat: req.Origin.Lat, Lon: req.Origin.Lon})
	}
	for _, stop := range it.Stops {
		if stop.POI.Locatable() {
			coords = append(coords, polyline.Coordinate{
				Lat: stop.POI.Coordinate.Lat,
				Lon: stop.POI.Coordinate.Lon,
			})
		}
	}
	if len(coords) < 2 {
		return ""
	}
	return polyline.Encode(coords)
}

func (s *Service) openMinute(p *poi.POI) int {
	if open, ok := availability.EarliestOpenMinute(p); ok {
		return open
	}
	return int(s.defaultOpenMinute)
}

func clampMinute(m float64) poi.TimeOfDay {
	if m < 0 {
		m = 0
	}
	if m > 24*60-1 {
		m = 24*60 - 1
	}
	return poi.TimeOfDay(int(m))
}
