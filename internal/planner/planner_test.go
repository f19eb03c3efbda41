package planner_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastetrail/tastetrail/internal/availability"
	"github.com/tastetrail/tastetrail/internal/geo"
	"github.com/tastetrail/tastetrail/internal/planner"
	"github.com/tastetrail/tastetrail/internal/poi"
	"github.com/tastetrail/tastetrail/internal/ranking"
	"github.com/tastetrail/tastetrail/internal/review"
	"github.com/tastetrail/tastetrail/internal/sequence"
	"github.com/tastetrail/tastetrail/internal/waittime"
)

// saturdayNoon is the fixed clock for "now" requests in these tests.
var saturdayNoon = time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)

func newService(pois []*poi.POI) *planner.Service {
	stats := review.BuildIndex(pois)
	now := func() time.Time { return saturdayNoon }
	return planner.NewService(planner.ServiceConfig{
		Ranker: ranking.NewEngine(ranking.Config{}, stats),
		Waits:  waittime.NewEstimator(waittime.EstimatorConfig{Now: now}, stats),
		Greedy: sequence.NewGreedy(sequence.GreedyConfig{}),
		Line:   sequence.NewLineSelector(sequence.LineConfig{}, sequence.DefaultLine()),
		Logger: zerolog.Nop(),
		Now:    now,
	})
}

// bakery builds a locatable POI near Daejeon city hall offset by degrees
// of latitude, open every day 09:00-21:00.
func bakery(id string, latOffset float64, rating float64) *poi.POI {
	hours := &poi.WeeklyHours{}
	for i := range hours.Days {
		hours.Days[i] = &poi.DayHours{
			Open:      poi.NewTimeOfDay(9, 0),
			Close:     poi.NewTimeOfDay(21, 0),
			LastOrder: poi.NewTimeOfDay(20, 30),
		}
	}
	return &poi.POI{
		ID:         id,
		Name:       id,
		Rating:     rating,
		Coordinate: geo.Coordinate{Lat: 36.3395 + latOffset, Lon: 127.3780},
		Hours:      hours,
	}
}

func stopIDs(it planner.Itinerary) []string {
	out := make([]string, len(it.Stops))
	for i, s := range it.Stops {
		out[i] = s.POI.ID
	}
	return out
}

func TestPlan_NoCandidates(t *testing.T) {
	svc := newService(nil)

	it := svc.Plan(context.Background(), planner.Request{Mode: geo.ModeTransit})

	assert.True(t, it.Empty())
	assert.Equal(t, planner.ReasonNoCandidates, it.EmptyReason)
}

func TestPlan_Timeline(t *testing.T) {
	pois := []*poi.POI{bakery("a", 0, 4.5), bakery("b", 0.005, 4.0), bakery("c", 0.010, 3.5)}
	svc := newService(pois)

	it := svc.Plan(context.Background(), planner.Request{
		Candidates: pois,
		Constraint: availability.Unconstrained(),
		Mode:       geo.ModeTransit,
	})

	require.False(t, it.Empty())
	require.Len(t, it.Stops, 3)
	assert.Len(t, it.Legs, 2, "no origin, so one leg per consecutive pair")
	assert.NotEmpty(t, it.Geometry)
	assert.Empty(t, it.EmptyReason)

	// The day starts when the first stop opens.
	assert.Equal(t, poi.NewTimeOfDay(9, 0), it.Stops[0].Arrive)
	for i, s := range it.Stops {
		require.True(t, s.Arrive.IsSet(), "timeline stops carry a clock")
		require.True(t, s.Depart.IsSet())
		assert.GreaterOrEqual(t, int(s.Depart), int(s.Arrive))
		if i > 0 {
			assert.GreaterOrEqual(t, int(s.Arrive), int(it.Stops[i-1].Depart))
		}
	}
}

func TestPlan_NowFiltersClosed(t *testing.T) {
	openNow := bakery("open", 0, 4.0)
	closed := bakery("closed", 0.005, 5.0)
	for i := range closed.Hours.Days {
		closed.Hours.Days[i] = &poi.DayHours{
			Open:      poi.NewTimeOfDay(18, 0),
			Close:     poi.NewTimeOfDay(23, 0),
			LastOrder: poi.TimeNone,
		}
	}
	pois := []*poi.POI{openNow, closed}
	svc := newService(pois)

	c := availability.Unconstrained()
	c.UseNow = true
	it := svc.Plan(context.Background(), planner.Request{Candidates: pois, Constraint: c, Mode: geo.ModeCar})

	assert.Equal(t, []string{"open"}, stopIDs(it))
	assert.False(t, it.Stops[0].Arrive.IsSet(), "no timeline clock outside timeline mode")
}

func TestPlan_AvailabilityCutFallsBackWhenEmpty(t *testing.T) {
	// Both candidates are closed at noon; rather than planning nothing
	// the cut is abandoned.
	evening := bakery("evening", 0, 4.0)
	for i := range evening.Hours.Days {
		evening.Hours.Days[i].Open = poi.NewTimeOfDay(18, 0)
		evening.Hours.Days[i].Close = poi.NewTimeOfDay(23, 0)
		evening.Hours.Days[i].LastOrder = poi.TimeNone
	}
	pois := []*poi.POI{evening}
	svc := newService(pois)

	c := availability.Unconstrained()
	c.UseNow = true
	it := svc.Plan(context.Background(), planner.Request{Candidates: pois, Constraint: c, Mode: geo.ModeCar})

	assert.Equal(t, []string{"evening"}, stopIDs(it))
}

func TestPlan_OriginLeg(t *testing.T) {
	pois := []*poi.POI{bakery("a", 0, 4.5), bakery("b", 0.05, 4.0)}
	svc := newService(pois)

	origin := geo.Coordinate{Lat: 36.3380, Lon: 127.3780}
	c := availability.Unconstrained()
	c.UseNow = true
	it := svc.Plan(context.Background(), planner.Request{
		Candidates: pois,
		Constraint: c,
		Mode:       geo.ModeCar,
		Origin:     origin,
	})

	require.Len(t, it.Stops, 2)
	require.Len(t, it.Legs, 2, "origin adds a leading leg")
	assert.Equal(t, origin, it.Legs[0].From)
	assert.Equal(t, geo.ModeWalk, it.Legs[0].Mode, "short car legs downgrade to walking")
	assert.Equal(t, geo.ModeCar, it.Legs[1].Mode, "long legs keep the requested mode")
}

func TestPlan_WalkingOriginCut(t *testing.T) {
	near := bakery("near", 0, 4.0)
	far := bakery("far", 0.05, 5.0) // ~5.5 km from the origin
	pois := []*poi.POI{near, far}
	svc := newService(pois)

	c := availability.Unconstrained()
	c.UseNow = true
	it := svc.Plan(context.Background(), planner.Request{
		Candidates: pois,
		Constraint: c,
		Mode:       geo.ModeWalk,
		Origin:     geo.Coordinate{Lat: 36.3395, Lon: 127.3780},
	})

	assert.Equal(t, []string{"near"}, stopIDs(it))
}

func TestPlan_SubwayUsesLine(t *testing.T) {
	line := sequence.DefaultLine()
	nearStation := func(id string, stationIdx int, rating float64) *poi.POI {
		p := bakery(id, 0, rating)
		p.Coordinate = geo.Coordinate{
			Lat: line.Stations[stationIdx].Coordinate.Lat + 0.002,
			Lon: line.Stations[stationIdx].Coordinate.Lon,
		}
		return p
	}
	pois := []*poi.POI{
		nearStation("city-hall", 10, 4.5),
		nearStation("daejeon-station", 3, 4.0),
		nearStation("yuseong", 15, 3.5),
	}
	svc := newService(pois)

	c := availability.Unconstrained()
	c.UseNow = true
	it := svc.Plan(context.Background(), planner.Request{Candidates: pois, Constraint: c, Mode: geo.ModeSubway})

	require.Len(t, it.Stops, 3)
	assert.Equal(t, []string{"daejeon-station", "city-hall", "yuseong"}, stopIDs(it),
		"subway stops follow line order, not score order")
	assert.Equal(t, "대전역", it.Stops[0].StationName)
	assert.Equal(t, "시청", it.Stops[1].StationName)
	assert.Equal(t, "유성온천", it.Stops[2].StationName)

	require.Len(t, it.Legs, 2)
	for _, leg := range it.Legs {
		assert.Equal(t, geo.ModeSubway, leg.Mode)
	}
}

func TestPlan_LastOrderOnFinalDay(t *testing.T) {
	pois := []*poi.POI{bakery("a", 0, 4.5)}
	svc := newService(pois)

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	c := availability.Unconstrained()
	c.HasDateRange = true
	c.StartDate = day
	c.EndDate = day
	c.StartTime = poi.NewTimeOfDay(10, 0)
	c.EndTime = poi.NewTimeOfDay(12, 0)

	it := svc.Plan(context.Background(), planner.Request{Candidates: pois, Constraint: c, Mode: geo.ModeCar})

	require.Len(t, it.Stops, 1)
	assert.Equal(t, poi.NewTimeOfDay(20, 30), it.Stops[0].LastOrderAt)
}

func TestPlan_NoRouteReason(t *testing.T) {
	// Walking mode with nothing locatable cannot produce a route.
	unlocatable := &poi.POI{ID: "nowhere", Name: "nowhere", Rating: 4.0}
	svc := newService([]*poi.POI{unlocatable})

	c := availability.Unconstrained()
	c.UseNow = true
	it := svc.Plan(context.Background(), planner.Request{
		Candidates: []*poi.POI{unlocatable},
		Constraint: c,
		Mode:       geo.ModeWalk,
	})

	assert.True(t, it.Empty())
	assert.Equal(t, planner.ReasonNoRoute, it.EmptyReason)
}
