// Package sequence orders ranked POI candidates into a visitable route,
// either by cost-greedy nearest-feasible extension or, for line-bound
// transit, by picking the best contiguous interval of stops along a fixed
// line.
package sequence

import (
	"github.com/tastetrail/tastetrail/internal/availability"
	"github.com/tastetrail/tastetrail/internal/geo"
	"github.com/tastetrail/tastetrail/internal/poi"
)

// Item is one ranked candidate entering a sequencer, carrying the fields
// the sequencers need precomputed.
type Item struct {
	POI   *poi.POI
	Score float64

	// WaitMinutes is the expected queueing wait used in leg costs.
	WaitMinutes float64
}

// GreedyConfig tunes the cost-greedy sequencer. Zero values fall back to
// the defaults below.
type GreedyConfig struct {
	// DwellMinutes is the fixed per-stop visit duration in timeline
	// mode. Defaults to 15.
	DwellMinutes float64

	// DefaultOpenMinute stands in for the opening time of POIs without
	// parseable hours in timeline mode. Defaults to 10:00.
	DefaultOpenMinute poi.TimeOfDay
}

// Greedy is the cost-greedy route sequencer used for walking, car and
// free-form transit requests.
type Greedy struct {
	cfg GreedyConfig
}

// NewGreedy builds a greedy sequencer.
func NewGreedy(cfg GreedyConfig) *Greedy {
	if cfg.DwellMinutes == 0 {
		cfg.DwellMinutes = 15
	}
	if !cfg.DefaultOpenMinute.IsSet() || cfg.DefaultOpenMinute == 0 {
		cfg.DefaultOpenMinute = poi.NewTimeOfDay(10, 0)
	}
	return &Greedy{cfg: cfg}
}

// Sequence orders the items into a visiting order. Items arrive ranked
// best first; the result starts from the chosen start item and extends
// greedily by minimum leg cost. In walking mode the route ends at the
// first infeasible leg; in other modes unreachable or unlocatable items
// are appended in their original rank order so they remain visible.
func (g *Greedy) Sequence(items []Item, c availability.Constraint, mode geo.TravelMode, origin geo.Coordinate) []Item {
	if len(items) == 0 {
		return nil
	}

	timeline := c.Timeline()
	visited := make([]bool, len(items))

	startIdx := g.pickStart(items, timeline, origin)
	if startIdx < 0 {
		// Nothing has a usable coordinate; rank order is all we have.
		if mode == geo.ModeWalk {
			return nil
		}
		out := make([]Item, len(items))
		copy(out, items)
		return out
	}

	route := make([]Item, 0, len(items))
	route = append(route, items[startIdx])
	visited[startIdx] = true
	cur := items[startIdx].POI.Coordinate

	// The running clock only advances in timeline mode. The day starts
	// when the first stop opens.
	clock := 0.0
	if timeline {
		clock = float64(g.openMinute(items[startIdx].POI))
		clock += items[startIdx].WaitMinutes + g.cfg.DwellMinutes
	}

	for len(route) < len(items) {
		bestIdx := -1
		bestCost := 0.0
		bestAdvance := 0.0

		for i, it := range items {
			if visited[i] || !it.POI.Locatable() {
				continue
			}
			distKm := geo.HaversineKm(cur, it.POI.Coordinate)
			if distKm > mode.MaxLegKm() {
				continue
			}
			// Short legs are walked even for car and transit requests, so
			// price them at walking speed like the assembled itinerary does.
			travel := geo.TravelMinutes(distKm, geo.LegMode(distKm, mode))

			var cost float64
			if timeline {
				openWait := float64(g.openMinute(it.POI)) - (clock + travel)
				if openWait < 0 {
					openWait = 0
				}
				cost = travel + openWait + it.WaitMinutes + g.cfg.DwellMinutes
			} else {
				cost = travel + it.WaitMinutes
			}

			if bestIdx < 0 || cost < bestCost {
				bestIdx = i
				bestCost = cost
				bestAdvance = cost
			}
		}

		if bestIdx < 0 {
			break
		}
		route = append(route, items[bestIdx])
		visited[bestIdx] = true
		cur = items[bestIdx].POI.Coordinate
		if timeline {
			clock += bestAdvance
		}
	}

	if mode == geo.ModeWalk {
		// A walking course past its leg limit is not worth suggesting.
		return route
	}
	for i, it := range items {
		if !visited[i] {
			route = append(route, it)
		}
	}
	return route
}

// pickStart chooses the first stop: the earliest weekly opener in
// timeline mode, the item nearest the origin when one was given, else the
// best-ranked locatable item. Returns -1 when nothing is locatable.
func (g *Greedy) pickStart(items []Item, timeline bool, origin geo.Coordinate) int {
	if timeline {
		best, bestOpen := -1, 0
		for i, it := range items {
			if !it.POI.Locatable() {
				continue
			}
			open := g.openMinute(it.POI)
			if best < 0 || open < bestOpen {
				best, bestOpen = i, open
			}
		}
		return best
	}

	if origin.Valid() && !origin.IsZero() {
		best, bestDist := -1, 0.0
		for i, it := range items {
			if !it.POI.Locatable() {
				continue
			}
			d := geo.HaversineKm(origin, it.POI.Coordinate)
			if best < 0 || d < bestDist {
				best, bestDist = i, d
			}
		}
		return best
	}

	for i, it := range items {
		if it.POI.Locatable() {
			return i
		}
	}
	return -1
}

func (g *Greedy) openMinute(p *poi.POI) int {
	if open, ok := availability.EarliestOpenMinute(p); ok {
		return open
	}
	return int(g.cfg.DefaultOpenMinute)
}
