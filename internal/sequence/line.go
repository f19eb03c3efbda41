package sequence

import (
	"sort"

	"github.com/tastetrail/tastetrail/internal/geo"
)

// Station is one stop on a fixed transit line, in line order.
type Station struct {
	Name       string
	Coordinate geo.Coordinate
}

// Line is an ordered sequence of stations.
type Line struct {
	Name     string
	Stations []Station
}

// LineConfig tunes the fixed-line interval selector. Zero values fall
// back to the defaults below.
type LineConfig struct {
	// MaxWalkMinutes bounds the walk from a station to a POI; farther
	// POIs are excluded from line-bound routing. Defaults to 20.
	MaxWalkMinutes float64

	// PerStationCap limits how many POIs one station contributes.
	// Defaults to 3.
	PerStationCap int

	// MaxStops limits the total itinerary size. Defaults to 10.
	MaxStops int
}

// Placed is an item assigned to a station on the line. StationIndex is -1
// when the item comes from the score-order fallback.
type Placed struct {
	Item
	StationIndex int
}

// LineSelector builds itineraries along a fixed transit line by choosing
// the contiguous station interval with the highest summed candidate
// score.
type LineSelector struct {
	cfg  LineConfig
	line Line
}

// NewLineSelector builds a selector for the given line.
func NewLineSelector(cfg LineConfig, line Line) *LineSelector {
	if cfg.MaxWalkMinutes == 0 {
		cfg.MaxWalkMinutes = 20
	}
	if cfg.PerStationCap == 0 {
		cfg.PerStationCap = 3
	}
	if cfg.MaxStops == 0 {
		cfg.MaxStops = 10
	}
	return &LineSelector{cfg: cfg, line: line}
}

// Station returns the line's station at the given index.
func (s *LineSelector) Station(index int) (Station, bool) {
	if index < 0 || index >= len(s.line.Stations) {
		return Station{}, false
	}
	return s.line.Stations[index], true
}

// Sequence picks the best contiguous station interval and returns its
// candidates sorted by station index, ties broken by descending score.
// When no candidate reaches any station, the input is returned in score
// order instead, truncated to the configured size.
func (s *LineSelector) Sequence(items []Item) []Placed {
	if len(items) == 0 {
		return nil
	}

	buckets := s.bucketByStation(items)
	best := s.bestInterval(buckets)
	if len(best) == 0 {
		return s.fallback(items)
	}

	sort.SliceStable(best, func(i, j int) bool {
		if best[i].StationIndex != best[j].StationIndex {
			return best[i].StationIndex < best[j].StationIndex
		}
		return best[i].Score > best[j].Score
	})
	return best
}

// bucketByStation assigns every locatable item to its nearest station
// within walking reach, keeping at most PerStationCap per station by
// score.
func (s *LineSelector) bucketByStation(items []Item) map[int][]Placed {
	buckets := make(map[int][]Placed)
	for _, it := range items {
		if !it.POI.Locatable() {
			continue
		}
		idx, distKm := s.nearestStation(it.POI.Coordinate)
		if idx < 0 {
			continue
		}
		if geo.TravelMinutes(distKm, geo.ModeWalk) > s.cfg.MaxWalkMinutes {
			continue
		}
		buckets[idx] = append(buckets[idx], Placed{Item: it, StationIndex: idx})
	}
	for idx, bucket := range buckets {
		sort.SliceStable(bucket, func(i, j int) bool { return bucket[i].Score > bucket[j].Score })
		if len(bucket) > s.cfg.PerStationCap {
			bucket = bucket[:s.cfg.PerStationCap]
		}
		buckets[idx] = bucket
	}
	return buckets
}

func (s *LineSelector) nearestStation(c geo.Coordinate) (int, float64) {
	best, bestDist := -1, 0.0
	for i, st := range s.line.Stations {
		d := geo.HaversineKm(c, st.Coordinate)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// bestInterval brute-forces every contiguous [lo, hi] station interval.
// The line is short, so the quadratic scan is fine.
func (s *LineSelector) bestInterval(buckets map[int][]Placed) []Placed {
	n := len(s.line.Stations)
	var best []Placed
	bestSum := 0.0

	for lo := 0; lo < n; lo++ {
		for hi := lo; hi < n; hi++ {
			var pool []Placed
			for idx := lo; idx <= hi; idx++ {
				pool = append(pool, buckets[idx]...)
			}
			if len(pool) == 0 {
				continue
			}
			sort.SliceStable(pool, func(i, j int) bool { return pool[i].Score > pool[j].Score })
			if len(pool) > s.cfg.MaxStops {
				pool = pool[:s.cfg.MaxStops]
			}
			sum := 0.0
			for _, p := range pool {
				sum += p.Score
			}
			if best == nil || sum > bestSum {
				best = pool
				bestSum = sum
			}
		}
	}
	return best
}

func (s *LineSelector) fallback(items []Item) []Placed {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	if len(sorted) > s.cfg.MaxStops {
		sorted = sorted[:s.cfg.MaxStops]
	}
	out := make([]Placed, len(sorted))
	for i, it := range sorted {
		out[i] = Placed{Item: it, StationIndex: -1}
	}
	return out
}
