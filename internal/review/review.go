// Package review aggregates per-POI review keyword statistics. The index is
// built once at startup and read concurrently without locking.
package review

import (
	"math"

	"github.com/tastetrail/tastetrail/internal/poi"
)

// Stats holds one POI's aggregated review numbers.
type Stats struct {
	// Total is the summed occurrence count across all review keywords,
	// used as the POI's review volume.
	Total int

	// Counts maps review keyword to its occurrence count.
	Counts map[string]int
}

// Index is the read-only review statistics lookup, keyed by POI ID.
type Index struct {
	stats map[string]Stats
}

// BuildIndex aggregates review keywords for every POI.
func BuildIndex(pois []*poi.POI) *Index {
	idx := &Index{stats: make(map[string]Stats, len(pois))}
	for _, p := range pois {
		if p == nil || p.ID == "" {
			continue
		}
		s := Stats{Counts: make(map[string]int, len(p.ReviewKeywords))}
		for _, rk := range p.ReviewKeywords {
			if rk.Keyword == "" {
				continue
			}
			s.Counts[rk.Keyword] = rk.Count
			s.Total += rk.Count
		}
		idx.stats[p.ID] = s
	}
	return idx
}

// Lookup returns the stats for a POI; zero stats when unknown.
func (i *Index) Lookup(id string) Stats {
	if i == nil {
		return Stats{}
	}
	return i.stats[id]
}

// TotalReviews returns the POI's review volume.
func (i *Index) TotalReviews(id string) int {
	return i.Lookup(id).Total
}

// Count returns the occurrence count of one review keyword for a POI.
func (i *Index) Count(id, keyword string) int {
	return i.Lookup(id).Counts[keyword]
}

// Size returns the number of indexed POIs.
func (i *Index) Size() int {
	if i == nil {
		return 0
	}
	return len(i.stats)
}

// maxReviewsNorm is the review volume treated as "maximal" when log-scaling
// popularity.
const maxReviewsNorm = 50000.0

// PopularityScore blends rating and review volume into a 0-10 score.
// Unknown ratings contribute a neutral 0.5; review volume is log-scaled
// against a 50k ceiling.
func PopularityScore(p *poi.POI, idx *Index) float64 {
	ratingNorm := 0.5
	if p.Rating > 0 {
		ratingNorm = p.Rating / 5.0
	}

	total := idx.TotalReviews(p.ID)
	reviewNorm := math.Log10(float64(total)+1) / math.Log10(maxReviewsNorm+1)

	return 10.0 * (0.6*ratingNorm + 0.4*reviewNorm)
}
