// Package ranking scores and orders POI candidates for recommendation:
// popularity-based for open-ended requests, keyword-intensity-based when
// the user asked for specific menu items, with extra filtering for
// bakery-tour requests.
package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/tastetrail/tastetrail/internal/poi"
	"github.com/tastetrail/tastetrail/internal/review"
)

// Config tunes the ranking engine. Zero values fall back to the defaults
// below.
type Config struct {
	// TopK is the number of candidates returned. Defaults to 10.
	TopK int

	// MinTourReviews is the review-count floor applied in tour mode.
	// Defaults to 200.
	MinTourReviews int

	// CoffeeDominanceRatio is the coffee-to-bakery mention ratio above
	// which a POI is treated as a coffee shop and cut from tours.
	// Defaults to 1.4.
	CoffeeDominanceRatio float64

	// FlagshipBonus is added to the score of known-brand POIs in tour
	// mode. Defaults to 0.5.
	FlagshipBonus float64

	// KnownBrands lists brand names used for the flagship bonus and as
	// preferred brand keys during de-duplication. May be empty; brand
	// keys then fall back to the first token of the POI name.
	KnownBrands []string

	// CoffeeSignal, BreadSignal and DessertSignal are the review
	// keywords consulted by the coffee-dominance cut. Defaults match the
	// Naver review keyword vocabulary.
	CoffeeSignal  string
	BreadSignal   string
	DessertSignal string
}

// Request describes one ranking invocation.
type Request struct {
	// Keywords are the menu keywords the user asked for; empty for
	// open-ended requests.
	Keywords []string

	// TourMode enables the bakery-tour filters: review floor, coffee
	// cut, flagship bonus and brand de-duplication.
	TourMode bool
}

// Candidate is one ranked POI with its score.
type Candidate struct {
	POI   *poi.POI
	Score float64

	// MenuMatched reports whether the POI matched at least one requested
	// keyword. Always false for open-ended requests.
	MenuMatched bool
}

// Engine ranks POI candidates against a review index.
type Engine struct {
	cfg   Config
	stats *review.Index
}

// NewEngine builds a ranking engine over the given review index.
func NewEngine(cfg Config, stats *review.Index) *Engine {
	if cfg.TopK == 0 {
		cfg.TopK = 10
	}
	if cfg.MinTourReviews == 0 {
		cfg.MinTourReviews = 200
	}
	if cfg.CoffeeDominanceRatio == 0 {
		cfg.CoffeeDominanceRatio = 1.4
	}
	if cfg.FlagshipBonus == 0 {
		cfg.FlagshipBonus = 0.5
	}
	if cfg.CoffeeSignal == "" {
		cfg.CoffeeSignal = "커피가 맛있어요"
	}
	if cfg.BreadSignal == "" {
		cfg.BreadSignal = "빵이 맛있어요"
	}
	if cfg.DessertSignal == "" {
		cfg.DessertSignal = "디저트가 맛있어요"
	}
	return &Engine{cfg: cfg, stats: stats}
}

// Rank scores the candidates and returns up to TopK of them, best first.
// Candidates matching a requested keyword always order above candidates
// that matched none.
func (e *Engine) Rank(candidates []*poi.POI, req Request) []Candidate {
	if len(candidates) == 0 {
		return nil
	}

	pool := candidates
	if len(req.Keywords) > 0 {
		pool = e.menuCut(pool, req.Keywords)
	}

	scored := make([]Candidate, 0, len(pool))
	for _, p := range pool {
		if p == nil {
			continue
		}
		scored = append(scored, e.score(p, req))
	}

	// Keyword matchers rank strictly above non-matchers regardless of
	// raw score.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].MenuMatched != scored[j].MenuMatched {
			return scored[i].MenuMatched
		}
		return scored[i].Score > scored[j].Score
	})

	if !req.TourMode {
		if len(scored) > e.cfg.TopK {
			scored = scored[:e.cfg.TopK]
		}
		return scored
	}
	return e.selectForTour(scored)
}

// menuMatchCount sums the positive-occurrence counts of the requested
// keywords in the POI's keyword statistics.
func menuMatchCount(p *poi.POI, keywords []string) int {
	total := 0
	for _, kw := range keywords {
		total += p.KeywordStats[kw]
	}
	return total
}

// menuCut drops candidates whose menu-match count falls below a threshold
// derived from the strongest match. Skipped when no candidate matches or
// when the cut would empty the pool.
func (e *Engine) menuCut(pool []*poi.POI, keywords []string) []*poi.POI {
	maxCount := 0
	counts := make([]int, len(pool))
	for i, p := range pool {
		if p == nil {
			continue
		}
		counts[i] = menuMatchCount(p, keywords)
		if counts[i] > maxCount {
			maxCount = counts[i]
		}
	}
	if maxCount <= 0 {
		return pool
	}

	threshold := int(math.Ceil(0.1 * float64(maxCount)))
	if threshold < 3 {
		threshold = 3
	}

	kept := make([]*poi.POI, 0, len(pool))
	for i, p := range pool {
		if p != nil && counts[i] >= threshold {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return pool
	}
	return kept
}

func (e *Engine) score(p *poi.POI, req Request) Candidate {
	cand := Candidate{POI: p}
	total := e.stats.TotalReviews(p.ID)
	reviewLog := math.Log10(float64(total) + 1)

	if len(req.Keywords) == 0 {
		cand.Score = review.PopularityScore(p, e.stats)
	} else {
		intensity := 0.0
		for _, kw := range req.Keywords {
			if c := p.KeywordStats[kw]; c > 0 {
				intensity += math.Log10(float64(c) + 1)
				cand.MenuMatched = true
			}
		}
		if cand.MenuMatched {
			cand.Score = 3.0*intensity + 0.5*p.Rating + 0.2*reviewLog
		} else {
			cand.Score = 0.5*p.Rating + 0.3*reviewLog
		}
	}

	if req.TourMode && e.isKnownBrand(p.Name) {
		cand.Score += e.cfg.FlagshipBonus
	}
	return cand
}

func (e *Engine) isKnownBrand(name string) bool {
	for _, brand := range e.cfg.KnownBrands {
		if brand != "" && strings.Contains(name, brand) {
			return true
		}
	}
	return false
}

// brandKey groups branches of the same brand: the first matching known
// brand name, else the first whitespace-delimited token of the name.
func (e *Engine) brandKey(name string) string {
	for _, brand := range e.cfg.KnownBrands {
		if brand != "" && strings.Contains(name, brand) {
			return brand
		}
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// coffeeDominant reports whether coffee mentions crowd out bread and
// dessert mentions enough to treat the POI as a coffee shop.
func (e *Engine) coffeeDominant(p *poi.POI) bool {
	coffee := e.stats.Count(p.ID, e.cfg.CoffeeSignal)
	if coffee <= 0 {
		return false
	}
	bread := e.stats.Count(p.ID, e.cfg.BreadSignal)
	dessert := e.stats.Count(p.ID, e.cfg.DessertSignal)
	mainSweet := bread
	if dessert > mainSweet {
		mainSweet = dessert
	}
	if mainSweet == 0 {
		return true
	}
	return float64(coffee)/float64(mainSweet) >= e.cfg.CoffeeDominanceRatio
}

// selectForTour applies the tour filters and brand de-duplication to an
// already sorted candidate list.
func (e *Engine) selectForTour(scored []Candidate) []Candidate {
	filtered := make([]Candidate, 0, len(scored))
	for _, c := range scored {
		if e.stats.TotalReviews(c.POI.ID) < e.cfg.MinTourReviews {
			continue
		}
		if e.coffeeDominant(c.POI) {
			continue
		}
		filtered = append(filtered, c)
	}
	// The cuts are advisory: when they leave too few places for a full
	// tour, recommend from the unfiltered list instead.
	if len(filtered) < e.cfg.TopK {
		filtered = scored
	}

	selected := make([]Candidate, 0, e.cfg.TopK)
	usedBrands := make(map[string]struct{})
	usedIDs := make(map[string]struct{})
	for _, c := range filtered {
		if len(selected) >= e.cfg.TopK {
			break
		}
		key := e.brandKey(c.POI.Name)
		if key != "" {
			if _, dup := usedBrands[key]; dup {
				continue
			}
			usedBrands[key] = struct{}{}
		}
		selected = append(selected, c)
		usedIDs[c.POI.ID] = struct{}{}
	}

	// Refill allowing brand repeats when unique brands alone cannot fill
	// the tour.
	if len(selected) < e.cfg.TopK {
		for _, c := range filtered {
			if len(selected) >= e.cfg.TopK {
				break
			}
			if _, taken := usedIDs[c.POI.ID]; taken {
				continue
			}
			selected = append(selected, c)
			usedIDs[c.POI.ID] = struct{}{}
		}
	}
	return selected
}
