// Package waittime estimates expected queueing time at a POI from its
// historical wait predictions, weighted for weekends, public holidays and
// review volume.
package waittime

import (
	"time"

	"github.com/tastetrail/tastetrail/internal/availability"
	"github.com/tastetrail/tastetrail/internal/poi"
	"github.com/tastetrail/tastetrail/internal/review"
)

// EstimatorConfig tunes the wait estimator. Zero values fall back to the
// defaults below.
type EstimatorConfig struct {
	// LunchStart/LunchEnd bound the lunch band, end exclusive.
	// Defaults to 10:00-15:00.
	LunchStart poi.TimeOfDay
	LunchEnd   poi.TimeOfDay

	// DinnerStart/DinnerEnd bound the dinner band, end exclusive.
	// Defaults to 17:00-21:00.
	DinnerStart poi.TimeOfDay
	DinnerEnd   poi.TimeOfDay

	// WeekendFactor multiplies the base wait on Saturdays and Sundays.
	// Defaults to 1.2.
	WeekendFactor float64

	// HolidayFactor multiplies the base wait on public holidays.
	// Defaults to 1.3.
	HolidayFactor float64

	// Now supplies the current instant for "right now" requests.
	Now func() time.Time
}

// reviewTier maps a minimum review volume to a crowd factor. Only the
// highest matching tier applies.
type reviewTier struct {
	MinReviews int
	Factor     float64
}

var reviewTiers = []reviewTier{
	{MinReviews: 2000, Factor: 1.3},
	{MinReviews: 1000, Factor: 1.2},
	{MinReviews: 500, Factor: 1.1},
}

// Estimator computes expected wait minutes for a POI.
type Estimator struct {
	cfg   EstimatorConfig
	stats *review.Index
}

// NewEstimator builds an estimator over the given review index.
func NewEstimator(cfg EstimatorConfig, stats *review.Index) *Estimator {
	if !cfg.LunchStart.IsSet() || cfg.LunchStart == 0 {
		cfg.LunchStart = poi.NewTimeOfDay(10, 0)
	}
	if !cfg.LunchEnd.IsSet() || cfg.LunchEnd == 0 {
		cfg.LunchEnd = poi.NewTimeOfDay(15, 0)
	}
	if !cfg.DinnerStart.IsSet() || cfg.DinnerStart == 0 {
		cfg.DinnerStart = poi.NewTimeOfDay(17, 0)
	}
	if !cfg.DinnerEnd.IsSet() || cfg.DinnerEnd == 0 {
		cfg.DinnerEnd = poi.NewTimeOfDay(21, 0)
	}
	if cfg.WeekendFactor == 0 {
		cfg.WeekendFactor = 1.2
	}
	if cfg.HolidayFactor == 0 {
		cfg.HolidayFactor = 1.3
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Estimator{cfg: cfg, stats: stats}
}

// ExpectedWaitMinutes estimates the wait at p for the given visit
// constraint. POIs without wait predictions, and POIs whose resolved base
// wait is zero, estimate to zero regardless of weighting.
func (e *Estimator) ExpectedWaitMinutes(p *poi.POI, c availability.Constraint) float64 {
	if p == nil || p.WaitPrediction == nil {
		return 0
	}
	wp := p.WaitPrediction

	date, tod, ok := c.ReferenceInstant(e.cfg.Now())
	if !ok {
		// No usable date: the overall average with only the review tier,
		// as weekend and holiday weights require a concrete date.
		if wp.OverallAvgMinutes <= 0 {
			return 0
		}
		return wp.OverallAvgMinutes * e.reviewFactor(p)
	}

	base := e.baseMinutes(wp, poi.WeekdayIndex(date), tod)
	if base <= 0 {
		return 0
	}

	factor := 1.0
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		factor *= e.cfg.WeekendFactor
	}
	if IsHoliday(date) {
		factor *= e.cfg.HolidayFactor
	}
	factor *= e.reviewFactor(p)
	return base * factor
}

// reviewFactor is the review-volume weight for p, highest matching tier
// only.
func (e *Estimator) reviewFactor(p *poi.POI) float64 {
	if e.stats == nil {
		return 1
	}
	total := e.stats.TotalReviews(p.ID)
	for _, tier := range reviewTiers {
		if total >= tier.MinReviews {
			return tier.Factor
		}
	}
	return 1
}

// baseMinutes resolves the base wait for a weekday and time of day:
// the matching meal band first, then the weekday average, then the
// overall average.
func (e *Estimator) baseMinutes(wp *poi.WaitPrediction, weekday int, tod poi.TimeOfDay) float64 {
	if day := wp.Days[weekday]; day != nil {
		if tod.IsSet() {
			switch {
			case tod >= e.cfg.LunchStart && tod < e.cfg.LunchEnd:
				if day.LunchMinutes > 0 {
					return day.LunchMinutes
				}
			case tod >= e.cfg.DinnerStart && tod < e.cfg.DinnerEnd:
				if day.DinnerMinutes > 0 {
					return day.DinnerMinutes
				}
			}
		}
		if day.AvgMinutes > 0 {
			return day.AvgMinutes
		}
	}
	return wp.OverallAvgMinutes
}
