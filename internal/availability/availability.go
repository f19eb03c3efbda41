package availability

import (
	"time"

	"github.com/tastetrail/tastetrail/internal/poi"
)

// IsOpenAt reports whether the POI accepts orders at the given instant.
// POIs without hours information are never asserted open.
func IsOpenAt(p *poi.POI, at time.Time) bool {
	if p == nil || !p.Hours.HasAny() {
		return false
	}
	day := p.Hours.Days[poi.WeekdayIndex(at)]
	if day == nil {
		return false
	}
	current := poi.NewTimeOfDay(at.Hour(), at.Minute())
	return day.Open <= current && current <= day.EffectiveClose()
}

// AvailableInPeriod reports whether the POI is open at some point inside
// the constraint's window. When the constraint carries an explicit date
// range and the feasible date is the range's final day, the day's effective
// close is returned so callers can warn about an early last order;
// otherwise lastDayClose is poi.TimeNone.
func AvailableInPeriod(p *poi.POI, c Constraint) (bool, poi.TimeOfDay) {
	if p == nil || !p.Hours.HasAny() {
		return false, poi.TimeNone
	}

	if !c.HasDateRange {
		if !c.HasTime() {
			// Nothing to filter on.
			return true, poi.TimeNone
		}
		// Weekly pattern only: any weekday whose interval overlaps the
		// requested time window makes the POI feasible. There is no "last
		// day" without a date range.
		for wd := 0; wd < 7; wd++ {
			day := p.Hours.Days[wd]
			if day == nil {
				continue
			}
			if overlaps(day, c.StartTime, c.EndTime) {
				return true, poi.TimeNone
			}
		}
		return false, poi.TimeNone
	}

	// Explicit date range: walk calendar dates, resolve each weekday.
	// Dates without an entry are closed days, not errors.
	start := dateOnly(c.StartDate)
	end := dateOnly(c.EndDate)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := p.Hours.Days[poi.WeekdayIndex(d)]
		if day == nil {
			continue
		}
		if !c.HasTime() || overlaps(day, c.StartTime, c.EndTime) {
			lastDayClose := poi.TimeNone
			if d.Equal(end) {
				lastDayClose = day.EffectiveClose()
			}
			return true, lastDayClose
		}
	}
	return false, poi.TimeNone
}

// overlaps tests the day's [open, effectiveClose] interval against the
// requested time window, relaxing whichever side is absent.
func overlaps(day *poi.DayHours, start, end poi.TimeOfDay) bool {
	closeAt := day.EffectiveClose()
	switch {
	case start.IsSet() && end.IsSet():
		return day.Open <= end && closeAt >= start
	case start.IsSet():
		return closeAt >= start
	case end.IsSet():
		return day.Open <= end
	default:
		return true
	}
}

// EarliestOpenMinute returns the smallest opening minute across the week,
// used to pick the first stop of a free-form day course. ok is false when
// the POI has no hours.
func EarliestOpenMinute(p *poi.POI) (int, bool) {
	if p == nil || !p.Hours.HasAny() {
		return 0, false
	}
	earliest := -1
	for _, day := range p.Hours.Days {
		if day == nil {
			continue
		}
		m := int(day.Open)
		if earliest < 0 || m < earliest {
			earliest = m
		}
	}
	if earliest < 0 {
		return 0, false
	}
	return earliest, true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FilterOpenAt keeps the POIs open at the given instant.
func FilterOpenAt(pois []*poi.POI, at time.Time) []*poi.POI {
	kept := make([]*poi.POI, 0, len(pois))
	for _, p := range pois {
		if IsOpenAt(p, at) {
			kept = append(kept, p)
		}
	}
	return kept
}

// FilterAvailable keeps the POIs feasible for the constraint and returns
// the per-POI last-day effective close for those on an explicit range's
// final day.
func FilterAvailable(pois []*poi.POI, c Constraint) ([]*poi.POI, map[string]poi.TimeOfDay) {
	kept := make([]*poi.POI, 0, len(pois))
	lastDayClose := make(map[string]poi.TimeOfDay)
	for _, p := range pois {
		ok, closeAt := AvailableInPeriod(p, c)
		if !ok {
			continue
		}
		kept = append(kept, p)
		if closeAt.IsSet() {
			lastDayClose[p.ID] = closeAt
		}
	}
	return kept, lastDayClose
}
