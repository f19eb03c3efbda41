// Package poi defines the point-of-interest data model and the dataset
// repositories that load it. The dataset is loaded once at startup; every
// structure here is read-only afterwards.
package poi

import (
	"fmt"
	"time"

	"github.com/tastetrail/tastetrail/internal/geo"
)

// TimeOfDay is a clock time expressed as minutes since midnight.
// TimeNone marks an absent value.
type TimeOfDay int

// TimeNone is the absent-time sentinel.
const TimeNone TimeOfDay = -1

// NewTimeOfDay builds a TimeOfDay from hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// IsSet reports whether the value holds an actual clock time.
func (t TimeOfDay) IsSet() bool { return t >= 0 }

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// String renders the time as HH:MM, or "-" when unset.
func (t TimeOfDay) String() string {
	if !t.IsSet() {
		return "-"
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// DayHours is one weekday's business-hours entry.
type DayHours struct {
	Open      TimeOfDay
	Close     TimeOfDay
	LastOrder TimeOfDay // TimeNone when the shop has no last-order cutoff
}

// EffectiveClose is the last moment an order is accepted: the last-order
// time when present, otherwise the closing time.
func (d DayHours) EffectiveClose() TimeOfDay {
	if d.LastOrder.IsSet() {
		return d.LastOrder
	}
	return d.Close
}

// WeeklyHours maps weekday index (0=Monday .. 6=Sunday) to the day's hours.
// A nil day means no information for that weekday (treated as closed).
type WeeklyHours struct {
	Days [7]*DayHours
}

// HasAny reports whether at least one weekday carries an entry.
func (w *WeeklyHours) HasAny() bool {
	if w == nil {
		return false
	}
	for _, d := range w.Days {
		if d != nil {
			return true
		}
	}
	return false
}

// ReviewKeyword is one aggregated review phrase with its occurrence count.
type ReviewKeyword struct {
	Keyword string
	Count   int
}

// DayWait holds predicted wait minutes for one weekday.
type DayWait struct {
	AvgMinutes    float64 // weekday-level average; 0 when unknown
	LunchMinutes  float64 // 10:00-15:00 band; 0 when unknown
	DinnerMinutes float64 // 17:00-21:00 band; 0 when unknown
}

// WaitPrediction is the per-POI wait-time prediction table.
type WaitPrediction struct {
	// Days is indexed 0=Monday .. 6=Sunday; nil when the weekday has no
	// prediction.
	Days [7]*DayWait

	// OverallAvgMinutes is the all-days fallback average; 0 when unknown.
	OverallAvgMinutes float64
}

// POI is one recommendable location.
type POI struct {
	// ID is the stable dataset identifier (the English slug when present,
	// otherwise the name).
	ID string

	// Name is the display name.
	Name string

	// Coordinate is the location; the zero value means "unlocatable" and
	// excludes the POI from distance-based steps.
	Coordinate geo.Coordinate

	// Rating is the 0-5 normalized rating; 0 means unknown.
	Rating float64

	// Hours is the parsed weekly schedule; nil when the dataset carried no
	// parseable hours, in which case availability is always unknown.
	Hours *WeeklyHours

	// ReviewKeywords are the aggregated review phrases, highest count first.
	ReviewKeywords []ReviewKeyword

	// KeywordStats maps a menu keyword to its positive-occurrence count.
	KeywordStats map[string]int

	// Keywords are the curated menu keywords for the POI.
	Keywords []string

	// WaitPrediction is the wait-time table; nil when absent.
	WaitPrediction *WaitPrediction

	// RoadAddress and District are display metadata.
	RoadAddress string
	District    string
}

// Locatable reports whether the POI has usable coordinates.
func (p *POI) Locatable() bool {
	return !p.Coordinate.IsZero() && p.Coordinate.Valid()
}

// WeekdayIndex maps a calendar date to the dataset's weekday indexing
// (0=Monday .. 6=Sunday).
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
