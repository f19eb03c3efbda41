// Package availability evaluates POI business hours against a requested
// visit window.
package availability

import (
	"time"

	"github.com/tastetrail/tastetrail/internal/poi"
)

// Constraint describes the requested visiting window, as produced by the
// upstream date/time extractor. At most one of {explicit date range,
// explicit times, UseNow} drives evaluation; UseNow is mutually exclusive
// with an explicit date range.
type Constraint struct {
	// HasDateRange indicates StartDate/EndDate are meaningful.
	HasDateRange bool

	// StartDate and EndDate bound the visit (inclusive). Only the date
	// parts are used.
	StartDate time.Time
	EndDate   time.Time

	// StartTime and EndTime bound the time of day; poi.TimeNone when the
	// side is open-ended.
	StartTime poi.TimeOfDay
	EndTime   poi.TimeOfDay

	// UseNow means "no date or time was given, treat the request as
	// happening right now".
	UseNow bool
}

// Unconstrained returns the all-defaults constraint (no date range, no
// times, not "now").
func Unconstrained() Constraint {
	return Constraint{StartTime: poi.TimeNone, EndTime: poi.TimeNone}
}

// HasTime reports whether either side of the time-of-day window is set.
func (c Constraint) HasTime() bool {
	return c.StartTime.IsSet() || c.EndTime.IsSet()
}

// Timeline reports whether the request is a free-form "build me a day"
// request: no dates, no times, and no "now" intent. The greedy sequencer
// uses this to switch into timeline mode.
func (c Constraint) Timeline() bool {
	return !c.HasDateRange && !c.HasTime() && !c.UseNow
}

// ReferenceInstant resolves the date and time the wait-time estimator
// weights against: the range start when a date range exists, the current
// instant when UseNow is set, otherwise nothing.
func (c Constraint) ReferenceInstant(now time.Time) (date time.Time, tod poi.TimeOfDay, ok bool) {
	if c.HasDateRange && !c.StartDate.IsZero() {
		tod := c.StartTime
		if !tod.IsSet() {
			tod = c.EndTime
		}
		return c.StartDate, tod, true
	}
	if c.UseNow {
		return now, poi.NewTimeOfDay(now.Hour(), now.Minute()), true
	}
	return time.Time{}, poi.TimeNone, false
}
