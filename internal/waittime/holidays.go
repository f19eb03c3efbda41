package waittime

import "time"

// monthDay identifies a fixed solar-calendar date.
type monthDay struct {
	Month time.Month
	Day   int
}

// solarHolidays lists the Korean public holidays that fall on fixed solar
// dates. Lunar holidays (Seollal, Chuseok, Buddha's Birthday) shift every
// year and are not modelled; waits around those dates are underestimated.
var solarHolidays = map[monthDay]struct{}{
	{time.January, 1}:   {}, // New Year's Day
	{time.March, 1}:     {}, // Independence Movement Day
	{time.May, 5}:       {}, // Children's Day
	{time.June, 6}:      {}, // Memorial Day
	{time.August, 15}:   {}, // Liberation Day
	{time.October, 3}:   {}, // National Foundation Day
	{time.October, 9}:   {}, // Hangul Day
	{time.December, 25}: {}, // Christmas Day
}

// IsHoliday reports whether the date is a fixed solar-calendar public
// holiday.
func IsHoliday(t time.Time) bool {
	_, ok := solarHolidays[monthDay{t.Month(), t.Day()}]
	return ok
}
