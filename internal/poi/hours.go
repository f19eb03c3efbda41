package poi

import (
	"regexp"
	"strconv"
	"strings"
)

// The dataset stores each weekday's hours as a free-form string, e.g.
// "11:00 - 22:00 (21:15 라스트오더)" or "10시 30분 라스트오더". Closed days
// carry a closed marker instead of a range.
var (
	hoursRangeRe      = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})`)
	lastOrderClockRe  = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*라스트오더`)
	lastOrderKoreanRe = regexp.MustCompile(`(\d{1,2})\s*시\s*(\d{1,2})?\s*분?\s*라스트오더`)

	closedMarkers = []string{"휴무", "쉼", "휴점", "정기휴무"}
)

// ParseDayHours parses one weekday's raw hours string. ok is false for
// blank fields, closed days, and unparseable values; the caller treats all
// of those as "no entry", never as an error.
func ParseDayHours(field string) (DayHours, bool) {
	text := strings.TrimSpace(field)
	if text == "" {
		return DayHours{}, false
	}
	for _, marker := range closedMarkers {
		if strings.Contains(text, marker) {
			return DayHours{}, false
		}
	}

	m := hoursRangeRe.FindStringSubmatch(text)
	if m == nil {
		return DayHours{}, false
	}

	oh, _ := strconv.Atoi(m[1])
	om, _ := strconv.Atoi(m[2])
	ch, _ := strconv.Atoi(m[3])
	cm, _ := strconv.Atoi(m[4])

	// Some entries write midnight close as 24:00.
	if ch == 24 && cm == 0 {
		ch, cm = 23, 59
	}

	if !validClock(oh, om) || !validClock(ch, cm) {
		return DayHours{}, false
	}

	day := DayHours{
		Open:      NewTimeOfDay(oh, om),
		Close:     NewTimeOfDay(ch, cm),
		LastOrder: TimeNone,
	}

	if lo := lastOrderClockRe.FindStringSubmatch(text); lo != nil {
		lh, _ := strconv.Atoi(lo[1])
		lm, _ := strconv.Atoi(lo[2])
		if validClock(lh, lm) {
			day.LastOrder = NewTimeOfDay(lh, lm)
		}
	} else if lo := lastOrderKoreanRe.FindStringSubmatch(text); lo != nil {
		lh, _ := strconv.Atoi(lo[1])
		lm := 0
		if lo[2] != "" {
			lm, _ = strconv.Atoi(lo[2])
		}
		if validClock(lh, lm) {
			day.LastOrder = NewTimeOfDay(lh, lm)
		}
	}

	return day, true
}

// ParseWeeklyHours parses the seven raw weekday fields (Monday first) into a
// WeeklyHours. Returns nil when no weekday parses, which marks the POI as
// "unknown availability".
func ParseWeeklyHours(raw [7]string) *WeeklyHours {
	var weekly WeeklyHours
	hasAny := false
	for i, field := range raw {
		day, ok := ParseDayHours(field)
		if !ok {
			continue
		}
		d := day
		weekly.Days[i] = &d
		hasAny = true
	}
	if !hasAny {
		return nil
	}
	return &weekly
}

func validClock(h, m int) bool {
	return h >= 0 && h <= 23 && m >= 0 && m <= 59
}
