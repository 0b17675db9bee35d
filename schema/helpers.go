package schema

import (
	"fmt"
	"time"
)

// DateLayout is the canonical day key format.
const DateLayout = "2006-01-02"

// WeekKey returns the ISO "YYYY-Www" bucket for a timestamp.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// DayKey returns the "YYYY-MM-DD" bucket for a timestamp.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekdayIndex maps time.Weekday onto a Monday-first index, 0 through 6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// IsWeekend reports whether the timestamp falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	idx := WeekdayIndex(t)
	return idx == 5 || idx == 6
}

// IsLateNight reports whether the timestamp's hour counts as late-night work.
func IsLateNight(t time.Time) bool {
	h := t.Hour()
	return h >= LateNightStart || h < EarlyMorningEnd
}
