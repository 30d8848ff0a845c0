package match

import (
	"strings"
	"time"
)

const dayFormat = "2006-01-02"

// DedupKey identifies a fixture across sources on a given day using
// the home side's name. The away side is deliberately left out: feeds
// disagree on away spellings far more often than on home ones, and a
// looser key suppresses more duplicates than it loses.
func DedupKey(homeTeamName string, day time.Time) string {
	return strings.ToLower(homeTeamName) + "|" + day.Format(dayFormat)
}

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayWindow returns the half-open interval [midnight, next midnight)
// that contains t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := DayStart(t)
	return start, start.Add(24 * time.Hour)
}
