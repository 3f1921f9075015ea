// Package dates holds the lenient date handling shared by records, overdue
// detection and reporting. Stored dates are strings; anything unreadable is
// treated as "now".
package dates

import (
	"strings"
	"time"
)

const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// zoned layouts carry their own offset; the rest are read in the caller's location.
var (
	zonedLayouts = []string{time.RFC3339Nano, time.RFC3339}
	localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02"}
)

// ISO formats t the way records store timestamps: UTC, millisecond precision.
func ISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// Day formats t as a date-only value in its own location.
func Day(t time.Time) string {
	return t.Format("2006-01-02")
}

// Parse reads s in any accepted layout. Date-only and zone-less values are
// taken as wall time in loc.
func Parse(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Safe parses s in now's location and substitutes now when it cannot.
func Safe(s string, now time.Time) time.Time {
	if t, ok := Parse(s, now.Location()); ok {
		return t
	}
	return now
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DaysBetween counts calendar days from a to b in a's location, ignoring the
// time of day. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
