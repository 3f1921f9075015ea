package dates

import "time"

type Preset string

const (
	ThisMonth  Preset = "thisMonth"
	ThisYear   Preset = "thisYear"
	Last30Days Preset = "last30Days"
)

// Range is inclusive on both ends.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// PresetRange resolves a named window relative to now. Unknown presets fall
// back to the current month.
func PresetRange(p Preset, now time.Time) Range {
	switch p {
	case ThisYear:
		return Range{
			Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()),
			End:   EndOfDay(time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())),
		}
	case Last30Days:
		return Range{Start: StartOfDay(now.AddDate(0, 0, -30)), End: EndOfDay(now)}
	default:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Range{Start: first, End: EndOfDay(first.AddDate(0, 1, -1))}
	}
}

// CustomRange widens the given bounds to whole days in loc. Either bound may
// be empty, leaving that side open.
func CustomRange(start, end string, now time.Time) Range {
	r := Range{Start: time.Time{}, End: time.Date(9999, 12, 31, 0, 0, 0, 0, now.Location())}
	if t, ok := Parse(start, now.Location()); ok {
		r.Start = StartOfDay(t.In(now.Location()))
	}
	if t, ok := Parse(end, now.Location()); ok {
		r.End = EndOfDay(t.In(now.Location()))
	}
	return r
}
