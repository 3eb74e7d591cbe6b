package timeutil

import "time"

// DateLayout is the date-only format accepted by report query parameters.
const DateLayout = "2006-01-02"

// ParseDate parses a date-only value at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// EndOfDayExclusive converts an inclusive date-only end bound into the
// exclusive instant at the following midnight. Report ranges treat their end
// as exclusive, so callers holding a user-supplied "through" date must pass
// it through here rather than guessing at microsecond offsets.
func EndOfDayExclusive(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, d.Location())
}
