package timeutil

import "time"

// Segment is one contiguous span that falls entirely inside a single
// weekday's business window. Start is strictly before End.
type Segment struct {
	Start time.Time
	End   time.Time
}

// Duration returns the segment's length.
func (s Segment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// nextBusinessStart steps one calendar day forward and snaps to the window
// start. It does not skip weekends on its own; Segments keeps calling it
// until the cursor lands on a weekday.
func nextBusinessStart(cal Calendar, t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, cal.Start.Hour, cal.Start.Minute, 0, 0, t.Location())
}

// Segments returns the business-hour spans between start and end under cal.
//
// The cursor walks day by day: weekends advance straight to the next day's
// window start, a cursor before the day's opening snaps forward to it, a
// cursor at or past closing skips the day, and each emitted segment ends at
// the earlier of the day's closing and end. The cursor advances at least one
// calendar day per iteration, so the walk is O(days) and always terminates.
// An empty slice is returned when start is not before end.
func Segments(cal Calendar, start, end time.Time) []Segment {
	var segments []Segment
	current := start
	for current.Before(end) {
		if wd := current.Weekday(); wd == time.Saturday || wd == time.Sunday {
			current = nextBusinessStart(cal, current)
			continue
		}

		dayStart := cal.Start.on(current)
		dayEnd := cal.End.on(current)

		if current.Before(dayStart) {
			current = dayStart
		}
		if !current.Before(dayEnd) {
			current = nextBusinessStart(cal, current)
			continue
		}

		segEnd := dayEnd
		if end.Before(dayEnd) {
			segEnd = end
		}
		if segEnd.After(current) {
			segments = append(segments, Segment{Start: current, End: segEnd})
		}
		current = nextBusinessStart(cal, current)
	}
	return segments
}

// Delta returns the total business time between start and end: the summed
// duration of every segment. Zero when start is not before end.
func Delta(cal Calendar, start, end time.Time) time.Duration {
	if !start.Before(end) {
		return 0
	}
	var total time.Duration
	for _, seg := range Segments(cal, start, end) {
		total += seg.Duration()
	}
	return total
}

// Hours converts a duration to fractional hours. Summation happens at full
// precision; rounding belongs to the presentation layer.
func Hours(d time.Duration) float64 {
	return d.Seconds() / 3600
}
