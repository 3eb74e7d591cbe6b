package leadtime

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopmetrics/ybscontrol/internal/domain/models"
	"github.com/shopmetrics/ybscontrol/internal/timeutil"
)

// Compute turns each order's ordered step list into lead-time entries.
//
// Consecutive step pairs are walked in the supplied order; a pair is skipped
// when either step has no timestamp yet. The optional range bounds apply a
// full-exclusion test: a pair whose start precedes rangeStart, or whose end
// exceeds rangeEnd, is dropped whole rather than clipped. That differs
// deliberately from the production report's clip-and-scale policy; callers
// wanting partial credit for boundary-straddling intervals belong there.
//
// Each surviving pair yields an entry named after the second step, covering
// the first step's timestamp through the second's, with business hours from
// the calendar snapshot passed in. Malformed step data never errors; steps
// without timestamps are simply excluded.
func Compute(cal timeutil.Calendar, jobs map[string][]models.Step, rangeStart, rangeEnd *time.Time) map[string][]models.LeadTimeEntry {
	results := make(map[string][]models.LeadTimeEntry, len(jobs))
	for order, steps := range jobs {
		entries := make([]models.LeadTimeEntry, 0, len(steps))
		for i := 0; i+1 < len(steps); i++ {
			start, end := steps[i].Timestamp, steps[i+1].Timestamp
			if start == nil || end == nil {
				continue
			}
			if rangeStart != nil && start.Before(*rangeStart) {
				continue
			}
			if rangeEnd != nil && end.After(*rangeEnd) {
				continue
			}
			entries = append(entries, models.LeadTimeEntry{
				Workstation: steps[i+1].Name,
				Start:       *start,
				End:         *end,
				Hours:       timeutil.Hours(timeutil.Delta(cal, *start, *end)),
			})
		}
		results[order] = entries
	}
	return results
}

// BreakdownEntry pairs a lead-time entry with the business-hour segments it
// was summed from.
type BreakdownEntry struct {
	models.LeadTimeEntry
	Segments []timeutil.Segment
}

// ComputeWithBreakdown is Compute plus the per-entry segment lists, for
// callers that present the sub-day composition of each queue time.
func ComputeWithBreakdown(cal timeutil.Calendar, jobs map[string][]models.Step, rangeStart, rangeEnd *time.Time) map[string][]BreakdownEntry {
	results := make(map[string][]BreakdownEntry, len(jobs))
	for order, entries := range Compute(cal, jobs, rangeStart, rangeEnd) {
		detailed := make([]BreakdownEntry, 0, len(entries))
		for _, e := range entries {
			detailed = append(detailed, BreakdownEntry{
				LeadTimeEntry: e,
				Segments:      timeutil.Segments(cal, e.Start, e.End),
			})
		}
		results[order] = detailed
	}
	return results
}

// FormatBreakdown renders one entry's segments as a human-readable listing.
func FormatBreakdown(order, workstation string, segments []timeutil.Segment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Breakdown for job %s step %s:", order, workstation)
	for _, seg := range segments {
		fmt.Fprintf(&b, "\n  %s -> %s (%.2fh)",
			seg.Start.Format("2006-01-02 15:04"),
			seg.End.Format("2006-01-02 15:04"),
			timeutil.Hours(seg.Duration()))
	}
	return b.String()
}
