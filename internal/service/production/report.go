package production

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopmetrics/ybscontrol/internal/domain/models"
)

var (
	// ErrInvalidRange is returned when the report end precedes its start.
	ErrInvalidRange = errors.New("report range end before start")
	// ErrRangeTooLarge is returned when the requested span exceeds the
	// configured maximum. It is a cost guard, not a correctness rule.
	ErrRangeTooLarge = errors.New("report range exceeds maximum span")
)

// DefaultMaxRangeDays caps report spans unless overridden.
const DefaultMaxRangeDays = 31

// Options tune report generation.
type Options struct {
	// Timezone is the IANA zone used for clipping math and the detail
	// timestamps. Empty means UTC. Totals and summaries are durations and
	// therefore zone-independent.
	Timezone string
	// MaxRangeDays overrides DefaultMaxRangeDays when positive.
	MaxRangeDays int
}

// Generate aggregates events into per-order and per-workstation totals over
// [start, end). The end bound is exclusive.
//
// Events with no overlap contribute nothing. Overlapping events are clipped
// to the window: precomputed hours are scaled by the clipped fraction of the
// event's wall-clock span (a linear apportionment, not a recomputation),
// while events without precomputed hours contribute their clipped wall-clock
// duration. Clips that come out non-positive are dropped. Rounding to two
// decimals happens on full-precision sums, never on sums of rounded values.
func Generate(events []models.ProductionEvent, start, end time.Time, opts Options) (*models.ProductionReport, error) {
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	maxDays := opts.MaxRangeDays
	if maxDays <= 0 {
		maxDays = DefaultMaxRangeDays
	}
	if end.Sub(start) > time.Duration(maxDays)*24*time.Hour {
		return nil, fmt.Errorf("%w: %d days maximum", ErrRangeTooLarge, maxDays)
	}

	tzName := opts.Timezone
	if tzName == "" {
		tzName = "UTC"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("load report timezone %q: %w", tzName, err)
	}

	rangeStart := start.In(loc)
	rangeEnd := end.In(loc)

	byOrder := make(map[string]map[string]float64)
	totals := make(map[string]float64)
	var details []models.ReportDetail

	for _, ev := range events {
		evStart := ev.StartTime.In(loc)
		evEnd := ev.EndTime.In(loc)

		// Zero overlap is the one case excluded outright.
		if !evEnd.After(rangeStart) || !evStart.Before(rangeEnd) {
			continue
		}

		clippedStart := evStart
		if clippedStart.Before(rangeStart) {
			clippedStart = rangeStart
		}
		clippedEnd := evEnd
		if clippedEnd.After(rangeEnd) {
			clippedEnd = rangeEnd
		}

		hours := clippedHours(ev, clippedEnd.Sub(clippedStart))
		if hours <= 0 {
			continue
		}

		ws := byOrder[ev.OrderID]
		if ws == nil {
			ws = make(map[string]float64)
			byOrder[ev.OrderID] = ws
		}
		ws[ev.Workstation] += hours
		totals[ev.Workstation] += hours

		details = append(details, models.ReportDetail{
			OrderID:     ev.OrderID,
			Workstation: ev.Workstation,
			Start:       clippedStart.Format(time.RFC3339),
			End:         clippedEnd.Format(time.RFC3339),
			Hours:       round2(hours),
		})
	}

	report := &models.ProductionReport{
		Summary:  buildSummary(byOrder),
		Totals:   buildTotals(totals),
		Details:  details,
		Timezone: tzName,
	}
	return report, nil
}

// clippedHours apportions the event's hours to the clipped span. Precomputed
// hours scale linearly with the clipped wall-clock fraction; otherwise the
// clipped wall-clock duration is reported directly. Business-hours accounting
// is assumed to have happened upstream when Hours is set.
func clippedHours(ev models.ProductionEvent, clipped time.Duration) float64 {
	if ev.Hours != nil {
		span := ev.EndTime.Sub(ev.StartTime)
		if span <= 0 {
			return 0
		}
		return *ev.Hours * (clipped.Seconds() / span.Seconds())
	}
	return clipped.Hours()
}

func buildSummary(byOrder map[string]map[string]float64) []models.OrderSummary {
	orders := make([]string, 0, len(byOrder))
	for id := range byOrder {
		orders = append(orders, id)
	}
	sort.Strings(orders)

	summary := make([]models.OrderSummary, 0, len(orders))
	for _, id := range orders {
		rounded := make(map[string]float64, len(byOrder[id]))
		var total float64
		for ws, h := range byOrder[id] {
			rounded[ws] = round2(h)
			total += h
		}
		summary = append(summary, models.OrderSummary{
			OrderID:      id,
			Workstations: rounded,
			OrderTotal:   round2(total),
		})
	}
	return summary
}

func buildTotals(totals map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(totals)+1)
	var grand float64
	for ws, h := range totals {
		out[ws] = round2(h)
		grand += h
	}
	out[models.GrandTotalKey] = round2(grand)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
