package production

import (
	"errors"
	"testing"
	"time"

	"github.com/shopmetrics/ybscontrol/internal/domain/models"
)

func sampleEvents() []models.ProductionEvent {
	day := func(h int) time.Time {
		return time.Date(2024, 1, 1, h, 0, 0, 0, time.UTC)
	}
	return []models.ProductionEvent{
		{OrderID: "A", Workstation: "Cut", StartTime: day(0), EndTime: day(2)},
		{OrderID: "A", Workstation: "Weld", StartTime: day(2), EndTime: day(4)},
		{OrderID: "B", Workstation: "Cut", StartTime: day(4), EndTime: day(5)},
		{OrderID: "B", Workstation: "Paint", StartTime: day(5), EndTime: day(6)},
	}
}

func reportRange() (time.Time, time.Time) {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
}

func TestGenerateTotalsAndSummary(t *testing.T) {
	start, end := reportRange()
	report, err := Generate(sampleEvents(), start, end, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	wantTotals := map[string]float64{
		"Cut":                 3.0,
		"Weld":                2.0,
		"Paint":               1.0,
		models.GrandTotalKey: 6.0,
	}
	for ws, want := range wantTotals {
		if got := report.Totals[ws]; got != want {
			t.Fatalf("Totals[%q] = %v, want %v", ws, got, want)
		}
	}
	if len(report.Totals) != len(wantTotals) {
		t.Fatalf("Totals has %d keys, want %d: %v", len(report.Totals), len(wantTotals), report.Totals)
	}

	if len(report.Summary) != 2 {
		t.Fatalf("got %d summary rows, want 2", len(report.Summary))
	}
	a, b := report.Summary[0], report.Summary[1]
	if a.OrderID != "A" || b.OrderID != "B" {
		t.Fatalf("summary order = %q, %q; want A then B", a.OrderID, b.OrderID)
	}
	if a.Workstations["Cut"] != 2.0 || a.Workstations["Weld"] != 2.0 || a.OrderTotal != 4.0 {
		t.Fatalf("order A summary = %+v, want Cut 2 Weld 2 total 4", a)
	}
	if b.Workstations["Cut"] != 1.0 || b.Workstations["Paint"] != 1.0 || b.OrderTotal != 2.0 {
		t.Fatalf("order B summary = %+v, want Cut 1 Paint 1 total 2", b)
	}

	if len(report.Details) != 4 {
		t.Fatalf("got %d details, want 4", len(report.Details))
	}
	if report.Details[0].Start != "2024-01-01T00:00:00Z" {
		t.Fatalf("detail start = %q, want RFC3339 in UTC", report.Details[0].Start)
	}
}

func TestGenerateScalesPrecomputedHours(t *testing.T) {
	hours := 5.0
	events := []models.ProductionEvent{{
		OrderID:     "A",
		Workstation: "Cut",
		StartTime:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Hours:       &hours,
	}}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 5, 0, 0, 0, time.UTC) // half the event span

	report, err := Generate(events, start, end, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := report.Totals["Cut"]; got != 2.5 {
		t.Fatalf("Totals[Cut] = %v, want 2.5 (5h scaled by half)", got)
	}
}

func TestGenerateClipsWallClockEvents(t *testing.T) {
	events := []models.ProductionEvent{{
		OrderID:     "A",
		Workstation: "Cut",
		StartTime:   time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2024, 1, 2, 4, 0, 0, 0, time.UTC),
	}}
	start, end := reportRange()

	report, err := Generate(events, start, end, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := report.Totals["Cut"]; got != 2.0 {
		t.Fatalf("Totals[Cut] = %v, want 2h clipped at the range end", got)
	}
	if report.Details[0].End != "2024-01-02T00:00:00Z" {
		t.Fatalf("detail end = %q, want clipped to range end", report.Details[0].End)
	}
}

func TestGenerateExcludesNonOverlappingEvents(t *testing.T) {
	start, end := reportRange()
	events := []models.ProductionEvent{
		{
			OrderID:     "A",
			Workstation: "Cut",
			StartTime:   start.Add(-2 * time.Hour),
			EndTime:     start, // touches the boundary, zero overlap
		},
		{
			OrderID:     "B",
			Workstation: "Weld",
			StartTime:   end,
			EndTime:     end.Add(time.Hour),
		},
	}

	report, err := Generate(events, start, end, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(report.Summary) != 0 || len(report.Details) != 0 {
		t.Fatalf("report = %+v, want empty for zero-overlap events", report)
	}
	if got := report.Totals[models.GrandTotalKey]; got != 0 {
		t.Fatalf("grand total = %v, want 0", got)
	}
}

func TestGenerateRejectsInvertedRange(t *testing.T) {
	start, end := reportRange()
	_, err := Generate(nil, end, start, Options{})
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
}

func TestGenerateRejectsOversizedRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 32)

	_, err := Generate(nil, start, end, Options{})
	if !errors.Is(err, ErrRangeTooLarge) {
		t.Fatalf("err = %v, want ErrRangeTooLarge", err)
	}

	// A raised cap admits the same span.
	if _, err := Generate(nil, start, end, Options{MaxRangeDays: 60}); err != nil {
		t.Fatalf("Generate with raised cap: %v", err)
	}
}

func TestGenerateRendersDetailsInRequestedZone(t *testing.T) {
	events := []models.ProductionEvent{{
		OrderID:     "A",
		Workstation: "Cut",
		StartTime:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC),
	}}
	start, end := reportRange()

	report, err := Generate(events, start, end, Options{Timezone: "America/New_York"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report.Timezone != "America/New_York" {
		t.Fatalf("Timezone = %q", report.Timezone)
	}
	if report.Details[0].Start != "2024-01-01T07:00:00-05:00" {
		t.Fatalf("detail start = %q, want eastern-time rendering", report.Details[0].Start)
	}
	if got := report.Totals["Cut"]; got != 2.0 {
		t.Fatalf("Totals[Cut] = %v, want zone-independent 2h", got)
	}
}

func TestGenerateRejectsUnknownTimezone(t *testing.T) {
	start, end := reportRange()
	if _, err := Generate(nil, start, end, Options{Timezone: "Mars/Olympus"}); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
