package models

import "time"

// ProductionEvent is one workstation occupancy interval fed into the range
// report. Hours, when non-nil, is a precomputed duration (usually already
// business-hours adjusted) that gets scaled proportionally if the event is
// clipped; when nil the clipped wall-clock duration is used instead.
type ProductionEvent struct {
	OrderID     string     `json:"orderId"`
	Workstation string     `json:"workstation"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     time.Time  `json:"endTime"`
	Hours       *float64   `json:"hours,omitempty"`
}

// OrderSummary aggregates one order's clipped hours per workstation.
type OrderSummary struct {
	OrderID      string             `json:"orderId"`
	Workstations map[string]float64 `json:"workstations"`
	OrderTotal   float64            `json:"order_total"`
}

// ReportDetail is one contributing event after clipping, with timestamps
// rendered in the report timezone.
type ReportDetail struct {
	OrderID     string  `json:"orderId"`
	Workstation string  `json:"workstation"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	Hours       float64 `json:"hours"`
}

// ProductionReport is the full range report. Totals carries one entry per
// workstation plus the GrandTotalKey entry. The struct is built fresh per
// request and never mutated afterwards.
type ProductionReport struct {
	Summary  []OrderSummary     `json:"summary"`
	Totals   map[string]float64 `json:"totals"`
	Details  []ReportDetail     `json:"details"`
	Timezone string             `json:"timezone"`
}

// GrandTotalKey is the reserved Totals key holding the sum across all
// workstations.
const GrandTotalKey = "grand_total"

// JobRangeRow is one lead-time row joined with its order metadata, as served
// by the date-range report.
type JobRangeRow struct {
	Order       string    `json:"order"`
	Company     string    `json:"company"`
	Workstation string    `json:"workstation"`
	Hours       float64   `json:"hours"`
	Status      string    `json:"status"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}
