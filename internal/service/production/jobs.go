package production

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shopmetrics/ybscontrol/internal/timeutil"
)

// jobTimeLayout renders workstation start/end stamps in the jobs rollup.
const jobTimeLayout = "2006-01-02 15:04"

// WorkstationRow is one workstation line inside a job rollup. Start and End
// are empty strings while the bounding timestamps are unknown.
type WorkstationRow struct {
	Workstation string  `json:"workstation"`
	Hours       float64 `json:"hours"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
}

// JobRollup aggregates one order's activity inside a date range.
type JobRollup struct {
	Order        string           `json:"order"`
	Company      string           `json:"company"`
	Hours        float64          `json:"hours"`
	Status       string           `json:"status"`
	Workstations []WorkstationRow `json:"workstations"`
}

// JobsReport groups the stored lead-time rows in [start, end) per order,
// then fills in workflow steps the range query missed: a step with no stored
// row is appended with its business hours when both bounding timestamps
// exist, zero otherwise. Any step still waiting on a timestamp marks the
// whole order In Progress. Workstation lines come back in workflow step
// order; orders sort by number.
func (s *Service) JobsReport(ctx context.Context, start, end time.Time) ([]JobRollup, error) {
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	rows, err := s.repo.LoadJobsByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("jobs report: %w", err)
	}

	groups := make(map[string]*JobRollup)
	orderIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		g := groups[row.Order]
		if g == nil {
			g = &JobRollup{Order: row.Order, Company: row.Company, Status: "Completed"}
			groups[row.Order] = g
			orderIDs = append(orderIDs, row.Order)
		}

		endStr := ""
		if !row.End.IsZero() {
			endStr = row.End.Format(jobTimeLayout)
		} else {
			g.Status = "In Progress"
		}
		g.Hours += row.Hours
		g.Workstations = append(g.Workstations, WorkstationRow{
			Workstation: row.Workstation,
			Hours:       row.Hours,
			Start:       row.Start.Format(jobTimeLayout),
			End:         endStr,
		})
	}

	cal := s.calendars.Get()
	for _, g := range groups {
		if err := s.fillMissingSteps(ctx, cal, g); err != nil {
			return nil, err
		}
	}

	sort.Strings(orderIDs)
	out := make([]JobRollup, 0, len(orderIDs))
	for _, id := range orderIDs {
		out = append(out, *groups[id])
	}

	s.logger.Info("jobs report generated",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("orders", len(out)))
	return out, nil
}

// fillMissingSteps appends workflow steps absent from the stored rows and
// sorts the workstation lines into step order. The walk keeps the previous
// step's timestamp as the start bound of each gap, exactly as the lead-time
// computation would have paired them.
func (s *Service) fillMissingSteps(ctx context.Context, cal timeutil.Calendar, g *JobRollup) error {
	steps, err := s.repo.LoadSteps(ctx, g.Order)
	if err != nil {
		return fmt.Errorf("jobs report: %w", err)
	}

	existing := make(map[string]bool, len(g.Workstations))
	for _, ws := range g.Workstations {
		existing[strings.ToLower(ws.Workstation)] = true
	}

	stepOrder := make(map[string]int, len(steps))
	var prev *time.Time
	for i, step := range steps {
		key := strings.ToLower(step.Name)
		stepOrder[key] = i

		endStr := ""
		if step.Timestamp != nil {
			endStr = step.Timestamp.Format(jobTimeLayout)
		}
		if !existing[key] {
			startStr := ""
			var hours float64
			if prev != nil {
				startStr = prev.Format(jobTimeLayout)
				if step.Timestamp != nil {
					hours = timeutil.Hours(timeutil.Delta(cal, *prev, *step.Timestamp))
				}
			}
			g.Workstations = append(g.Workstations, WorkstationRow{
				Workstation: step.Name,
				Hours:       hours,
				Start:       startStr,
				End:         endStr,
			})
			g.Hours += hours
			existing[key] = true
		}
		if endStr == "" {
			g.Status = "In Progress"
		}
		prev = step.Timestamp
	}

	sort.SliceStable(g.Workstations, func(i, j int) bool {
		return stepRank(stepOrder, g.Workstations[i].Workstation) < stepRank(stepOrder, g.Workstations[j].Workstation)
	})
	return nil
}

func stepRank(order map[string]int, name string) int {
	if i, ok := order[strings.ToLower(name)]; ok {
		return i
	}
	return len(order)
}
