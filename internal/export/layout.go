// Package export renders production reports and lead-time results into
// CSV, XLSX and spreadsheet row layouts.
package export

import (
	"sort"
	"strconv"

	"github.com/shopmetrics/ybscontrol/internal/domain/models"
)

// SummaryRows builds the pivot layout shared by every report sink: one
// column per workstation in name order, one row per order, and a closing
// Totals row. Cells without hours render as "0.00" so the grid stays
// rectangular.
func SummaryRows(report *models.ProductionReport) [][]string {
	workstations := workstationColumns(report)

	header := append([]string{"Order ID"}, workstations...)
	header = append(header, "Order Total")
	rows := [][]string{header}

	for _, s := range report.Summary {
		row := make([]string, 0, len(header))
		row = append(row, s.OrderID)
		for _, ws := range workstations {
			row = append(row, formatHours(s.Workstations[ws]))
		}
		row = append(row, formatHours(s.OrderTotal))
		rows = append(rows, row)
	}

	totals := make([]string, 0, len(header))
	totals = append(totals, "Totals")
	for _, ws := range workstations {
		totals = append(totals, formatHours(report.Totals[ws]))
	}
	totals = append(totals, formatHours(report.Totals[models.GrandTotalKey]))
	return append(rows, totals)
}

// DetailRows lists every contributing event in report order.
func DetailRows(report *models.ProductionReport) [][]string {
	rows := [][]string{{"Order ID", "Workstation", "Start", "End", "Hours"}}
	for _, d := range report.Details {
		rows = append(rows, []string{d.OrderID, d.Workstation, d.Start, d.End, formatHours(d.Hours)})
	}
	return rows
}

func workstationColumns(report *models.ProductionReport) []string {
	workstations := make([]string, 0, len(report.Totals))
	for ws := range report.Totals {
		if ws == models.GrandTotalKey {
			continue
		}
		workstations = append(workstations, ws)
	}
	sort.Strings(workstations)
	return workstations
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
