package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/shopmetrics/ybscontrol/internal/domain/models"
)

const leadTimeLayout = "2006-01-02 15:04:05"

// WriteCSV writes Summary.csv and Details.csv for a production report into
// dir.
func WriteCSV(report *models.ProductionReport, dir string) error {
	if err := writeCSVFile(filepath.Join(dir, "Summary.csv"), SummaryRows(report)); err != nil {
		return err
	}
	return writeCSVFile(filepath.Join(dir, "Details.csv"), DetailRows(report))
}

// WriteLeadTimesCSV writes per-order lead times to path, one row per
// workstation entry, orders in ascending number order.
func WriteLeadTimesCSV(results map[string][]models.LeadTimeEntry, path string) error {
	orders := make([]string, 0, len(results))
	for order := range results {
		orders = append(orders, order)
	}
	sort.Strings(orders)

	rows := [][]string{{"job_number", "workstation", "hours_in_queue", "start", "end"}}
	for _, order := range orders {
		for _, e := range results[order] {
			rows = append(rows, []string{
				order,
				e.Workstation,
				formatHours(e.Hours),
				e.Start.Format(leadTimeLayout),
				e.End.Format(leadTimeLayout),
			})
		}
	}
	return writeCSVFile(path, rows)
}

func writeCSVFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	return f.Close()
}
