package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/shopmetrics/ybscontrol/internal/domain/models"
)

// WriteXLSX writes the report as a workbook with Summary and Details sheets,
// mirroring the CSV layout.
func WriteXLSX(report *models.ProductionReport, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name string
		rows [][]string
	}{
		{"Summary", SummaryRows(report)},
		{"Details", DetailRows(report)},
	}

	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet.name, err)
		}
		for i, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return fmt.Errorf("locate row %d: %w", i+1, err)
			}
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			if err := f.SetSheetRow(sheet.name, cell, &values); err != nil {
				return fmt.Errorf("write sheet %s row %d: %w", sheet.name, i+1, err)
			}
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
