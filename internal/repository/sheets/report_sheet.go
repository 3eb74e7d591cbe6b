package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/shopmetrics/ybscontrol/internal/config"
	"github.com/shopmetrics/ybscontrol/internal/domain/models"
	"github.com/shopmetrics/ybscontrol/internal/export"
)

// reportStartCell leaves the top rows free for the manually maintained
// header block in the shared spreadsheet.
const reportStartCell = "A5"

// Exporter pushes production reports into an external spreadsheet.
type Exporter interface {
	ExportReport(ctx context.Context, report *models.ProductionReport) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// ExportReport writes the Summary and Details worksheets, creating them when
// missing and replacing their previous contents.
func (e *GoogleSheetExporter) ExportReport(ctx context.Context, report *models.ProductionReport) error {
	worksheets := []struct {
		title string
		rows  [][]string
	}{
		{"Summary", export.SummaryRows(report)},
		{"Details", export.DetailRows(report)},
	}

	for _, ws := range worksheets {
		if err := e.ensureWorksheet(ctx, ws.title); err != nil {
			return err
		}
		if err := e.writeRows(ctx, ws.title, ws.rows); err != nil {
			return err
		}
		e.logger.Debug("worksheet updated", zap.String("title", ws.title), zap.Int("rows", len(ws.rows)))
	}
	return nil
}

func (e *GoogleSheetExporter) ensureWorksheet(ctx context.Context, title string) error {
	spreadsheet, err := e.service.Spreadsheets.Get(e.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("load spreadsheet %s: %w", e.spreadsheetID, err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return nil
		}
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: title},
			},
		}},
	}
	if _, err := e.service.Spreadsheets.BatchUpdate(e.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add worksheet %s: %w", title, err)
	}
	return nil
}

func (e *GoogleSheetExporter) writeRows(ctx context.Context, title string, rows [][]string) error {
	clearRange := fmt.Sprintf("%s!%s:Z", title, reportStartCell)
	if _, err := e.service.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &sheetsapi.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear worksheet %s: %w", title, err)
	}

	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		values[i] = cells
	}

	payload := &sheetsapi.ValueRange{Values: values}
	call := e.service.Spreadsheets.Values.Update(e.spreadsheetID, fmt.Sprintf("%s!%s", title, reportStartCell), payload).
		ValueInputOption("USER_ENTERED").
		Context(ctx)
	if _, err := call.Do(); err != nil {
		return fmt.Errorf("update worksheet %s: %w", title, err)
	}
	return nil
}
