package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopmetrics/ybscontrol/internal/domain/models"
	"github.com/shopmetrics/ybscontrol/internal/export"
	"github.com/shopmetrics/ybscontrol/internal/repository/sheets"
	"github.com/shopmetrics/ybscontrol/internal/service/production"
	"github.com/shopmetrics/ybscontrol/internal/timeutil"
)

// ReportHandler serves and exports date-range production reports.
type ReportHandler struct {
	svc        *production.Service
	exporter   sheets.Exporter // nil when sheets export is not configured
	exportPath string
	location   *time.Location
	logger     *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter. Date-only query
// parameters are interpreted in loc.
func NewReportHandler(svc *production.Service, exporter sheets.Exporter, exportPath string, loc *time.Location, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, exporter: exporter, exportPath: exportPath, location: loc, logger: logger}
}

// Generate returns the production report for ?start=YYYY-MM-DD&end=YYYY-MM-DD.
// The end date is inclusive; it is widened to the following midnight before
// the exclusive-end core API is called.
func (h *ReportHandler) Generate(c *gin.Context) {
	report, ok := h.buildReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// Jobs returns the per-order rollup for ?start=YYYY-MM-DD&end=YYYY-MM-DD:
// every stored lead-time row in the range grouped by order with company and
// status, plus workflow steps the range query missed.
func (h *ReportHandler) Jobs(c *gin.Context) {
	startDate, err := timeutil.ParseDate(c.Query("start"), h.location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
		return
	}
	endDate, err := timeutil.ParseDate(c.Query("end"), h.location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
		return
	}

	jobs, err := h.svc.JobsReport(c.Request.Context(), startDate, timeutil.EndOfDayExclusive(endDate))
	switch {
	case errors.Is(err, production.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be on or after start"})
		return
	case err != nil:
		h.logger.Error("jobs report failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jobs report failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// Export renders the report through the sink selected by ?format=csv|xlsx|sheets.
func (h *ReportHandler) Export(c *gin.Context) {
	report, ok := h.buildReport(c)
	if !ok {
		return
	}

	switch format := c.DefaultQuery("format", "csv"); format {
	case "csv":
		if err := export.WriteCSV(report, h.exportPath); err != nil {
			h.logger.Error("csv export failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "csv export failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"summary": filepath.Join(h.exportPath, "Summary.csv"),
			"details": filepath.Join(h.exportPath, "Details.csv"),
		})
	case "xlsx":
		path := filepath.Join(h.exportPath, "ProductionReport.xlsx")
		if err := export.WriteXLSX(report, path); err != nil {
			h.logger.Error("xlsx export failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "xlsx export failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"workbook": path})
	case "sheets":
		if h.exporter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sheets export not configured"})
			return
		}
		if err := h.exporter.ExportReport(c.Request.Context(), report); err != nil {
			h.logger.Error("sheets export failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "sheets export failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"exported": true})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown export format"})
	}
}

func (h *ReportHandler) buildReport(c *gin.Context) (*models.ProductionReport, bool) {
	startDate, err := timeutil.ParseDate(c.Query("start"), h.location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
		return nil, false
	}
	endDate, err := timeutil.ParseDate(c.Query("end"), h.location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
		return nil, false
	}

	report, err := h.svc.RangeReport(c.Request.Context(), startDate, timeutil.EndOfDayExclusive(endDate), c.Query("tz"))
	switch {
	case errors.Is(err, production.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be on or after start"})
		return nil, false
	case errors.Is(err, production.ErrRangeTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	case err != nil:
		h.logger.Error("report generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return nil, false
	}
	return report, true
}
