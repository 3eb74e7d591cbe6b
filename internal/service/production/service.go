package production

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shopmetrics/ybscontrol/internal/domain/models"
	"github.com/shopmetrics/ybscontrol/internal/metrics"
	"github.com/shopmetrics/ybscontrol/internal/repository/mongodb"
	"github.com/shopmetrics/ybscontrol/internal/timeutil"
)

// Service builds production reports from stored lead times.
type Service struct {
	repo         mongodb.Repository
	calendars    *timeutil.Store
	timezone     string
	maxRangeDays int
	logger       *zap.Logger
}

// NewService wires a production reporting service instance.
func NewService(repo mongodb.Repository, calendars *timeutil.Store, timezone string, maxRangeDays int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, calendars: calendars, timezone: timezone, maxRangeDays: maxRangeDays, logger: logger}
}

// RangeReport loads every lead-time row starting inside [start, end) and
// aggregates it into a production report. The stored hours are already
// business-hours adjusted, so they flow through as precomputed values and
// get proportionally scaled if clipped.
func (s *Service) RangeReport(ctx context.Context, start, end time.Time, tz string) (*models.ProductionReport, error) {
	if tz == "" {
		tz = s.timezone
	}

	rows, err := s.repo.LoadJobsByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("production report: %w", err)
	}

	events := make([]models.ProductionEvent, 0, len(rows))
	for _, row := range rows {
		hours := row.Hours
		events = append(events, models.ProductionEvent{
			OrderID:     row.Order,
			Workstation: row.Workstation,
			StartTime:   row.Start,
			EndTime:     row.End,
			Hours:       &hours,
		})
	}

	report, err := Generate(events, start, end, Options{Timezone: tz, MaxRangeDays: s.maxRangeDays})
	if err != nil {
		return nil, err
	}

	metrics.ReportsGenerated.Inc()
	s.logger.Info("production report generated",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("events", len(events)),
		zap.Int("orders", len(report.Summary)))
	return report, nil
}
