package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shopmetrics/ybscontrol/internal/config"
	"github.com/shopmetrics/ybscontrol/internal/export"
	"github.com/shopmetrics/ybscontrol/internal/service/production"
	"github.com/shopmetrics/ybscontrol/internal/service/refresh"
	"github.com/shopmetrics/ybscontrol/internal/timeutil"
)

// Scheduler manages the periodic portal refresh and the optional daily
// report export.
type Scheduler struct {
	cron       *cron.Cron
	refreshSvc *refresh.Service
	reportSvc  *production.Service
	cfg        config.Config
	logger     *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, refreshSvc *refresh.Service, reportSvc *production.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:       cron.New(),
		refreshSvc: refreshSvc,
		reportSvc:  reportSvc,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("refresh_schedule", s.cfg.Refresh.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Refresh.CronSchedule, s.runRefresh); err != nil {
		s.logger.Error("failed to schedule refresh", zap.Error(err))
	}

	if s.cfg.Export.Time != "" {
		if spec, err := exportCronSpec(s.cfg.Export.Time); err != nil {
			s.logger.Error("failed to parse export time", zap.Error(err))
		} else if _, err := s.cron.AddFunc(spec, s.runDailyExport); err != nil {
			s.logger.Error("failed to schedule daily export", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := s.refreshSvc.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled refresh failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled refresh finished", zap.Int("orders", res.Orders), zap.Int("queued", res.Queued))
}

// runDailyExport writes today's production report as CSV into the configured
// export directory.
func (s *Scheduler) runDailyExport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := timeutil.EndOfDayExclusive(start)

	report, err := s.reportSvc.RangeReport(ctx, start, end, "")
	if err != nil {
		s.logger.Error("daily export report failed", zap.Error(err))
		return
	}
	if err := export.WriteCSV(report, s.cfg.Export.Path); err != nil {
		s.logger.Error("daily export write failed", zap.Error(err))
		return
	}
	s.logger.Info("daily export written", zap.String("path", s.cfg.Export.Path))
}

// exportCronSpec turns an "HH:MM" wall time into a daily cron spec.
func exportCronSpec(value string) (string, error) {
	t, err := timeutil.ParseClockTime(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %d * * *", t.Minute, t.Hour), nil
}
