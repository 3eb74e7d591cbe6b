// Package refresh runs the scrape pipeline: portal fetch, HTML parse,
// lead-time computation and persistence.
package refresh

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shopmetrics/ybscontrol/internal/domain/models"
	"github.com/shopmetrics/ybscontrol/internal/metrics"
	"github.com/shopmetrics/ybscontrol/internal/parser"
	"github.com/shopmetrics/ybscontrol/internal/repository/mongodb"
	"github.com/shopmetrics/ybscontrol/internal/service/leadtime"
	"github.com/shopmetrics/ybscontrol/internal/timeutil"
	"github.com/shopmetrics/ybscontrol/pkg/clients/ybs"
)

// Result summarizes one refresh run.
type Result struct {
	Orders int `json:"orders"`
	Queued int `json:"queued"`
}

// Service orchestrates a full refresh cycle.
type Service struct {
	client    ybs.Client
	repo      mongodb.Repository
	calendars *timeutil.Store
	logger    *zap.Logger
}

// NewService wires a refresh service instance.
func NewService(client ybs.Client, repo mongodb.Repository, calendars *timeutil.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, repo: repo, calendars: calendars, logger: logger}
}

// Run logs in, fetches the orders and queue pages, recomputes lead times for
// every parsed order and replaces its stored state. The calendar is
// snapshotted once so a concurrent settings change cannot straddle the batch.
func (s *Service) Run(ctx context.Context) (Result, error) {
	started := time.Now()
	res, err := s.run(ctx)
	metrics.RefreshDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("error").Inc()
		return Result{}, err
	}
	metrics.RefreshTotal.WithLabelValues("success").Inc()
	metrics.OrdersParsed.Set(float64(res.Orders))
	return res, nil
}

func (s *Service) run(ctx context.Context) (Result, error) {
	if err := s.client.Login(ctx); err != nil {
		return Result{}, fmt.Errorf("refresh: %w", err)
	}

	pages, err := s.client.FetchPages(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("refresh: %w", err)
	}

	orders, err := parser.ParseOrders(pages.OrdersHTML)
	if err != nil {
		return Result{}, fmt.Errorf("refresh: %w", err)
	}
	queue, err := parser.ParseQueue(pages.QueueHTML)
	if err != nil {
		return Result{}, fmt.Errorf("refresh: %w", err)
	}

	cal := s.calendars.Get()

	for _, order := range orders {
		jobs := map[string][]models.Step{order.Number: order.Steps}
		entries := leadtime.Compute(cal, jobs, nil, nil)[order.Number]

		if err := s.repo.SaveOrder(ctx, order, entries); err != nil {
			return Result{}, fmt.Errorf("refresh: %w", err)
		}
		s.logger.Debug("order saved",
			zap.String("order", order.Number),
			zap.Int("steps", len(order.Steps)),
			zap.Int("lead_times", len(entries)))
	}

	s.logger.Info("refresh completed",
		zap.Int("orders", len(orders)),
		zap.Int("queued", len(queue)))

	return Result{Orders: len(orders), Queued: len(queue)}, nil
}
