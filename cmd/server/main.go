package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/shopmetrics/ybscontrol/internal/config"
	"github.com/shopmetrics/ybscontrol/internal/metrics"
	"github.com/shopmetrics/ybscontrol/internal/repository/mongodb"
	"github.com/shopmetrics/ybscontrol/internal/repository/sheets"
	"github.com/shopmetrics/ybscontrol/internal/scheduler"
	"github.com/shopmetrics/ybscontrol/internal/server/handlers"
	"github.com/shopmetrics/ybscontrol/internal/server/router"
	productionsvc "github.com/shopmetrics/ybscontrol/internal/service/production"
	refreshsvc "github.com/shopmetrics/ybscontrol/internal/service/refresh"
	"github.com/shopmetrics/ybscontrol/internal/timeutil"
	"github.com/shopmetrics/ybscontrol/pkg/clients/ybs"
	"github.com/shopmetrics/ybscontrol/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	metrics.Register()

	calendar, err := timeutil.NewCalendar(cfg.Business.Start, cfg.Business.End)
	if err != nil {
		baseLogger.Fatal("invalid business hours configuration", zap.Error(err))
	}
	calendars := timeutil.NewStore(calendar)

	location, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("invalid reporting timezone", zap.Error(err))
	}

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var sheetsExporter sheets.Exporter
	if cfg.Sheets.CredentialsPath != "" {
		sheetsExporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("sheets export enabled")
	} else {
		baseLogger.Warn("sheets credentials missing, spreadsheet export disabled")
	}

	portalClient := ybs.NewClient(cfg.Portal)
	refreshSvc := refreshsvc.NewService(portalClient, mongoRepo, calendars, baseLogger.Named("svc.refresh"))
	productionSvc := productionsvc.NewService(mongoRepo, calendars, cfg.Reporting.Timezone, cfg.Reporting.MaxRangeDays, baseLogger.Named("svc.production"))

	refreshHandler := handlers.NewRefreshHandler(refreshSvc, baseLogger.Named("handlers.refresh"))
	reportHandler := handlers.NewReportHandler(productionSvc, sheetsExporter, cfg.Export.Path, location, baseLogger.Named("handlers.report"))
	ordersHandler := handlers.NewOrdersHandler(mongoRepo, location, baseLogger.Named("handlers.orders"))
	settingsHandler := handlers.NewSettingsHandler(calendars, baseLogger.Named("handlers.settings"))
	engine := router.New(refreshHandler, reportHandler, ordersHandler, settingsHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, refreshSvc, productionSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
