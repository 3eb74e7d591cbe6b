package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shopmetrics/ybscontrol/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(refreshH *handlers.RefreshHandler, reportH *handlers.ReportHandler, ordersH *handlers.OrdersHandler, settingsH *handlers.SettingsHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.POST("/refresh", refreshH.Trigger)
		api.GET("/orders/:number/steps", ordersH.Steps)
		api.GET("/orders/:number/lead-times", ordersH.LeadTimes)
		api.POST("/orders/:number/print-file", ordersH.RecordPrintFile)
		api.GET("/reports/production", reportH.Generate)
		api.GET("/reports/jobs", reportH.Jobs)
		api.POST("/reports/production/export", reportH.Export)
		api.GET("/settings/business-hours", settingsH.GetBusinessHours)
		api.PUT("/settings/business-hours", settingsH.SetBusinessHours)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
