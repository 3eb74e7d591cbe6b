package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopmetrics/ybscontrol/internal/repository/mongodb"
	"github.com/shopmetrics/ybscontrol/internal/timeutil"
)

// OrdersHandler serves stored per-order data.
type OrdersHandler struct {
	repo     mongodb.Repository
	location *time.Location
	logger   *zap.Logger
}

// NewOrdersHandler constructs the HTTP handler adapter.
func NewOrdersHandler(repo mongodb.Repository, loc *time.Location, logger *zap.Logger) *OrdersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrdersHandler{repo: repo, location: loc, logger: logger}
}

// Steps returns the complete ordered step list for one order.
func (h *OrdersHandler) Steps(c *gin.Context) {
	steps, err := h.repo.LoadSteps(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.logger.Error("failed to load steps", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load steps"})
		return
	}
	if steps == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": c.Param("number"), "steps": steps})
}

// RecordPrintFile notes the moment the job file was printed for an order.
// The portal never reports this step, so operators record it here; repeat
// calls are no-ops.
func (h *OrdersHandler) RecordPrintFile(c *gin.Context) {
	number := c.Param("number")
	if err := h.repo.RecordPrintFileStart(c.Request.Context(), number, time.Now().UTC()); err != nil {
		h.logger.Error("failed to record print file step", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record print file step"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": number, "recorded": true})
}

// LeadTimes returns an order's stored lead-time entries, optionally bounded
// by ?start=YYYY-MM-DD&end=YYYY-MM-DD (end inclusive).
func (h *OrdersHandler) LeadTimes(c *gin.Context) {
	var start, end *time.Time
	if v := c.Query("start"); v != "" {
		parsed, err := timeutil.ParseDate(v, h.location)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
			return
		}
		start = &parsed
	}
	if v := c.Query("end"); v != "" {
		parsed, err := timeutil.ParseDate(v, h.location)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
			return
		}
		bound := timeutil.EndOfDayExclusive(parsed)
		end = &bound
	}

	entries, err := h.repo.LoadLeadTimes(c.Request.Context(), c.Param("number"), start, end)
	if err != nil {
		h.logger.Error("failed to load lead times", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load lead times"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": c.Param("number"), "lead_times": entries})
}
