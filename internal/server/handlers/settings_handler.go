package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopmetrics/ybscontrol/internal/timeutil"
)

// SettingsHandler exposes the runtime business-hours window.
type SettingsHandler struct {
	calendars *timeutil.Store
	logger    *zap.Logger
}

// NewSettingsHandler constructs the HTTP handler adapter.
func NewSettingsHandler(calendars *timeutil.Store, logger *zap.Logger) *SettingsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsHandler{calendars: calendars, logger: logger}
}

type businessHoursPayload struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// GetBusinessHours returns the current window.
func (h *SettingsHandler) GetBusinessHours(c *gin.Context) {
	cal := h.calendars.Get()
	c.JSON(http.StatusOK, gin.H{"start": cal.Start.String(), "end": cal.End.String()})
}

// SetBusinessHours replaces the window. Computations already in flight keep
// the snapshot they captured; historical lead times are not recomputed.
func (h *SettingsHandler) SetBusinessHours(c *gin.Context) {
	var payload businessHoursPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	start, err := timeutil.ParseClockTime(payload.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start time, expected HH:MM"})
		return
	}
	end, err := timeutil.ParseClockTime(payload.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end time, expected HH:MM"})
		return
	}

	if err := h.calendars.Set(start, end); err != nil {
		if errors.Is(err, timeutil.ErrInvalidWindow) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be before end"})
			return
		}
		h.logger.Error("failed to update business hours", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update business hours"})
		return
	}

	h.logger.Info("business hours updated",
		zap.String("start", start.String()),
		zap.String("end", end.String()))
	c.JSON(http.StatusOK, gin.H{"start": start.String(), "end": end.String()})
}
