package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopmetrics/ybscontrol/internal/service/refresh"
)

// RefreshHandler triggers on-demand portal refreshes.
type RefreshHandler struct {
	svc    *refresh.Service
	logger *zap.Logger
}

// NewRefreshHandler constructs the HTTP handler adapter.
func NewRefreshHandler(svc *refresh.Service, logger *zap.Logger) *RefreshHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshHandler{svc: svc, logger: logger}
}

// Trigger runs a full scrape cycle synchronously and reports the counts.
func (h *RefreshHandler) Trigger(c *gin.Context) {
	res, err := h.svc.Run(c.Request.Context())
	if err != nil {
		h.logger.Error("manual refresh failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "refresh failed"})
		return
	}
	c.JSON(http.StatusOK, res)
}
