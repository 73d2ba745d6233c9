package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/brainfuel/backend/internal/models"
	"github.com/brainfuel/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 2 * time.Second

// HealthHandler reports whether the process and its database are up.
type HealthHandler struct {
	gw      *models.Gateway
	started time.Time
}

func NewHealthHandler(gw *models.Gateway) *HealthHandler {
	return &HealthHandler{gw: gw, started: time.Now()}
}

// CheckHealth pings the database and reports uptime in seconds.
// GET /api/health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	body := gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"uptime":    time.Since(h.started).Seconds(),
	}

	if err := h.gw.Ping(ctx); err != nil {
		logger.FromContext(c).Error().Err(err).Msg("health check: database ping failed")
		body["status"] = "ERROR"
		body["error"] = "Database unavailable"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	c.JSON(http.StatusOK, body)
}
