package handler

import (
	"net/http"
	"time"

	"login-api/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness. It never fails.
type HealthHandler struct {
	started time.Time
	now     func() time.Time
}

func NewHealthHandler(started time.Time) *HealthHandler {
	return &HealthHandler{started: started, now: time.Now}
}

// Health godoc
// @Summary      Liveness check
// @Tags         health
// @Produce      json
// @Success      200  {object}  httpdto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	now := h.now()
	c.JSON(http.StatusOK, httpdto.HealthResponse{
		Status:    "OK",
		Message:   "API is running",
		Timestamp: now.UTC().Format(httpdto.TimestampLayout),
		Uptime:    now.Sub(h.started).Seconds(),
	})
}
