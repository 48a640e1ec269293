package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db             Pinger
	storageEnabled bool
}

// NewHealthHandler creates a new HealthHandler. storageEnabled is reported
// on readiness so operators can tell when invoice publishing is off.
func NewHealthHandler(db Pinger, storageEnabled bool) *HealthHandler {
	return &HealthHandler{db: db, storageEnabled: storageEnabled}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Database reachable"
// @Failure 503 {object} HealthResponse "Database not reachable"
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not reachable"})
		return
	}
	storage := "disabled"
	if h.storageEnabled {
		storage = "enabled"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": storage})
}
