package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmenu/backend/internal/infrastructure/logger"
	"github.com/mmenu/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// DatabaseChecker is the database view the health check needs
type DatabaseChecker interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// HealthHandler serves liveness and readiness checks
type HealthHandler struct {
	db      DatabaseChecker
	timeout time.Duration
	now     func() time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseChecker) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second, now: time.Now}
}

// RegisterRoutes registers the health checks outside API versioning
func (h *HealthHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/health", h.Ready)
	engine.GET("/health/live", h.Live)
	engine.GET("/health/ready", h.Ready)
}

// Live reports that the process serves requests
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"time":   h.now().Format(time.RFC3339),
	})
}

// Ready reports whether the database answers
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"time":     h.now().Format(time.RFC3339),
			"database": "error",
		})
		return
	}

	resp := gin.H{
		"status":   "healthy",
		"time":     h.now().Format(time.RFC3339),
		"database": "ok",
	}
	if stats, err := h.db.Stats(); err == nil {
		resp["pool"] = stats
	}
	c.JSON(http.StatusOK, resp)
}
