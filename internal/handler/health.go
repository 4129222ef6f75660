package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Payphone-Digital/review-platform/internal/constants"
	"github.com/Payphone-Digital/review-platform/internal/service"
	"github.com/Payphone-Digital/review-platform/pkg/database"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"
)

// Pinger is satisfied by the redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// poolReporter is implemented by clients that expose pool statistics.
type poolReporter interface {
	PoolStats() map[string]interface{}
}

type HealthHandler struct {
	db    *gorm.DB
	redis Pinger
	cache *service.CacheService
	now   func() time.Time
}

type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewHealthHandler builds the health endpoint. redis may be nil when the
// cache is disabled.
func NewHealthHandler(db *gorm.DB, redis Pinger, cache *service.CacheService) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redis,
		cache: cache,
		now:   time.Now,
	}
}

// HealthCheck reports database and cache status. Only the database decides
// the overall status; the cache is optional.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthCheckResponse{
		Status:    statusHealthy,
		Version:   constants.AppVersion,
		Timestamp: h.now().UTC(),
		Checks:    make(map[string]HealthCheck),
	}

	dbStatus := h.checkDatabase(ctx)
	response.Checks["database"] = dbStatus
	if dbStatus.Status != statusHealthy {
		response.Status = statusUnhealthy
	}

	response.Checks["redis"] = h.checkRedis(ctx)

	statusCode := http.StatusOK
	if response.Status == statusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	logger.GetLogger().Debug("Health check performed",
		zap.String("overall_status", response.Status),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) HealthCheck {
	if h.db == nil {
		return HealthCheck{Status: statusUnhealthy, Message: "Database connection not initialized"}
	}

	if err := database.Ping(ctx, h.db); err != nil {
		logger.GetLogger().Error("Database ping failed", zap.Error(err))
		return HealthCheck{Status: statusUnhealthy, Message: "Database ping failed"}
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return HealthCheck{Status: statusHealthy}
	}
	stats := sqlDB.Stats()
	return HealthCheck{
		Status:  statusHealthy,
		Message: fmt.Sprintf("open: %d, idle: %d", stats.OpenConnections, stats.Idle),
	}
}

func (h *HealthHandler) checkRedis(ctx context.Context) HealthCheck {
	if h.redis == nil {
		return HealthCheck{Status: statusDisabled, Message: "Review cache is disabled"}
	}

	details := map[string]interface{}{}
	if stats := h.cache.BreakerStats(); stats != nil {
		details["breaker"] = stats
	}
	if p, ok := h.redis.(poolReporter); ok {
		details["pool"] = p.PoolStats()
	}

	if err := h.redis.Ping(ctx); err != nil {
		logger.GetLogger().Warn("Redis ping failed", zap.Error(err))
		return HealthCheck{Status: statusUnhealthy, Message: "Redis ping failed", Details: details}
	}

	return HealthCheck{Status: statusHealthy, Details: details}
}
