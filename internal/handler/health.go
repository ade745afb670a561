package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthProbeTimeout = 3 * time.Second

// HealthCheck probes one backing dependency. A non-nil error marks the
// service degraded.
type HealthCheck func(ctx context.Context) error

// DatabasePing checks that the catalog store answers.
func DatabasePing(db *gorm.DB) HealthCheck {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// RedisPing checks the cache / job-queue backend.
func RedisPing(rdb *redis.Client) HealthCheck {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

// Health reports storefront liveness plus the state of each backing
// dependency. Bodies follow the envelope convention (success boolean);
// a degraded dependency turns the whole response into a 503 so load
// balancers drop the instance. Credentials and driver errors are never
// echoed back.
func Health(checks map[string]HealthCheck) gin.HandlerFunc {
	started := time.Now()
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
		defer cancel()

		deps := gin.H{}
		healthy := true
		for name, check := range checks {
			if err := check(ctx); err != nil {
				deps[name] = "unreachable"
				healthy = false
				continue
			}
			deps[name] = "up"
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"success":      healthy,
			"service":      "axg-photo-api",
			"uptime":       time.Since(started).Truncate(time.Second).String(),
			"dependencies": deps,
		})
	}
}
