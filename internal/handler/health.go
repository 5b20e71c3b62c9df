package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports liveness of the two backing stores plus the depth of the
// notification dead letter queue, which is the first thing to look at when
// customers stop receiving messages. Credentials and DSNs never appear here.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks := gin.H{}
		healthy := true

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["postgres"] = "down"
			healthy = false
		} else {
			checks["postgres"] = "up"
		}

		if rdb.Ping(ctx).Err() != nil {
			checks["redis"] = "down"
			healthy = false
		} else {
			checks["redis"] = "up"
			if n, err := worker.DLQLength(ctx, rdb, worker.QueueNotification); err == nil {
				checks["notification_dlq"] = n
			}
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ok":      healthy,
			"service": "asanorder",
			"checks":  checks,
		})
	}
}
