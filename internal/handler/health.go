package handler

import (
	"context"
	"net/http"
	"time"

	"gamblerpro/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Redis is optional: a nil client reports "disabled" and does not fail the check.
// notificaciones_fallidas counts closing e-mails parked in the dead letter queue.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "disabled"
		var fallidas int64
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			} else if n, err := worker.LongitudDLQ(ctx, rdb, worker.QueueCierres); err == nil {
				fallidas = n
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":                      status == http.StatusOK,
			"db":                      dbStatus,
			"redis":                   redisStatus,
			"notificaciones_fallidas": fallidas,
		})
	}
}
