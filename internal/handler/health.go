package handler

import (
	"context"
	"net/http"
	"time"

	"stockdesk/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health checks the database, Redis when configured, and the mail breaker.
// rdb and breaker may be nil.
func Health(db *gorm.DB, rdb *redis.Client, breaker *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		ok := true
		body := gin.H{}

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
			ok = false
		}
		body["db"] = dbStatus

		if rdb != nil {
			redisStatus := "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
				ok = false
			}
			body["redis"] = redisStatus
		} else {
			body["redis"] = "disabled"
		}

		if breaker != nil {
			body["mail_breaker"] = breaker.State().String()
		}

		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		body["ok"] = ok
		c.JSON(status, body)
	}
}
