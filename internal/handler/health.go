package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/yashas-13/inv-123/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// BreakerReporter is implemented by infra.Mailer.
type BreakerReporter interface {
	BreakerStateName() string
}

// DeadLetterCounter is implemented by worker.DeadLetters.
type DeadLetterCounter interface {
	Pending(ctx context.Context) (int64, error)
}

// Health checks DB and Redis connectivity, reports the SMTP breaker when mail
// is configured and the number of dead-lettered jobs. Never exposes
// credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, smtp BreakerReporter, dlq DeadLetterCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
		}
		if smtp != nil {
			body["smtp_breaker"] = smtp.BreakerStateName()
		}
		if dlq != nil && redisStatus == "connected" {
			if n, err := dlq.Pending(ctx); err == nil {
				body["dead_letters"] = n
			}
		}
		c.JSON(status, body)
	}
}

// DeadLetterInspector is implemented by worker.DeadLetters.
type DeadLetterInspector interface {
	Length(ctx context.Context, queue string) (int64, error)
	Peek(ctx context.Context, queue string, n int64) ([]worker.DLQEntry, error)
}

// DeadLetterList godoc
// @Summary Inspect dead-lettered jobs
// @Tags admin
// @Produce json
// @Param queue query string false "Job queue" default(jobs:email)
// @Param limit query int false "Entries" default(20)
// @Router /v1/admin/dead-letters [get]
func DeadLetterList(dlq DeadLetterInspector) gin.HandlerFunc {
	return func(c *gin.Context) {
		queue := c.DefaultQuery("queue", worker.QueueEmail)
		limit, ok := queryInt(c, "limit", 20)
		if !ok {
			return
		}
		total, err := dlq.Length(c.Request.Context(), queue)
		if err != nil {
			respondError(c, err)
			return
		}
		entries, err := dlq.Peek(c.Request.Context(), queue, int64(limit))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"queue": queue, "total": total, "entries": entries})
	}
}
