package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/httpresp"
)

// QueueStats is implemented by the notification queue.
type QueueStats interface {
	Len(ctx context.Context) (int64, error)
	DelayedLen(ctx context.Context) (int64, error)
	DLQLength(ctx context.Context) (int64, error)
}

// OpsHandler serves the health check and background job counters. rdb and
// queue are nil when Redis is not configured.
type OpsHandler struct {
	db    *gorm.DB
	rdb   *redis.Client
	queue QueueStats
}

func NewOpsHandler(db *gorm.DB, rdb *redis.Client, queue QueueStats) *OpsHandler {
	return &OpsHandler{db: db, rdb: rdb, queue: queue}
}

func (h *OpsHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	res := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status = http.StatusServiceUnavailable
		res["status"], res["database"] = "degraded", "down"
	}

	if h.rdb != nil {
		res["redis"] = "ok"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			// notifications only; the API keeps serving
			res["redis"] = "down"
		}
	}

	c.JSON(status, res)
}

func (h *OpsHandler) JobStats(c *gin.Context) {
	if h.queue == nil {
		httperr.Respond(c, httperr.ErrBusiness("queue_disabled"))
		return
	}

	pending, err := h.queue.Len(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	retrying, err := h.queue.DelayedLen(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	dead, err := h.queue.DLQLength(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"pending": pending, "retrying": retrying, "dead": dead})
}
