package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/parallel-queue/api/v1"
	srvErrors "github.com/kubev2v/parallel-queue/pkg/errors"
)

const purgeTimeout = 5 * time.Second

// ListQueues returns the status of every queue
// (GET /queues)
func (h *Handler) ListQueues(c *gin.Context) {
	var list v1.QueueList
	list.FromModel(h.queueSrv.List())
	c.JSON(http.StatusOK, list)
}

// GetQueue returns the status of one queue
// (GET /queues/{name})
func (h *Handler) GetQueue(c *gin.Context, name string) {
	status, err := h.queueSrv.Status(name)
	if err != nil {
		h.fail(c, "failed to get queue", name, err)
		return
	}
	c.JSON(http.StatusOK, v1.NewQueueStatusFromModel(status))
}

// PingQueue enqueues an empty event, waking the worker and resetting its idle count
// (POST /queues/{name}/ping)
func (h *Handler) PingQueue(c *gin.Context, name string, params v1.PingQueueParams) {
	front := params.Front != nil && *params.Front
	if err := h.queueSrv.Ping(name, front); err != nil {
		h.fail(c, "failed to ping queue", name, err)
		return
	}

	status, err := h.queueSrv.Status(name)
	if err != nil {
		h.fail(c, "failed to get queue", name, err)
		return
	}
	c.JSON(http.StatusAccepted, v1.NewQueueStatusFromModel(status))
}

// PurgeQueue drops the queued events
// (POST /queues/{name}/purge)
func (h *Handler) PurgeQueue(c *gin.Context, name string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), purgeTimeout)
	defer cancel()

	dropped, err := h.queueSrv.Purge(ctx, name)
	if err != nil {
		h.fail(c, "failed to purge queue", name, err)
		return
	}
	c.JSON(http.StatusOK, v1.PurgeResult{Dropped: dropped})
}

func (h *Handler) fail(c *gin.Context, msg, name string, err error) {
	code := statusCode(err)
	if code >= http.StatusInternalServerError {
		zap.S().Named("queue_handler").Errorw(msg, "queue", name, "error", err)
	}
	c.JSON(code, v1.Error{Error: err.Error()})
}

func statusCode(err error) int {
	switch {
	case srvErrors.IsQueueNotFoundError(err):
		return http.StatusNotFound
	case srvErrors.IsQueueNotStartedError(err),
		srvErrors.IsQueueClosedError(err),
		srvErrors.IsQueueAlreadyStartedError(err):
		return http.StatusConflict
	case srvErrors.IsResourceExhaustedError(err),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
