package services

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/parallel-queue/pkg/errors"
	"github.com/kubev2v/parallel-queue/pkg/pq"
)

const defaultEnqueueTries = 5

// EnqueueWithRetry posts cb to h, retrying with exponential backoff while the
// queue is full. Misuse errors are returned at once. opts override the
// default policy of 5 tries.
func EnqueueWithRetry(ctx context.Context, h *pq.Handle, cb pq.Callback, arg any, opts ...backoff.RetryOption) error {
	return InvokeWithRetry(ctx, h, cb, arg, false, opts...)
}

// InvokeWithRetry is EnqueueWithRetry with a choice of queue end. It must not
// be called from a callback of h: the worker would wait on its own queue.
func InvokeWithRetry(ctx context.Context, h *pq.Handle, cb pq.Callback, arg any, toFront bool, opts ...backoff.RetryOption) error {
	log := zap.S().Named("producer")

	operation := func() (struct{}, error) {
		err := h.Invoke(cb, nil, arg, false, toFront)
		switch {
		case err == nil:
			return struct{}{}, nil
		case srvErrors.IsResourceExhaustedError(err):
			return struct{}{}, err
		default:
			return struct{}{}, backoff.Permanent(err)
		}
	}

	all := []backoff.RetryOption{
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(defaultEnqueueTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Debugw("enqueue failed, retrying", "error", err, "next", next)
		}),
	}
	all = append(all, opts...)

	_, err := backoff.Retry(ctx, operation, all...)
	return err
}
