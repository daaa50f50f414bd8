package services

import (
	"context"
	"fmt"

	"github.com/kubev2v/parallel-queue/internal/models"
	"github.com/kubev2v/parallel-queue/pkg/pq"
)

// Work is run on a queue worker by Submit.
type Work[T any] func(ctx context.Context) (T, error)

// Submit runs work on the worker of h and returns a future for its result.
// Stopping the future, or cancelling ctx, before the worker reaches the event
// skips the work and delivers the context error instead.
func Submit[T any](ctx context.Context, h *pq.Handle, work Work[T]) (*models.Future[models.Result[T]], error) {
	return submit(ctx, h, work, false)
}

// SubmitFront is Submit with the work placed ahead of the queued events.
func SubmitFront[T any](ctx context.Context, h *pq.Handle, work Work[T]) (*models.Future[models.Result[T]], error) {
	return submit(ctx, h, work, true)
}

func submit[T any](ctx context.Context, h *pq.Handle, work Work[T], toFront bool) (*models.Future[models.Result[T]], error) {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan models.Result[T], 1)

	err := h.Invoke(func(_ *pq.Handle, _ any) pq.Result {
		defer cancel()
		defer func() {
			if rec := recover(); rec != nil {
				out <- models.Result[T]{Err: fmt.Errorf("work panicked: %v", rec)}
			}
		}()

		if err := ctx.Err(); err != nil {
			out <- models.Result[T]{Err: err}
			return pq.Complete
		}
		v, err := work(ctx)
		out <- models.Result[T]{Data: v, Err: err}
		return pq.Complete
	}, nil, nil, false, toFront)
	if err != nil {
		cancel()
		return nil, err
	}

	return models.NewFuture(out, cancel), nil
}
