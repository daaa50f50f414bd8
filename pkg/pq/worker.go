package pq

import (
	"context"
	"fmt"
	"time"

	"github.com/kubev2v/parallel-queue/pkg/fifo"
)

// run is the worker loop: drain every ready event, then idle until a new one
// shows up. It returns only when the handle is closed.
func (h *Handle) run(ctx context.Context, w *worker, q *fifo.Queue[Event]) {
	defer close(w.done)

	h.log.Debugw("worker running", "id", w.id)

	for {
		h.setState(StateDraining)
		for ctx.Err() == nil {
			e, ok := q.TryReceive()
			if !ok {
				break
			}
			h.dispatch(e)
		}
		if ctx.Err() != nil {
			return
		}

		h.idleCount.Store(0)
		if !h.idle(ctx, q) {
			return
		}
		h.idleCount.Store(0)
	}
}

// idle polls the idle callback every IdleInterval while the queue stays empty.
// Without a callback, or once it returns Complete, the worker suspends until
// an event arrives. It returns false when ctx is done.
func (h *Handle) idle(ctx context.Context, q *fifo.Queue[Event]) bool {
	interval := h.IdleInterval.Std(h.tick())

	for {
		h.setState(StateIdling)
		if h.IdleCallback == nil || h.idleOnce() == Complete {
			h.setState(StateSuspended)
			_, ok := q.Peek(ctx, -1)
			return ok
		}

		h.idleCount.Add(1)
		if _, ok := q.Peek(ctx, interval); ok {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
	}
}

func (h *Handle) idleOnce() Result {
	r := h.safeCall(func() Result {
		return h.IdleCallback(h, h.IdleArg)
	})
	h.stats.idlePolls.Add(1)
	h.obs.IdlePolled(h.Name, r)
	return r
}

func (h *Handle) dispatch(e Event) {
	if e.legacy == nil && e.callback == nil {
		return
	}

	start := time.Now()
	if e.legacy != nil {
		h.safeCall(func() Result {
			e.legacy(e.arg)
			return Complete
		})
	}

	r := Complete
	if e.callback != nil {
		r = h.safeCall(func() Result {
			return e.callback(e.owner, e.arg)
		})
	}
	h.stats.executed.Add(1)
	h.obs.Executed(h.Name, time.Since(start), r)

	if r != RepeatLater {
		return
	}
	if err := h.Invoke(e.callback, nil, e.arg, false, false); err != nil {
		h.log.Warnw("cannot re-enqueue callback", "error", err)
		return
	}
	h.stats.repeated.Add(1)
	h.obs.Repeated(h.Name)
}

// safeCall turns a panicking callback into Complete.
func (h *Handle) safeCall(fn func() Result) (r Result) {
	defer func() {
		if rec := recover(); rec != nil {
			h.stats.panics.Add(1)
			h.log.Errorw("callback panicked", "panic", fmt.Sprint(rec))
			h.obs.Panicked(h.Name, rec)
			r = Complete
		}
	}()
	return fn()
}
