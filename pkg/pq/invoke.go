package pq

import (
	"errors"
	"runtime"

	srvErrors "github.com/kubev2v/parallel-queue/pkg/errors"
	"github.com/kubev2v/parallel-queue/pkg/fifo"
)

// Invoke enqueues an event carrying cb, legacy and arg.
//
// With fromISR set the call never blocks: it fails at once when the queue is
// full and yields the processor when the send woke the worker. Otherwise it
// waits up to SendTimeout for space. The wait is bounded so a callback that
// enqueues on its own full queue fails instead of blocking the only consumer.
//
// toFront places the event ahead of everything queued so far. A callback that
// keeps re-enqueueing itself to the front starves the rest of the queue.
//
// On failure nothing is enqueued.
func (h *Handle) Invoke(cb Callback, legacy LegacyCallback, arg any, fromISR, toFront bool) error {
	if h == nil {
		return srvErrors.NewInvalidHandleError()
	}
	q := h.queue.Load()
	if q == nil {
		return srvErrors.NewQueueNotStartedError(h.Name)
	}
	if h.closed.Load() {
		return h.reject(srvErrors.NewQueueClosedError(h.Name))
	}

	e := Event{callback: cb, legacy: legacy, arg: arg, owner: h}

	if fromISR {
		ok, woke := q.TrySend(e, toFront)
		if !ok {
			return h.reject(srvErrors.NewQueueFullError(h.Name, q.Cap()))
		}
		h.accepted(toFront, true)
		if woke {
			runtime.Gosched()
		}
		return nil
	}

	timeout := h.sendTimeout
	if err := q.Send(h.lifetime(), e, toFront, timeout); err != nil {
		switch {
		case errors.Is(err, fifo.ErrTimeout):
			err = srvErrors.NewSendTimeoutError(h.Name, timeout)
		case errors.Is(err, fifo.ErrFull):
			err = srvErrors.NewQueueFullError(h.Name, q.Cap())
		default:
			err = srvErrors.NewQueueClosedError(h.Name)
		}
		return h.reject(err)
	}
	h.accepted(toFront, false)
	return nil
}

// Post enqueues cb at the tail from a normal context.
func (h *Handle) Post(cb Callback, arg any) error {
	return h.Invoke(cb, nil, arg, false, false)
}

// PostFront enqueues cb at the front from a normal context.
func (h *Handle) PostFront(cb Callback, arg any) error {
	return h.Invoke(cb, nil, arg, false, true)
}

// PostFromISR enqueues cb at the tail without ever blocking.
func (h *Handle) PostFromISR(cb Callback, arg any) error {
	return h.Invoke(cb, nil, arg, true, false)
}

// Ping enqueues an empty event. It wakes an idle worker and resets the idle count.
func (h *Handle) Ping(toFront bool) error {
	return h.Invoke(nil, nil, nil, false, toFront)
}

func (h *Handle) accepted(toFront, fromISR bool) {
	h.stats.enqueued.Add(1)
	if h.obs != nil {
		h.obs.Enqueued(h.Name, toFront, fromISR)
	}
}

func (h *Handle) reject(err error) error {
	h.stats.rejected.Add(1)
	if h.obs != nil {
		h.obs.Rejected(h.Name, err)
	}
	return err
}
