package pq

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/parallel-queue/pkg/errors"
	"github.com/kubev2v/parallel-queue/pkg/fifo"
)

// Handle identifies one queue and the worker draining it.
// Configure it with SetDefaults or NewHandle, then call Start exactly once.
type Handle struct {
	Config

	// IdleCallback runs on the worker while the queue is empty. See package docs.
	IdleCallback Callback
	IdleArg      any

	Spawner  Spawner
	Observer Observer
	Logger   *zap.SugaredLogger

	mu        sync.Mutex
	queue     atomic.Pointer[fifo.Queue[Event]]
	worker    atomic.Pointer[worker]
	closed    atomic.Bool
	closeOnce sync.Once
	idleCount atomic.Uint64
	state     atomic.Int32
	stats     counters
	log       *zap.SugaredLogger
	obs       Observer
	// sendTimeout is SendTimeout resolved at Start. It is always bounded.
	sendTimeout time.Duration
}

type worker struct {
	id     uuid.UUID
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Start allocates the queue and spawns the worker. It fails on a nil handle,
// on a handle that was already started, on an infinite SendTimeout, and when
// either resource cannot be created. A spawn failure leaves the queue allocated.
func (h *Handle) Start() error {
	if h == nil {
		return srvErrors.NewInvalidHandleError()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	log := h.Logger
	if log == nil {
		log = zap.S().Named("pq")
	}

	if h.queue.Load() != nil {
		log.Errorw("parallel queue already exists", "queue", h.Name)
		return srvErrors.NewQueueAlreadyStartedError(h.Name, "queue")
	}
	if h.worker.Load() != nil {
		log.Errorw("parallel queue worker already exists", "queue", h.Name)
		return srvErrors.NewQueueAlreadyStartedError(h.Name, "worker")
	}
	if h.closed.Load() {
		return srvErrors.NewQueueClosedError(h.Name)
	}

	h.Config.resolve()
	if h.SendTimeout.IsInfinite() {
		log.Errorw("parallel queue send timeout must be bounded", "queue", h.Name)
		return srvErrors.NewInvalidConfigError(h.Name, "send timeout", "must be bounded")
	}
	h.sendTimeout = h.SendTimeout.Std(h.Tick)
	h.log = log.With("queue", h.Name)
	h.obs = h.Observer
	if h.obs == nil {
		h.obs = NopObserver{}
	}

	q, err := fifo.New[Event](h.QueueCapacity)
	if err != nil {
		h.log.Errorw("cannot create parallel queue", "capacity", h.QueueCapacity, "error", err)
		return srvErrors.NewAllocationError(h.Name, h.QueueCapacity, err)
	}
	h.queue.Store(q)

	ctx, cancel := context.WithCancel(context.Background())
	w := &worker{
		id:     uuid.New(),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	spawner := h.Spawner
	if spawner == nil {
		spawner = GoSpawner{}
	}
	spec := WorkerSpec{
		ID:        w.id,
		Name:      h.Name,
		Priority:  h.Priority,
		StackSize: h.StackSize,
	}
	if err := spawner.Spawn(ctx, spec, func(ctx context.Context) { h.run(ctx, w, q) }); err != nil {
		cancel()
		h.log.Errorw("cannot create parallel queue worker", "error", err)
		return srvErrors.NewSpawnError(h.Name, err)
	}
	h.worker.Store(w)

	h.log.Infow("parallel queue started",
		"id", w.id,
		"capacity", h.QueueCapacity,
		"priority", h.Priority,
		"idle_interval", h.IdleInterval.String(),
	)

	return nil
}

// Close stops the worker after its running callback returns and drops every
// queued event. Later Invoke calls fail. Close must not be called from a
// callback running on the same handle.
func (h *Handle) Close() {
	if h == nil {
		return
	}
	h.closeOnce.Do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		h.closed.Store(true)
		if w := h.worker.Load(); w != nil {
			w.cancel()
			<-w.done
		}
		if q := h.queue.Load(); q != nil {
			q.Reset()
		}
		h.setState(StateClosed)
		if h.log != nil {
			h.log.Info("parallel queue closed")
		}
	})
}

// Waiting returns the number of queued events. The value is advisory only.
func (h *Handle) Waiting() int {
	if h == nil {
		return 0
	}
	q := h.queue.Load()
	if q == nil {
		return 0
	}
	return q.Len()
}

// Purge drops every queued event and returns how many were dropped. It is
// meant to be called from a callback running on this handle's worker, so that
// no other callback of the queue is enqueueing at the same time.
func (h *Handle) Purge() int {
	if h == nil {
		return 0
	}
	q := h.queue.Load()
	if q == nil {
		return 0
	}
	return q.Reset()
}

// IdleCount is the number of idle intervals elapsed since the queue became
// empty. It is zero while draining.
func (h *Handle) IdleCount() uint64 {
	if h == nil {
		return 0
	}
	return h.idleCount.Load()
}

// IdleFor is a rough idle duration, IdleCount times IdleInterval. Callback run
// time and state transitions are not accounted for, so it drifts.
func (h *Handle) IdleFor() time.Duration {
	if h == nil {
		return 0
	}
	interval := h.IdleInterval.Std(h.tick())
	if interval <= 0 {
		return 0
	}
	return time.Duration(h.IdleCount()) * interval
}

func (h *Handle) State() State {
	if h == nil {
		return StateStopped
	}
	return State(h.state.Load())
}

// ID is the identity of the worker, uuid.Nil until started.
func (h *Handle) ID() uuid.UUID {
	if h == nil {
		return uuid.Nil
	}
	if w := h.worker.Load(); w != nil {
		return w.id
	}
	return uuid.Nil
}

func (h *Handle) Started() bool {
	return h != nil && h.worker.Load() != nil
}

func (h *Handle) Capacity() int {
	if h == nil {
		return 0
	}
	if q := h.queue.Load(); q != nil {
		return q.Cap()
	}
	return h.QueueCapacity
}

func (h *Handle) Stats() Stats {
	if h == nil {
		return Stats{}
	}
	return h.stats.snapshot()
}

func (h *Handle) tick() time.Duration {
	if h.Tick <= 0 {
		return DefaultTick
	}
	return h.Tick
}

func (h *Handle) lifetime() context.Context {
	if w := h.worker.Load(); w != nil {
		return w.ctx
	}
	return context.Background()
}

func (h *Handle) setState(s State) {
	if State(h.state.Swap(int32(s))) != s && h.obs != nil {
		h.obs.StateChanged(h.Name, s)
	}
}
