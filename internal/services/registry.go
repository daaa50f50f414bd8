package services

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/kubev2v/parallel-queue/internal/models"
	srvErrors "github.com/kubev2v/parallel-queue/pkg/errors"
	"github.com/kubev2v/parallel-queue/pkg/pq"
)

// QueueService keeps the named parallel queues of the process.
type QueueService struct {
	mu     sync.Mutex
	queues map[string]*pq.Handle
	order  []string
	opts   []pq.Option
	hooks  []func(*pq.Handle)
	log    *zap.SugaredLogger
}

// NewQueueService returns an empty registry. opts are applied to every queue
// built with Create, before the per-queue options.
func NewQueueService(opts ...pq.Option) *QueueService {
	return &QueueService{
		queues: make(map[string]*pq.Handle),
		opts:   opts,
		log:    zap.S().Named("queue_service"),
	}
}

// OnRegister adds fn to the functions called with every handle registered
// from now on.
func (s *QueueService) OnRegister(fn func(*pq.Handle)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Create builds a handle from cfg and registers it. The handle is not started.
func (s *QueueService) Create(cfg pq.Config, opts ...pq.Option) (*pq.Handle, error) {
	all := make([]pq.Option, 0, len(s.opts)+len(opts)+1)
	all = append(all, pq.WithConfig(cfg))
	all = append(all, s.opts...)
	all = append(all, opts...)

	h := pq.NewHandle(all...)
	if err := s.Register(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Register adds h under its name. Names are unique.
func (s *QueueService) Register(h *pq.Handle) error {
	if h == nil {
		return srvErrors.NewInvalidHandleError()
	}

	s.mu.Lock()
	if _, ok := s.queues[h.Name]; ok {
		s.mu.Unlock()
		return srvErrors.NewDuplicateQueueError(h.Name)
	}
	s.queues[h.Name] = h
	s.order = append(s.order, h.Name)
	hooks := slices.Clone(s.hooks)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(h)
	}
	s.log.Debugw("queue registered", "queue", h.Name)
	return nil
}

func (s *QueueService) Start(name string) error {
	h, err := s.Get(name)
	if err != nil {
		return err
	}
	return h.Start()
}

// StartAll starts every registered queue that is not running yet.
func (s *QueueService) StartAll() error {
	var errs []error
	for _, h := range s.handles() {
		if h.Started() {
			continue
		}
		if err := h.Start(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *QueueService) Get(name string) (*pq.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.queues[name]
	if !ok {
		return nil, srvErrors.NewQueueNotFoundError(name)
	}
	return h, nil
}

// List returns the status of every queue in registration order.
func (s *QueueService) List() []models.QueueStatus {
	handles := s.handles()
	statuses := make([]models.QueueStatus, 0, len(handles))
	for _, h := range handles {
		statuses = append(statuses, status(h))
	}
	return statuses
}

func (s *QueueService) Status(name string) (models.QueueStatus, error) {
	h, err := s.Get(name)
	if err != nil {
		return models.QueueStatus{}, err
	}
	return status(h), nil
}

// Ping enqueues an empty event on the named queue, resetting its idle count.
func (s *QueueService) Ping(name string, toFront bool) error {
	h, err := s.Get(name)
	if err != nil {
		return err
	}
	return h.Ping(toFront)
}

// Purge drops the queued events of the named queue. The purge itself runs on
// the queue worker, ahead of the queued events, so no callback of that queue
// enqueues at the same time. When ctx ends first the purge is called off
// unless the worker already started it.
func (s *QueueService) Purge(ctx context.Context, name string) (int, error) {
	h, err := s.Get(name)
	if err != nil {
		return 0, err
	}

	future, err := SubmitFront(ctx, h, func(context.Context) (int, error) {
		return h.Purge(), nil
	})
	if err != nil {
		return 0, err
	}

	select {
	case r := <-future.C():
		if r.Err != nil {
			return 0, r.Err
		}
		s.log.Infow("queue purged", "queue", name, "dropped", r.Data)
		return r.Data, nil
	case <-ctx.Done():
		future.Stop()
		return 0, ctx.Err()
	}
}

// Close closes every queue. The service must not be used afterwards.
func (s *QueueService) Close() {
	for _, h := range s.handles() {
		h.Close()
	}
}

func (s *QueueService) handles() []*pq.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handles := make([]*pq.Handle, 0, len(s.order))
	for _, name := range s.order {
		handles = append(handles, s.queues[name])
	}
	return handles
}

func status(h *pq.Handle) models.QueueStatus {
	st := h.Stats()
	return models.QueueStatus{
		ID:        h.ID(),
		Name:      h.Name,
		State:     workerState(h.State()),
		Waiting:   h.Waiting(),
		Capacity:  h.Capacity(),
		IdleCount: h.IdleCount(),
		IdleFor:   h.IdleFor(),
		Stats: models.QueueStats{
			Enqueued:  st.Enqueued,
			Rejected:  st.Rejected,
			Executed:  st.Executed,
			Repeated:  st.Repeated,
			IdlePolls: st.IdlePolls,
			Panics:    st.Panics,
		},
	}
}

func workerState(s pq.State) models.WorkerState {
	switch s {
	case pq.StateDraining:
		return models.WorkerStateDraining
	case pq.StateIdling:
		return models.WorkerStateIdling
	case pq.StateSuspended:
		return models.WorkerStateSuspended
	case pq.StateClosed:
		return models.WorkerStateClosed
	default:
		return models.WorkerStateStopped
	}
}
