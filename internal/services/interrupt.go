package services

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kubev2v/parallel-queue/pkg/pq"
)

// InterruptSimulator posts events from a simulated interrupt context at a
// fixed rate. Posts never block; those that find the queue full are dropped
// and counted.
type InterruptSimulator struct {
	h        *pq.Handle
	limiter  *rate.Limiter
	handler  pq.Callback
	seq      atomic.Uint64
	accepted atomic.Uint64
	dropped  atomic.Uint64
	log      *zap.SugaredLogger
}

// NewInterruptSimulator fires perSecond interrupts on h, up to burst back to
// back. A nil handler only logs the interrupt sequence number.
func NewInterruptSimulator(h *pq.Handle, perSecond float64, burst int, handler pq.Callback) *InterruptSimulator {
	if burst < 1 {
		burst = 1
	}
	s := &InterruptSimulator{
		h:       h,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		handler: handler,
		log:     zap.S().Named("interrupts"),
	}
	if s.handler == nil {
		s.handler = func(_ *pq.Handle, arg any) pq.Result {
			s.log.Debugw("interrupt handled", "seq", arg)
			return pq.Complete
		}
	}
	return s
}

// Run fires interrupts until ctx is done.
func (s *InterruptSimulator) Run(ctx context.Context) error {
	s.log.Infow("interrupt simulator started", "queue", s.h.Name, "rate", float64(s.limiter.Limit()))
	defer s.log.Infow("interrupt simulator stopped", "accepted", s.Accepted(), "dropped", s.Dropped())

	for {
		if err := s.limiter.Wait(ctx); err != nil {
			// Wait also fails early when the next token is due after the deadline.
			<-ctx.Done()
			return nil
		}
		_ = s.Fire()
	}
}

// Fire posts one event from interrupt context.
func (s *InterruptSimulator) Fire() error {
	seq := s.seq.Add(1)
	if err := s.h.PostFromISR(s.handler, seq); err != nil {
		s.dropped.Add(1)
		s.log.Debugw("interrupt dropped", "seq", seq, "error", err)
		return err
	}
	s.accepted.Add(1)
	return nil
}

func (s *InterruptSimulator) Accepted() uint64 { return s.accepted.Load() }

func (s *InterruptSimulator) Dropped() uint64 { return s.dropped.Load() }
