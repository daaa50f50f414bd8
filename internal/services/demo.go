package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/parallel-queue/internal/config"
	"github.com/kubev2v/parallel-queue/pkg/pq"
)

const demoIdleArg = "IDLE ARG"

// Demo walks a parallel queue through its life: idling, draining callbacks
// that keep re-enqueueing themselves, a front insertion and a purge that sends
// the worker back to idle.
type Demo struct {
	cfg config.Demo
	svc *QueueService
	h   *pq.Handle
	log *zap.SugaredLogger
}

func NewDemo(svc *QueueService, cfg config.Demo) *Demo {
	return &Demo{
		cfg: cfg,
		svc: svc,
		log: zap.S().Named("demo"),
	}
}

// Handle returns the demo queue, nil until Setup ran.
func (d *Demo) Handle() *pq.Handle {
	return d.h
}

// Setup creates and starts the demo queue. Calling it again returns the same queue.
func (d *Demo) Setup() (*pq.Handle, error) {
	if d.h != nil {
		return d.h, nil
	}

	d.log.Infow("scheduler tick", "hz", int(time.Second/pq.DefaultTick))

	h, err := d.svc.Create(pq.Config{
		Name:         d.cfg.Queue,
		IdleInterval: d.cfg.IdleInterval,
		Priority:     pq.DefaultPriority + 1,
	}, pq.WithIdleCallback(d.idle, demoIdleArg))
	if err != nil {
		return nil, err
	}
	if err := h.Start(); err != nil {
		return nil, err
	}

	d.h = h
	return h, nil
}

// Run plays the scenario, calling Setup first if needed. The queue stays
// registered afterwards. Cancelling ctx ends the scenario early.
func (d *Demo) Run(ctx context.Context) error {
	h, err := d.Setup()
	if err != nil {
		return err
	}

	if !d.sleep(ctx, d.cfg.IdleWait) {
		return nil
	}

	d.log.Info("enqueueing demo events")
	steps := []struct {
		cb      pq.Callback
		arg     string
		toFront bool
	}{
		{d.loop, "pq0", false},
		{d.loop, "pq1", false},
		{d.loop, "pq2", false},
		{d.loop, "pq3 :-)", true},
		{d.repeat, "pq4", false},
	}
	for _, s := range steps {
		if err := InvokeWithRetry(ctx, h, s.cb, s.arg, s.toFront); err != nil {
			d.log.Warnw("cannot enqueue demo event", "arg", s.arg, "error", err)
		}
	}

	if !d.sleep(ctx, d.cfg.RunFor) {
		return nil
	}
	if err := InvokeWithRetry(ctx, h, d.purge, nil, true); err != nil {
		d.log.Warnw("cannot enqueue purge", "error", err)
	}

	if !d.sleep(ctx, d.cfg.Settle) {
		return nil
	}
	d.log.Info("end of parallel queue demo")
	return nil
}

// loop logs, pauses and re-enqueues itself at the tail by hand. Going to the
// front instead would starve every other event.
func (d *Demo) loop(h *pq.Handle, arg any) pq.Result {
	d.log.Infow("demo event", "arg", arg)
	time.Sleep(d.cfg.Pause)

	if err := h.Post(d.loop, arg); err != nil {
		d.log.Debugw("demo event not re-enqueued", "arg", arg, "error", err)
	}
	return pq.Complete
}

// repeat asks the worker to re-enqueue it.
func (d *Demo) repeat(_ *pq.Handle, arg any) pq.Result {
	d.log.Infow("demo event", "arg", arg)
	return pq.RepeatLater
}

func (d *Demo) purge(h *pq.Handle, _ any) pq.Result {
	n := h.Purge()
	d.log.Infow("dequeueing demo events, going back to idle", "dropped", n)
	return pq.Complete
}

// idle skips the first poll to stay responsive, then waits until the queue has
// been idle for SuspendAfter intervals before suspending.
func (d *Demo) idle(h *pq.Handle, arg any) pq.Result {
	if h.IdleCount() == 0 {
		d.log.Infow("queue just became idle, not doing anything yet", "arg", arg)
		return pq.RepeatLater
	}
	d.log.Infow("queue is idle", "arg", arg, "idle_for", h.IdleFor())

	if h.IdleCount() >= d.cfg.SuspendAfter {
		d.log.Infow("queue idle for long enough, doing chores and suspending", "arg", arg)
		return pq.Complete
	}
	return pq.RepeatLater
}

func (d *Demo) sleep(ctx context.Context, dur time.Duration) bool {
	t := time.NewTimer(dur)
	defer t.Stop()

	select {
	case <-ctx.Done():
		d.log.Info("demo interrupted")
		return false
	case <-t.C:
		return true
	}
}
