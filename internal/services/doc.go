// Package services implements the application layer on top of pkg/pq.
//
// Handlers and the CLI never touch pq.Handle directly for lookups; they go
// through QueueService, which owns the named queues of the process.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints)      cmd/pq run
//	    │                              │
//	    ▼                              ▼
//	QueueService ◄──────────── Demo, InterruptSimulator
//	    │
//	    ▼
//	pq.Handle (one worker per queue)
//
// # QueueService
//
// A mutex-protected registry of handles keyed by name, kept in registration
// order.
//
//	svc := services.NewQueueService(pq.WithObserver(metrics))
//	svc.OnRegister(metrics.Track)
//	h, err := svc.Create(pq.Config{Name: "sensors", QueueCapacity: 16})
//	err = svc.StartAll()
//	status, err := svc.Status("sensors")
//	dropped, err := svc.Purge(ctx, "sensors")
//	svc.Close()
//
// Options given to NewQueueService apply to every queue built by Create.
// Unknown names fail with QueueNotFoundError, reused names with
// DuplicateQueueError.
//
// Purge does not reset the queue from the caller goroutine. It inserts a
// callback at the front of the queue and that callback drops the rest, so no
// callback of the queue can be enqueueing at the same time:
//
//	before:  [e1] [e2] [e3]
//	Purge:   [purge] [e1] [e2] [e3]
//	worker:  purge runs → [] → worker goes idle
//
// # EnqueueWithRetry
//
// Post with exponential backoff (cenkalti/backoff) while the queue is full or
// the bounded wait expires. Misuse errors (unknown handle, closed queue) are
// permanent and returned at once.
//
// # Submit
//
// Submit runs a function on a queue worker and returns a models.Future
// carrying its result. A panic in the function is delivered as an error.
//
//	f, err := services.Submit(ctx, h, func(ctx context.Context) (int, error) {
//	    return readSensor(ctx)
//	})
//	r := <-f.C()
//
// # Demo
//
// Demo plays a fixed scenario on queue "PqTask":
//
//	t=0            start, idle hook polled every IdleInterval
//	               poll 0: "just became idle", keep polling
//	               poll 5: suspend
//	t=IdleWait     enqueue pq0 pq1 pq2, pq3 at the front, pq4
//	               pq0..pq3 re-enqueue themselves by hand
//	               pq4 returns RepeatLater
//	+RunFor        front-insert a purge, queue goes back to idle
//	+Settle        end
//
// # InterruptSimulator
//
// Calls PostFromISR at a rate set by a token bucket (golang.org/x/time/rate).
// Posts that find the queue full are dropped and counted, as an interrupt
// handler would.
package services
