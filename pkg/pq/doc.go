// Package pq implements parallel queues: per-queue cooperative schedulers.
//
// Each Handle owns exactly one bounded FIFO of events and exactly one worker
// goroutine that drains it. Producers, including interrupt-like contexts that
// must never block, enqueue callbacks with Invoke. The worker runs them one at
// a time, in order, to completion. While the queue is empty the worker can poll
// an idle callback on a timer.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                              Handle                                 │
//	│                                                                     │
//	│   producers                 FIFO (bounded)                 worker   │
//	│  ┌──────────┐   Invoke   ┌───────────────────┐  TryReceive ┌──────┐ │
//	│  │ goroutine│──────────► │ [f1] [e1] [e2] .. │───────────► │ run()│ │
//	│  └──────────┘  (waits)   └───────────────────┘             └──┬───┘ │
//	│  ┌──────────┐   Invoke          ▲  ▲                          │     │
//	│  │ "ISR"    │──────────────────-┘  │ re-enqueue (RepeatLater) │     │
//	│  └──────────┘  (never waits)       └──────────────────────────┘     │
//	│                                                                     │
//	│   IdleCallback ◄──── polled every IdleInterval while FIFO empty     │
//	└─────────────────────────────────────────────────────────────────────┘
//
// Handles are fully independent: there is no ordering between queues.
//
// # Lifecycle
//
//	h := pq.NewHandle(
//	    pq.WithName("sensors"),
//	    pq.WithQueueCapacity(16),
//	    pq.WithIdleCallback(housekeeping, nil),
//	    pq.WithIdleInterval(pq.Milliseconds(500)),
//	)
//	if err := h.Start(); err != nil {
//	    return err
//	}
//
// SetDefaults (or NewHandle) fills the configuration:
//
//	┌───────────────┬──────────────────┬──────────────────────────────────┐
//	│ Field         │ Default          │ Description                      │
//	├───────────────┼──────────────────┼──────────────────────────────────┤
//	│ Name          │ "PQ"             │ Worker name in logs and metrics  │
//	│ IdleInterval  │ 1000ms           │ Period between idle polls        │
//	│ Priority      │ 5                │ Passed to the Spawner            │
//	│ StackSize     │ 0 → 8192 @Start  │ Passed to the Spawner            │
//	│ QueueCapacity │ 0 → 32 @Start    │ FIFO capacity                    │
//	│ SendTimeout   │ 10 ticks         │ Max wait of the blocking Invoke  │
//	│ Tick          │ 10ms             │ Length of one tick               │
//	└───────────────┴──────────────────┴──────────────────────────────────┘
//
// Start allocates the FIFO and spawns the worker. It can succeed only once
// per handle. The configuration must not change after Start.
//
// # Enqueue
//
//	h.Invoke(cb, legacy, arg, fromISR, toFront)
//
//   - fromISR=false waits up to SendTimeout for space, then fails. Start
//     refuses an infinite SendTimeout: the worker re-enqueues on its own
//     queue, and an unbounded wait there would never end.
//   - fromISR=true never waits. When the send woke the worker the caller
//     yields the processor before returning.
//   - toFront=true puts the event ahead of everything already queued. Front
//     events keep their own order. A callback that re-enqueues itself to the
//     front forever starves everything else.
//
// Post, PostFront, PostFromISR and Ping are shorthands.
//
// # Worker State Machine
//
//	            ┌──────────────────────────────────────────────┐
//	            ▼                                              │
//	     ┌────────────┐   FIFO empty    ┌──────────┐  event    │
//	────►│  Draining  │────────────────►│  Idling  │───────────┤
//	     └────────────┘  idleCount = 0  └────┬─────┘  arrived  │
//	                                         │                 │
//	              no IdleCallback, or it     │                 │
//	              returned Complete          ▼                 │
//	                                   ┌───────────┐   event   │
//	                                   │ Suspended │───────────┘
//	                                   └───────────┘
//
// Draining removes events one by one:
//  1. the LegacyCallback runs, if any; it is never repeated
//  2. the Callback runs, if any, with the owning handle
//  3. RepeatLater re-enqueues the same callback and argument at the tail
//
// Idling calls IdleCallback with IdleArg. RepeatLater means "poll me again":
// idleCount is incremented and the worker waits up to IdleInterval for an
// event. Complete means "stop polling": the worker suspends until an event
// arrives. In both cases an arrival goes back to Draining and resets
// idleCount.
//
// # Idle Count
//
// IdleCount is 0 on the first idle poll, 1 on the second and so on. A callback
// can use it to run something promptly when the queue becomes idle, then back
// off to periodic low-priority chores, then suspend:
//
//	func chores(h *pq.Handle, _ any) pq.Result {
//	    if h.IdleCount() == 0 {
//	        return pq.RepeatLater // just became idle, stay responsive
//	    }
//	    if h.IdleFor() < 5*time.Second {
//	        return pq.RepeatLater
//	    }
//	    housekeeping()
//	    return pq.Complete // suspend until new work arrives
//	}
//
// IdleFor is IdleCount times IdleInterval. It does not account for callback
// run time, so it drifts. Ping enqueues an empty event, which resets the count
// (for example to feed an idle watchdog).
//
// # Failure
//
// No operation panics. Misuse (nil handle, double Start, Invoke before Start,
// Invoke after Close) and resource exhaustion (full queue, timeout, allocation
// or spawn failure) are reported as errors, see pkg/errors. A callback that
// panics is logged and treated as Complete. A callback that never returns, or
// keeps returning RepeatLater, owns the worker forever; nothing detects it.
//
// # Concurrency
//
// The FIFO is the only shared resource. The idle fields are only written by
// the worker; callbacks running on it may read them. Queued events cannot be
// cancelled; encode a "do nothing" check in the argument if needed.
package pq
