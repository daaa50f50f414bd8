package pq

import "sync/atomic"

// Result is returned by callbacks to tell the worker what to do next.
type Result int

const (
	// Complete means "handled, do not run me again". Returned by an idle
	// callback it means "stop polling until real work arrives".
	Complete Result = iota
	// RepeatLater re-enqueues the event at the tail of the queue. Returned by
	// an idle callback it means "keep polling me".
	RepeatLater
)

func (r Result) String() string {
	switch r {
	case Complete:
		return "complete"
	case RepeatLater:
		return "repeat_later"
	default:
		return "unknown"
	}
}

// Callback is run on the worker of h. It is also the signature of idle callbacks.
type Callback func(h *Handle, arg any) Result

// LegacyCallback is a fire-and-forget callback. It runs before Callback and is never repeated.
type LegacyCallback func(arg any)

// Event is one unit of deferred work. It is copied into the queue by Invoke
// and consumed exactly once by the worker. An event without callbacks only
// wakes the worker, which resets the idle count.
type Event struct {
	callback Callback
	legacy   LegacyCallback
	arg      any
	owner    *Handle
}

// State is the current phase of a worker.
type State int32

const (
	StateStopped State = iota
	StateDraining
	StateIdling
	StateSuspended
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateDraining:
		return "draining"
	case StateIdling:
		return "idling"
	case StateSuspended:
		return "suspended"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stats is a snapshot of the counters of a Handle.
type Stats struct {
	Enqueued  uint64
	Rejected  uint64
	Executed  uint64
	Repeated  uint64
	IdlePolls uint64
	Panics    uint64
}

type counters struct {
	enqueued  atomic.Uint64
	rejected  atomic.Uint64
	executed  atomic.Uint64
	repeated  atomic.Uint64
	idlePolls atomic.Uint64
	panics    atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Enqueued:  c.enqueued.Load(),
		Rejected:  c.rejected.Load(),
		Executed:  c.executed.Load(),
		Repeated:  c.repeated.Load(),
		IdlePolls: c.idlePolls.Load(),
		Panics:    c.panics.Load(),
	}
}
