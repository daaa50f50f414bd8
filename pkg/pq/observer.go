package pq

import "time"

// Observer receives notifications about a handle. Enqueued and Rejected are
// called from producers, every other method from the worker. Implementations
// must be safe for concurrent use and must not block.
type Observer interface {
	Enqueued(queue string, toFront, fromISR bool)
	Rejected(queue string, err error)
	Executed(queue string, elapsed time.Duration, result Result)
	Repeated(queue string)
	IdlePolled(queue string, result Result)
	Panicked(queue string, v any)
	StateChanged(queue string, state State)
}

type NopObserver struct{}

func (NopObserver) Enqueued(string, bool, bool)            {}
func (NopObserver) Rejected(string, error)                 {}
func (NopObserver) Executed(string, time.Duration, Result) {}
func (NopObserver) Repeated(string)                        {}
func (NopObserver) IdlePolled(string, Result)              {}
func (NopObserver) Panicked(string, any)                   {}
func (NopObserver) StateChanged(string, State)             {}
