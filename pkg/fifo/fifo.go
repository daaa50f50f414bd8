package fifo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// MaxCapacity is the largest capacity New accepts.
const MaxCapacity = 1 << 16

var (
	ErrFull            = errors.New("fifo: full")
	ErrTimeout         = errors.New("fifo: timed out")
	ErrInvalidCapacity = errors.New("fifo: invalid capacity")
)

type queue[T any] []T

func (q *queue[T]) Len() int { return len(*q) }

func (q *queue[T]) Pop() T {
	old := *q
	x := old[0]
	var zero T
	old[0] = zero
	*q = old[1:]
	return x
}

func (q *queue[T]) Peek() T {
	return (*q)[0]
}

func (q *queue[T]) Push(t T) {
	*q = append(*q, t)
}

func (q *queue[T]) Reset() {
	clear(*q)
	*q = (*q)[:0]
}

// Queue is a bounded FIFO safe for any number of concurrent senders and receivers.
type Queue[T any] struct {
	mu       sync.Mutex
	capacity int
	express  queue[T]
	normal   queue[T]
	notEmpty chan struct{}
	notFull  chan struct{}
}

// New allocates a Queue holding at most capacity items.
func New[T any](capacity int) (*Queue[T], error) {
	if capacity < 1 || capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidCapacity, capacity, MaxCapacity)
	}
	return &Queue[T]{
		capacity: capacity,
		express:  make(queue[T], 0, capacity),
		normal:   make(queue[T], 0, capacity),
	}, nil
}

// TrySend adds v without waiting. ok is false when the queue is full.
// woke reports whether a receiver parked in Peek was released by this send.
func (q *Queue[T]) TrySend(v T, front bool) (ok bool, woke bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.lenLocked() >= q.capacity {
		return false, false
	}
	q.pushLocked(v, front)
	return true, q.broadcastLocked(&q.notEmpty)
}

// Send adds v, waiting up to timeout for space. A negative timeout waits forever,
// a zero timeout never waits.
func (q *Queue[T]) Send(ctx context.Context, v T, front bool, timeout time.Duration) error {
	var deadline <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}

	for {
		q.mu.Lock()
		if q.lenLocked() < q.capacity {
			q.pushLocked(v, front)
			q.broadcastLocked(&q.notEmpty)
			q.mu.Unlock()
			return nil
		}
		if timeout == 0 {
			q.mu.Unlock()
			return ErrFull
		}
		wait := q.waitLocked(&q.notFull)
		q.mu.Unlock()

		select {
		case <-wait:
		case <-deadline:
			return ErrTimeout
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// TryReceive removes and returns the head item, if any.
func (q *Queue[T]) TryReceive() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var v T
	switch {
	case q.express.Len() > 0:
		v = q.express.Pop()
	case q.normal.Len() > 0:
		v = q.normal.Pop()
	default:
		return v, false
	}
	q.broadcastLocked(&q.notFull)
	return v, true
}

// Peek waits up to timeout for the queue to be non-empty and returns the head
// item without removing it. A negative timeout waits forever, a zero timeout
// never waits.
func (q *Queue[T]) Peek(ctx context.Context, timeout time.Duration) (T, bool) {
	var deadline <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}

	var zero T
	for {
		q.mu.Lock()
		switch {
		case q.express.Len() > 0:
			v := q.express.Peek()
			q.mu.Unlock()
			return v, true
		case q.normal.Len() > 0:
			v := q.normal.Peek()
			q.mu.Unlock()
			return v, true
		}
		if timeout == 0 {
			q.mu.Unlock()
			return zero, false
		}
		wait := q.waitLocked(&q.notEmpty)
		q.mu.Unlock()

		select {
		case <-wait:
		case <-deadline:
			return zero, false
		case <-ctx.Done():
			return zero, false
		}
	}
}

// Reset drops every queued item and returns how many were dropped.
func (q *Queue[T]) Reset() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := q.lenLocked()
	q.express.Reset()
	q.normal.Reset()
	if n > 0 {
		q.broadcastLocked(&q.notFull)
	}
	return n
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lenLocked()
}

func (q *Queue[T]) Cap() int {
	return q.capacity
}

func (q *Queue[T]) lenLocked() int {
	return q.express.Len() + q.normal.Len()
}

// front items go to the express lane: ahead of every normal item, FIFO among themselves.
func (q *Queue[T]) pushLocked(v T, front bool) {
	if front {
		q.express.Push(v)
		return
	}
	q.normal.Push(v)
}

func (q *Queue[T]) waitLocked(c *chan struct{}) <-chan struct{} {
	if *c == nil {
		*c = make(chan struct{})
	}
	return *c
}

// broadcastLocked releases every waiter on c and reports whether there was any.
func (q *Queue[T]) broadcastLocked(c *chan struct{}) bool {
	if *c == nil {
		return false
	}
	close(*c)
	*c = nil
	return true
}
