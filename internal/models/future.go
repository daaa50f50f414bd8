package models

import (
	"context"
)

// Result carries the outcome of work run on a queue worker.
type Result[T any] struct {
	Data T
	Err  error
}

// Future delivers exactly one value on C, unless stopped before the work ran.
type Future[T any] struct {
	input  chan T
	cancel context.CancelFunc
}

func NewFuture[T any](input chan T, cancel context.CancelFunc) *Future[T] {
	f := &Future[T]{
		input:  input,
		cancel: cancel,
	}

	return f
}

func (f *Future[T]) C() chan T {
	return f.input
}

// Stop skips the work if it has not started yet.
func (f *Future[T]) Stop() {
	f.cancel()
}
