package errors

import (
	"errors"
	"fmt"
	"time"
)

// InvalidHandleError is returned when an operation receives a nil handle.
type InvalidHandleError struct{}

func NewInvalidHandleError() *InvalidHandleError {
	return &InvalidHandleError{}
}

func (e *InvalidHandleError) Error() string {
	return "invalid queue handle"
}

func IsInvalidHandleError(err error) bool {
	var e *InvalidHandleError
	return errors.As(err, &e)
}

// QueueNotStartedError is returned when work is sent to a queue whose FIFO was never allocated.
type QueueNotStartedError struct {
	Name string
}

func NewQueueNotStartedError(name string) *QueueNotStartedError {
	return &QueueNotStartedError{Name: name}
}

func (e *QueueNotStartedError) Error() string {
	return fmt.Sprintf("queue %q not started", e.Name)
}

func IsQueueNotStartedError(err error) bool {
	var e *QueueNotStartedError
	return errors.As(err, &e)
}

// QueueAlreadyStartedError is returned by Start on a handle that already owns a FIFO or a worker.
type QueueAlreadyStartedError struct {
	Name     string
	Resource string
}

func NewQueueAlreadyStartedError(name, resource string) *QueueAlreadyStartedError {
	return &QueueAlreadyStartedError{Name: name, Resource: resource}
}

func (e *QueueAlreadyStartedError) Error() string {
	return fmt.Sprintf("queue %q already started: %s already exists", e.Name, e.Resource)
}

func IsQueueAlreadyStartedError(err error) bool {
	var e *QueueAlreadyStartedError
	return errors.As(err, &e)
}

// QueueClosedError is returned when work is sent to a queue after Close.
type QueueClosedError struct {
	Name string
}

func NewQueueClosedError(name string) *QueueClosedError {
	return &QueueClosedError{Name: name}
}

func (e *QueueClosedError) Error() string {
	return fmt.Sprintf("queue %q is closed", e.Name)
}

func IsQueueClosedError(err error) bool {
	var e *QueueClosedError
	return errors.As(err, &e)
}

// QueueFullError is returned by the non-blocking send path when there is no room left.
type QueueFullError struct {
	Name     string
	Capacity int
}

func NewQueueFullError(name string, capacity int) *QueueFullError {
	return &QueueFullError{Name: name, Capacity: capacity}
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("queue %q is full (capacity %d)", e.Name, e.Capacity)
}

func IsQueueFullError(err error) bool {
	var e *QueueFullError
	return errors.As(err, &e)
}

// SendTimeoutError is returned by the blocking send path when no room was made in time.
type SendTimeoutError struct {
	Name    string
	Timeout time.Duration
}

func NewSendTimeoutError(name string, timeout time.Duration) *SendTimeoutError {
	return &SendTimeoutError{Name: name, Timeout: timeout}
}

func (e *SendTimeoutError) Error() string {
	return fmt.Sprintf("queue %q: timed out after %s waiting for space", e.Name, e.Timeout)
}

func IsSendTimeoutError(err error) bool {
	var e *SendTimeoutError
	return errors.As(err, &e)
}

// AllocationError is returned by Start when the FIFO cannot be created.
type AllocationError struct {
	Name     string
	Capacity int
	Err      error
}

func NewAllocationError(name string, capacity int, err error) *AllocationError {
	return &AllocationError{Name: name, Capacity: capacity, Err: err}
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("cannot create queue %q with capacity %d: %v", e.Name, e.Capacity, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

func IsAllocationError(err error) bool {
	var e *AllocationError
	return errors.As(err, &e)
}

// SpawnError is returned by Start when the worker cannot be spawned.
type SpawnError struct {
	Name string
	Err  error
}

func NewSpawnError(name string, err error) *SpawnError {
	return &SpawnError{Name: name, Err: err}
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("cannot create worker for queue %q: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

func IsSpawnError(err error) bool {
	var e *SpawnError
	return errors.As(err, &e)
}

// QueueNotFoundError is returned when a queue name is not registered.
type QueueNotFoundError struct {
	Name string
}

func NewQueueNotFoundError(name string) *QueueNotFoundError {
	return &QueueNotFoundError{Name: name}
}

func (e *QueueNotFoundError) Error() string {
	return fmt.Sprintf("queue %q not found", e.Name)
}

func IsQueueNotFoundError(err error) bool {
	var e *QueueNotFoundError
	return errors.As(err, &e)
}

// DuplicateQueueError is returned when a queue name is registered twice.
type DuplicateQueueError struct {
	Name string
}

func NewDuplicateQueueError(name string) *DuplicateQueueError {
	return &DuplicateQueueError{Name: name}
}

func (e *DuplicateQueueError) Error() string {
	return fmt.Sprintf("queue %q already registered", e.Name)
}

func IsDuplicateQueueError(err error) bool {
	var e *DuplicateQueueError
	return errors.As(err, &e)
}

// InvalidDurationError is returned when a duration string cannot be parsed.
type InvalidDurationError struct {
	Value string
}

func NewInvalidDurationError(value string) *InvalidDurationError {
	return &InvalidDurationError{Value: value}
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration: %q", e.Value)
}

func IsInvalidDurationError(err error) bool {
	var e *InvalidDurationError
	return errors.As(err, &e)
}

// InvalidConfigError is returned by Start when a configuration value cannot be used.
type InvalidConfigError struct {
	Queue  string
	Field  string
	Reason string
}

func NewInvalidConfigError(queue, field, reason string) *InvalidConfigError {
	return &InvalidConfigError{Queue: queue, Field: field, Reason: reason}
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("queue %q: invalid %s: %s", e.Queue, e.Field, e.Reason)
}

func IsInvalidConfigError(err error) bool {
	var e *InvalidConfigError
	return errors.As(err, &e)
}

// IsMisuseError reports whether err was caused by calling the API in a wrong state.
// Retrying the same call will not help.
func IsMisuseError(err error) bool {
	return IsInvalidHandleError(err) ||
		IsQueueNotStartedError(err) ||
		IsQueueAlreadyStartedError(err) ||
		IsQueueClosedError(err) ||
		IsInvalidConfigError(err)
}

// IsResourceExhaustedError reports whether err was caused by a lack of resources.
// The caller may retry, drop the work or escalate.
func IsResourceExhaustedError(err error) bool {
	return IsQueueFullError(err) ||
		IsSendTimeoutError(err) ||
		IsAllocationError(err) ||
		IsSpawnError(err)
}
