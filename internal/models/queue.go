package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkerState is the phase of a queue worker as exposed by the services.
type WorkerState string

const (
	// WorkerStateStopped - queue registered but not started
	WorkerStateStopped WorkerState = "stopped"
	// WorkerStateDraining - running queued events
	WorkerStateDraining WorkerState = "draining"
	// WorkerStateIdling - queue empty, idle callback polled periodically
	WorkerStateIdling WorkerState = "idling"
	// WorkerStateSuspended - queue empty, waiting for the next event
	WorkerStateSuspended WorkerState = "suspended"
	// WorkerStateClosed - worker stopped for good
	WorkerStateClosed WorkerState = "closed"
)

// QueueStatus is a point in time view of one parallel queue.
type QueueStatus struct {
	ID        uuid.UUID
	Name      string
	State     WorkerState
	Waiting   int
	Capacity  int
	IdleCount uint64
	IdleFor   time.Duration
	Stats     QueueStats
}

type QueueStats struct {
	Enqueued  uint64
	Rejected  uint64
	Executed  uint64
	Repeated  uint64
	IdlePolls uint64
	Panics    uint64
}
