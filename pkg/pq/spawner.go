package pq

import (
	"context"
	"runtime/pprof"
	"strconv"

	"github.com/google/uuid"
)

// WorkerSpec describes the worker a Spawner must start.
type WorkerSpec struct {
	ID        uuid.UUID
	Name      string
	Priority  int
	StackSize int
}

// Spawner starts the long-lived worker of a handle. entry must run on its own
// goroutine; Spawn returns once it is scheduled.
type Spawner interface {
	Spawn(ctx context.Context, spec WorkerSpec, entry func(ctx context.Context)) error
}

type SpawnerFunc func(ctx context.Context, spec WorkerSpec, entry func(ctx context.Context)) error

func (f SpawnerFunc) Spawn(ctx context.Context, spec WorkerSpec, entry func(ctx context.Context)) error {
	return f(ctx, spec, entry)
}

// GoSpawner runs the worker on a plain goroutine. Go has no goroutine
// priorities or stack budgets, so they only show up as pprof labels.
type GoSpawner struct{}

func (GoSpawner) Spawn(ctx context.Context, spec WorkerSpec, entry func(ctx context.Context)) error {
	labels := pprof.Labels(
		"pq.name", spec.Name,
		"pq.id", spec.ID.String(),
		"pq.priority", strconv.Itoa(spec.Priority),
		"pq.stack", strconv.Itoa(spec.StackSize),
	)
	go pprof.Do(ctx, labels, entry)
	return nil
}
