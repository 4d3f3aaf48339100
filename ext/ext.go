// Package ext defines the extension system for the job system.
// Extensions are notified of lifecycle events (pool started, unit enqueued,
// unit completed, etc.) and can react to them — logging, metrics, tracing.
//
// Each lifecycle hook is a separate interface so extensions opt in only
// to the events they care about.
package ext

import (
	"context"
	"time"

	"github.com/parfan/parfan/id"
)

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// ──────────────────────────────────────────────────
// Pool lifecycle hooks
// ──────────────────────────────────────────────────

// PoolStarted is called once after the worker goroutines have been launched.
type PoolStarted interface {
	OnPoolStarted(ctx context.Context, pool id.PoolID, workers int) error
}

// PoolStopped is called after a graceful stop has joined all workers.
type PoolStopped interface {
	OnPoolStopped(ctx context.Context, pool id.PoolID) error
}

// ──────────────────────────────────────────────────
// Unit lifecycle hooks
// ──────────────────────────────────────────────────

// UnitEnqueued is called after a unit of work (a single job or one dispatch
// group) has been accepted by the buffer.
type UnitEnqueued interface {
	OnUnitEnqueued(ctx context.Context) error
}

// UnitCompleted is called after a worker finishes executing one unit.
type UnitCompleted interface {
	OnUnitCompleted(ctx context.Context, elapsed time.Duration) error
}

// DispatchPlanned is called when a ranged dispatch has been partitioned,
// before its group closures are enqueued.
type DispatchPlanned interface {
	OnDispatchPlanned(ctx context.Context, jobCount, groupSize, groupCount uint32) error
}

// QueueSaturated is called when an enqueue attempt first finds the buffer
// full and enters its retry loop.
type QueueSaturated interface {
	OnQueueSaturated(ctx context.Context) error
}
