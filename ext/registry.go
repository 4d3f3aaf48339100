package ext

import (
	"context"
	"log/slog"
	"time"

	"github.com/parfan/parfan/id"
)

// Named entry types pair a hook implementation with the extension name
// captured at registration time. This avoids type-asserting back to
// Extension inside the emit methods.
type poolStartedEntry struct {
	name string
	hook PoolStarted
}

type poolStoppedEntry struct {
	name string
	hook PoolStopped
}

type unitEnqueuedEntry struct {
	name string
	hook UnitEnqueued
}

type unitCompletedEntry struct {
	name string
	hook UnitCompleted
}

type dispatchPlannedEntry struct {
	name string
	hook DispatchPlanned
}

type queueSaturatedEntry struct {
	name string
	hook QueueSaturated
}

// Registry holds registered extensions and dispatches lifecycle events
// to them. It type-caches extensions at registration time so emit calls
// iterate only over extensions that implement the relevant hook.
//
// Register all extensions before the pool starts; the registry is not
// safe for concurrent mutation.
type Registry struct {
	extensions []Extension
	logger     *slog.Logger

	// Type-cached slices for each lifecycle hook.
	poolStarted     []poolStartedEntry
	poolStopped     []poolStoppedEntry
	unitEnqueued    []unitEnqueuedEntry
	unitCompleted   []unitCompletedEntry
	dispatchPlanned []dispatchPlannedEntry
	queueSaturated  []queueSaturatedEntry
}

// NewRegistry creates an extension registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds an extension and type-asserts it into all applicable
// hook caches. Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.extensions = append(r.extensions, e)
	name := e.Name()

	if h, ok := e.(PoolStarted); ok {
		r.poolStarted = append(r.poolStarted, poolStartedEntry{name, h})
	}
	if h, ok := e.(PoolStopped); ok {
		r.poolStopped = append(r.poolStopped, poolStoppedEntry{name, h})
	}
	if h, ok := e.(UnitEnqueued); ok {
		r.unitEnqueued = append(r.unitEnqueued, unitEnqueuedEntry{name, h})
	}
	if h, ok := e.(UnitCompleted); ok {
		r.unitCompleted = append(r.unitCompleted, unitCompletedEntry{name, h})
	}
	if h, ok := e.(DispatchPlanned); ok {
		r.dispatchPlanned = append(r.dispatchPlanned, dispatchPlannedEntry{name, h})
	}
	if h, ok := e.(QueueSaturated); ok {
		r.queueSaturated = append(r.queueSaturated, queueSaturatedEntry{name, h})
	}
}

// Extensions returns all registered extensions in registration order.
func (r *Registry) Extensions() []Extension {
	return r.extensions
}

// logHookError logs a hook failure. Hook errors never propagate to the
// dispatch path; an extension must not be able to stall job execution.
func (r *Registry) logHookError(hookName, extName string, err error) {
	r.logger.Error("extension hook failed",
		slog.String("hook", hookName),
		slog.String("extension", extName),
		slog.String("error", err.Error()),
	)
}

// EmitPoolStarted notifies all PoolStarted hooks.
func (r *Registry) EmitPoolStarted(ctx context.Context, pool id.PoolID, workers int) {
	for _, e := range r.poolStarted {
		if err := e.hook.OnPoolStarted(ctx, pool, workers); err != nil {
			r.logHookError("PoolStarted", e.name, err)
		}
	}
}

// EmitPoolStopped notifies all PoolStopped hooks.
func (r *Registry) EmitPoolStopped(ctx context.Context, pool id.PoolID) {
	for _, e := range r.poolStopped {
		if err := e.hook.OnPoolStopped(ctx, pool); err != nil {
			r.logHookError("PoolStopped", e.name, err)
		}
	}
}

// EmitUnitEnqueued notifies all UnitEnqueued hooks.
func (r *Registry) EmitUnitEnqueued(ctx context.Context) {
	for _, e := range r.unitEnqueued {
		if err := e.hook.OnUnitEnqueued(ctx); err != nil {
			r.logHookError("UnitEnqueued", e.name, err)
		}
	}
}

// EmitUnitCompleted notifies all UnitCompleted hooks.
func (r *Registry) EmitUnitCompleted(ctx context.Context, elapsed time.Duration) {
	for _, e := range r.unitCompleted {
		if err := e.hook.OnUnitCompleted(ctx, elapsed); err != nil {
			r.logHookError("UnitCompleted", e.name, err)
		}
	}
}

// EmitDispatchPlanned notifies all DispatchPlanned hooks.
func (r *Registry) EmitDispatchPlanned(ctx context.Context, jobCount, groupSize, groupCount uint32) {
	for _, e := range r.dispatchPlanned {
		if err := e.hook.OnDispatchPlanned(ctx, jobCount, groupSize, groupCount); err != nil {
			r.logHookError("DispatchPlanned", e.name, err)
		}
	}
}

// EmitQueueSaturated notifies all QueueSaturated hooks.
func (r *Registry) EmitQueueSaturated(ctx context.Context) {
	for _, e := range r.queueSaturated {
		if err := e.hook.OnQueueSaturated(ctx); err != nil {
			r.logHookError("QueueSaturated", e.name, err)
		}
	}
}
