// Package ext defines the extension system for the job system.
//
// Extensions are notified of lifecycle events and can react to them —
// recording metrics, logging saturation, tracking pool health, etc.
// Each lifecycle hook is a separate interface so extensions opt in only
// to the events they care about.
//
// # Implementing an Extension
//
//	type MyExtension struct{}
//
//	func (e *MyExtension) Name() string { return "my-extension" }
//
//	// Opt in to specific hooks by implementing their interfaces.
//	func (e *MyExtension) OnUnitCompleted(ctx context.Context, elapsed time.Duration) error {
//	    log.Printf("unit completed in %s", elapsed)
//	    return nil
//	}
//
// # Hooks
//
//   - [PoolStarted] — worker goroutines were launched
//   - [PoolStopped] — a graceful stop joined all workers
//   - [UnitEnqueued] — a unit was accepted by the buffer
//   - [UnitCompleted] — a worker finished executing a unit
//   - [DispatchPlanned] — a ranged dispatch was partitioned into groups
//   - [QueueSaturated] — an enqueue attempt found the buffer full
//
// The [Registry] fans out each event to all registered extensions that
// implement the corresponding hook interface. Hook errors are logged and
// never propagate into the dispatch path.
package ext
