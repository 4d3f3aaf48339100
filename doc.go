// Package parfan provides a fixed-size worker pool that executes closures
// asynchronously and partitions ranged workloads into groups fanned out
// across workers. It targets latency-sensitive loops (simulation, rendering,
// per-frame pipelines) that need to parallelize work without per-call
// goroutine creation or allocation churn.
//
// # Quick Start
//
//	s, err := parfan.New(
//	    parfan.WithWorkers(8),
//	    parfan.WithQueueCapacity(256),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s.Execute(func() { loadAssets() })
//
//	s.Dispatch(len(particles), 64, func(args parfan.Args) {
//	    particles[args.JobIndex].Step()
//	})
//
//	s.Wait()
//
// Applications that want a single process-wide pool can use the package
// level surface instead: Initialize once, then Execute, Dispatch, IsBusy,
// and Wait.
//
// # Architecture
//
// Work flows through three pieces: a fixed-capacity ring buffer (package
// ring) holds pending units; a pool of long-lived worker goroutines
// (package worker) drains it, sleeping on a condition variable when it is
// empty; and two monotonic labels — submitted and completed — make "all
// done" observable without tracking individual units. The pool is busy
// exactly while completed trails submitted.
//
// A full buffer is not an error: submitters retry with a wake-one-worker,
// yield-the-caller poll (package backoff configures the pacing), so a
// stalled producer always leaves CPU time for the workers draining it.
//
// # Faults
//
// A panicking unit is fatal by default, unwinding its worker and the
// process with it. Opt in to per-unit recovery with middleware.Recover in
// the chain passed to WithMiddleware; recovered units still count as
// completed, so Wait never hangs.
//
// # Observability
//
// Lifecycle extensions (package ext) observe pool start/stop, submissions,
// completions, dispatch fan-out, and buffer saturation; package
// observability ships an OpenTelemetry metrics extension, and package
// middleware adds per-unit OTel timing.
package parfan
