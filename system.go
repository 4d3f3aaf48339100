package parfan

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/parfan/parfan/backoff"
	"github.com/parfan/parfan/ext"
	"github.com/parfan/parfan/middleware"
	"github.com/parfan/parfan/ring"
	"github.com/parfan/parfan/worker"
)

// background is the context passed to lifecycle hooks. The dispatch path
// itself carries no context: units are not cancellable once enqueued.
var background = context.Background()

// System is a fixed-size worker pool with grouped dispatch. It owns the
// bounded job buffer, the worker goroutines, and the two label counters
// that make "drained" observable without per-unit bookkeeping.
//
// A System is safe for concurrent submitters and is typically created once
// at startup and kept for the process lifetime.
type System struct {
	cfg        Config
	logger     *slog.Logger
	pacing     backoff.Strategy
	limiter    *rate.Limiter
	middleware []middleware.Middleware
	extensions []ext.Extension

	queue *ring.Buffer[func()]
	pool  *worker.Pool
	hooks *ext.Registry

	// submitted counts every unit ever promised to the buffer (one per
	// Execute, one per dispatch group). completed counts every unit a
	// worker has finished. Both only grow; the system is idle exactly
	// when they are equal.
	submitted atomic.Uint64
	completed atomic.Uint64
}

// New creates a System and starts its worker pool. Workers run until the
// process exits or Stop is called.
func New(opts ...Option) (*System, error) {
	s := &System{
		cfg:    DefaultConfig(),
		logger: slog.Default(),
		pacing: backoff.DefaultStrategy(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.hooks = ext.NewRegistry(s.logger)
	for _, e := range s.extensions {
		s.hooks.Register(e)
	}

	s.queue = ring.New[func()](s.cfg.QueueCapacity)

	poolOpts := []worker.PoolOption{
		worker.WithWorkers(s.cfg.Workers),
		worker.WithLockOSThreads(s.cfg.LockOSThreads),
		worker.WithOnUnitDone(s.unitDone),
	}
	if len(s.middleware) > 0 {
		poolOpts = append(poolOpts, worker.WithWrapper(middleware.Chain(s.middleware...)))
	}
	s.pool = worker.NewPool(s.queue, s.logger, poolOpts...)

	if err := s.pool.Start(background); err != nil {
		return nil, err
	}
	s.hooks.EmitPoolStarted(background, s.pool.ID(), s.pool.Workers())

	return s, nil
}

// Logger returns the system's logger.
func (s *System) Logger() *slog.Logger { return s.logger }

// Workers returns the number of worker goroutines.
func (s *System) Workers() int { return s.pool.Workers() }

// QueueCapacity returns the fixed capacity of the job buffer.
func (s *System) QueueCapacity() int { return s.queue.Cap() }

// Submitted returns the number of units ever promised to the buffer.
func (s *System) Submitted() uint64 { return s.submitted.Load() }

// Completed returns the number of units workers have finished.
func (s *System) Completed() uint64 { return s.completed.Load() }

// Stop gracefully shuts down the worker pool: queued units are drained,
// then workers are joined. If ctx expires first, Stop returns ctx.Err()
// with workers still running. The original design never stops; Stop exists
// for embedders that need a clean teardown (tests, servers).
func (s *System) Stop(ctx context.Context) error {
	if err := s.pool.Stop(ctx); err != nil {
		return err
	}
	s.hooks.EmitPoolStopped(background, s.pool.ID())
	return nil
}

// unitDone advances the completed label. It runs on the worker goroutine
// immediately after each unit finishes.
func (s *System) unitDone(elapsed time.Duration) {
	s.completed.Add(1)
	s.hooks.EmitUnitCompleted(background, elapsed)
}

// enqueue pushes one unit into the buffer, retrying with the poll/backoff
// discipline while the buffer is full, then wakes one worker. The caller
// has already advanced the submitted label, so IsBusy is true for the
// whole window in which the unit is in flight.
func (s *System) enqueue(unit func()) {
	if !s.queue.PushBack(unit) {
		s.hooks.EmitQueueSaturated(background)
		for attempt := 1; ; attempt++ {
			s.poll(attempt)
			if s.queue.PushBack(unit) {
				break
			}
		}
	}

	s.pool.Wake()
	s.hooks.EmitUnitEnqueued(background)
}

// poll nudges one sleeping worker and then gives up the caller's turn,
// either by yielding or by sleeping per the pacing strategy. It is the
// shared backoff step of full-buffer retries and Wait: a caller stalled on
// the pool can never starve the workers it is waiting for.
func (s *System) poll(attempt int) {
	s.pool.Wake()
	if d := s.pacing.Delay(attempt); d > 0 {
		time.Sleep(d)
	} else {
		runtime.Gosched()
	}
}

// admit blocks the submitter until the rate limiter allows one more unit.
// No-op when no submit rate is configured.
func (s *System) admit() {
	if s.limiter == nil {
		return
	}
	r := s.limiter.Reserve()
	if !r.OK() {
		// Burst smaller than a single unit; pacing is impossible.
		return
	}
	if d := r.Delay(); d > 0 {
		time.Sleep(d)
	}
}
