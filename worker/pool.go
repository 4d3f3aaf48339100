// Package worker provides the execution engine: a Pool of long-lived
// goroutines that drain a shared buffer of units, sleeping on a condition
// variable when it is empty and waking one at a time as work arrives.
package worker

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/parfan/parfan/id"
)

// Queue is the buffer the pool drains. PopFront must never block: it
// returns false immediately when no unit is available.
type Queue interface {
	PopFront() (func(), bool)
}

// Pool manages a fixed set of worker goroutines. Workers are created once
// by Start and run until the process exits or Stop is called; there is no
// per-unit goroutine creation.
type Pool struct {
	queue   Queue
	logger  *slog.Logger
	poolID  id.PoolID
	workers int

	// lockOSThreads dedicates an OS thread to each worker. Performance
	// tuning only; execution is correct either way.
	lockOSThreads bool

	wrap   func(func()) func()
	onDone func(elapsed time.Duration)

	mu       sync.Mutex
	cond     *sync.Cond
	tokens   int
	running  bool
	stopping bool
	wg       sync.WaitGroup
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines. Values below 1 are
// raised to 1. The default is max(1, runtime.NumCPU()).
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n < 1 {
			n = 1
		}
		p.workers = n
	}
}

// WithLockOSThreads pins each worker goroutine to its own OS thread.
// This is the closest Go analog of per-core thread affinity; it affects
// scheduling behavior only, never correctness.
func WithLockOSThreads(lock bool) PoolOption {
	return func(p *Pool) { p.lockOSThreads = lock }
}

// WithWrapper sets a wrapper applied around every executed unit, typically
// a composed middleware chain.
func WithWrapper(wrap func(func()) func()) PoolOption {
	return func(p *Pool) { p.wrap = wrap }
}

// WithOnUnitDone sets a callback invoked after each unit finishes, with the
// unit's execution time. The scheduler uses it to advance its completed
// counter; it runs on the worker goroutine and must be cheap.
func WithOnUnitDone(fn func(elapsed time.Duration)) PoolOption {
	return func(p *Pool) { p.onDone = fn }
}

// NewPool creates a worker pool draining the given queue.
func NewPool(queue Queue, logger *slog.Logger, opts ...PoolOption) *Pool {
	p := &Pool{
		queue:   queue,
		logger:  logger,
		poolID:  id.NewPoolID(),
		workers: max(1, runtime.NumCPU()),
	}
	p.cond = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the pool's unique identifier.
func (p *Pool) ID() id.PoolID { return p.poolID }

// Workers returns the number of worker goroutines the pool runs.
func (p *Pool) Workers() int { return p.workers }

// Start launches the worker goroutines. It returns immediately and is a
// no-op if the pool is already running.
func (p *Pool) Start(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	p.running = true

	p.logger.Info("worker pool starting",
		slog.String("pool_id", p.poolID.String()),
		slog.Int("workers", p.workers),
		slog.Bool("lock_os_threads", p.lockOSThreads),
	)

	for range p.workers {
		workerID := id.NewWorkerID()
		p.wg.Add(1)
		go p.runWorker(workerID)
	}

	return nil
}

// Stop signals all workers to stop, lets them drain the queue, and waits
// for them to exit. If ctx expires first, Stop returns ctx.Err() with
// workers still running; units cannot be interrupted mid-execution.
// Stop is a no-op if the pool never started or already stopped.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running || p.stopping {
		p.mu.Unlock()
		return nil
	}
	p.stopping = true
	p.cond.Broadcast()
	p.mu.Unlock()

	p.logger.Info("worker pool stopping", slog.String("pool_id", p.poolID.String()))

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool stopped", slog.String("pool_id", p.poolID.String()))
		return nil
	case <-ctx.Done():
		p.logger.Warn("worker pool stop timed out",
			slog.String("pool_id", p.poolID.String()),
		)
		return ctx.Err()
	}
}

// Wake releases one sleeping worker. Wakeups are counted: a Wake issued
// while every worker is busy is consumed by the next worker that would
// otherwise sleep, so a signal can never be lost between a failed pop and
// the wait that follows it.
func (p *Pool) Wake() {
	p.mu.Lock()
	p.tokens++
	p.cond.Signal()
	p.mu.Unlock()
}

// runWorker is the body of one worker goroutine. The pprof labels make
// individual workers visible in CPU profiles, the Go analog of naming an
// OS thread.
func (p *Pool) runWorker(workerID id.WorkerID) {
	defer p.wg.Done()

	if p.lockOSThreads {
		runtime.LockOSThread()
	}

	labels := pprof.Labels(
		"parfan_pool", p.poolID.String(),
		"parfan_worker", workerID.String(),
	)
	pprof.Do(context.Background(), labels, func(context.Context) {
		p.runLoop()
	})

	p.logger.Debug("worker exited", slog.String("worker_id", workerID.String()))
}

// runLoop is the pop-execute-or-sleep loop. A unit that panics without a
// Recover middleware in the chain unwinds this goroutine and terminates
// the process; that is the documented default fault policy.
func (p *Pool) runLoop() {
	for {
		if unit, ok := p.queue.PopFront(); ok {
			p.execute(unit)
			continue
		}
		if !p.sleep() {
			break
		}
	}

	// Stopping: drain whatever is still buffered before exiting.
	for {
		unit, ok := p.queue.PopFront()
		if !ok {
			return
		}
		p.execute(unit)
	}
}

// sleep blocks until a wake token is available or the pool is stopping.
// It reports whether the worker should keep running.
func (p *Pool) sleep() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.tokens == 0 && !p.stopping {
		p.cond.Wait()
	}
	if p.tokens > 0 {
		p.tokens--
	}
	return !p.stopping
}

// execute runs one unit through the wrapper and reports completion.
// The completion callback fires for every unit that returns, including
// units whose panic was recovered by middleware.
func (p *Pool) execute(unit func()) {
	start := time.Now()
	if p.wrap != nil {
		p.wrap(unit)()
	} else {
		unit()
	}
	if p.onDone != nil {
		p.onDone(time.Since(start))
	}
}
