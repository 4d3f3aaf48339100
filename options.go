package parfan

import (
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/parfan/parfan/backoff"
	"github.com/parfan/parfan/ext"
	"github.com/parfan/parfan/middleware"
)

// Option configures a System.
type Option func(*System) error

// WithWorkers sets the number of worker goroutines. The default is the
// detected hardware parallelism, minimum 1.
func WithWorkers(n int) Option {
	return func(s *System) error {
		if n < 1 {
			return ErrInvalidWorkers
		}
		s.cfg.Workers = n
		return nil
	}
}

// WithQueueCapacity sets the fixed capacity of the job buffer (default 256).
// It bounds the number of in-flight, not-yet-started units; submitters that
// find the buffer full retry with the configured backoff.
func WithQueueCapacity(n int) Option {
	return func(s *System) error {
		if n < 1 {
			return ErrInvalidCapacity
		}
		s.cfg.QueueCapacity = n
		return nil
	}
}

// WithLockOSThreads dedicates an OS thread to each worker goroutine, the
// closest Go analog of per-core affinity. Performance tuning only; it never
// affects correctness.
func WithLockOSThreads(lock bool) Option {
	return func(s *System) error {
		s.cfg.LockOSThreads = lock
		return nil
	}
}

// WithLogger sets the structured logger for the system.
func WithLogger(l *slog.Logger) Option {
	return func(s *System) error {
		s.logger = l
		return nil
	}
}

// WithBackoff sets the pacing strategy used while waiting for buffer space
// and inside Wait. The default yields the processor between checks without
// sleeping.
func WithBackoff(strategy backoff.Strategy) Option {
	return func(s *System) error {
		s.pacing = strategy
		return nil
	}
}

// WithMiddleware sets the middleware chain applied around every executed
// unit, outermost first.
//
// Note on faults: without middleware.Recover in the chain, a panicking unit
// is fatal — it unwinds the worker goroutine and terminates the process.
// With Recover, the panic is logged, the unit counts as completed, and the
// worker continues.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(s *System) error {
		s.middleware = append(s.middleware, mws...)
		return nil
	}
}

// WithExtensions registers lifecycle extensions (see the ext package) that
// are notified of pool, unit, and dispatch events.
func WithExtensions(exts ...ext.Extension) Option {
	return func(s *System) error {
		s.extensions = append(s.extensions, exts...)
		return nil
	}
}

// WithSubmitRate paces submissions with a token bucket: each submitted unit
// (one Execute call, or one group of a Dispatch) consumes a token, and a
// submitter that outruns the bucket sleeps for the shortfall. Use it to
// protect the buffer from bursty bulk producers; leave it unset for
// latency-sensitive frame loops.
func WithSubmitRate(limit rate.Limit, burst int) Option {
	return func(s *System) error {
		if limit <= 0 || burst < 1 {
			return ErrInvalidRate
		}
		s.limiter = rate.NewLimiter(limit, burst)
		return nil
	}
}
