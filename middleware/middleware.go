// Package middleware provides composable middleware for unit execution.
// Middleware wraps each executed unit synchronously and can modify execution
// (recover from panics, log, record metrics, etc.).
package middleware

import (
	"context"
)

// Job is the unit of work executed by a worker: a zero-argument closure.
// It is an alias so closures flow through middleware without conversion.
type Job = func()

// Middleware wraps a Job with cross-cutting logic. It receives the next
// stage and returns the wrapped unit. Middleware MUST call next (unless
// intentionally short-circuiting) or the unit is silently dropped.
type Middleware func(next Job) Job

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, recover) executes as:
//
//	logging → recover → unit
func Chain(mws ...Middleware) Middleware {
	return func(next Job) Job {
		// Build the chain from the end backwards.
		j := next
		for i := len(mws) - 1; i >= 0; i-- {
			j = mws[i](j)
		}
		return j
	}
}

// background is the context used by middleware that needs one for telemetry
// APIs. Units carry no context of their own: cancellation is not part of the
// execution contract.
var background = context.Background()
