// Package middleware provides composable middleware for unit execution.
//
// A [Middleware] is a function that wraps a unit of work. Middleware are
// composed into a chain using [Chain] and applied around every unit a worker
// executes. They are applied right-to-left: the first middleware in the slice
// is the outermost wrapper.
//
//	// logging → recover → unit
//	chain := middleware.Chain(middleware.Logging(logger), middleware.Recover(logger))
//
// # Built-in Middleware
//
//   - [Recover] — catches panics at the per-unit boundary (opt-in; without it
//     a panicking unit is fatal to the process)
//   - [Logging] — logs per-unit timing at debug level
//   - [Metrics] — records per-unit duration and execution counters via OTel
//
// # Writing Custom Middleware
//
//	func MyMiddleware() middleware.Middleware {
//	    return func(next middleware.Job) middleware.Job {
//	        return func() {
//	            // pre-processing
//	            next()
//	            // post-processing
//	        }
//	    }
//	}
//
// Middleware MUST call next to continue the chain unless intentionally
// short-circuiting; a unit a middleware drops still counts as completed.
package middleware
