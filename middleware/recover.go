package middleware

import (
	"log/slog"
	"runtime/debug"
)

// Recover returns middleware that recovers from panics in the wrapped unit.
// The panic value is logged with a stack trace and the worker loop continues.
//
// Without this middleware a panicking unit is fatal: the panic unwinds the
// worker goroutine and terminates the process. Including Recover trades that
// for catch-log-continue at the per-unit boundary; the unit still counts as
// completed, so Wait never hangs on a panicked unit.
func Recover(logger *slog.Logger) Middleware {
	return func(next Job) Job {
		return func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("unit panicked",
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())),
					)
				}
			}()
			next()
		}
	}
}
