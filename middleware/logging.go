package middleware

import (
	"log/slog"
	"time"
)

// Logging returns middleware that logs each unit's execution at debug level.
// Units are anonymous closures, so the log carries timing only; use it for
// diagnosis, not steady-state production logging of per-frame work.
func Logging(logger *slog.Logger) Middleware {
	return func(next Job) Job {
		return func() {
			start := time.Now()
			next()
			logger.Debug("unit executed",
				slog.Duration("elapsed", time.Since(start)),
			)
		}
	}
}
