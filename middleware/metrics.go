package middleware

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for job system metrics.
const meterName = "github.com/parfan/parfan"

// Metrics returns middleware that records per-unit execution metrics using
// the global OTel MeterProvider. If no MeterProvider is configured, noop
// instruments are used and this middleware becomes a pass-through.
//
// Instruments:
//   - parfan.unit.duration (Float64Histogram): execution time in seconds,
//     with attribute: status ("ok" or "panic")
//   - parfan.unit.executions (Int64Counter): total executions,
//     with attribute: status ("ok" or "panic")
func Metrics() Middleware {
	meter := otel.Meter(meterName)
	return MetricsWithMeter(meter)
}

// MetricsWithMeter returns metrics middleware using the provided meter.
// This variant allows injecting a specific MeterProvider for testing.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// Create instruments once at middleware construction time.
	// OTel instruments are safe for concurrent use. On error, the API
	// returns noop instruments so the middleware degrades gracefully.
	duration, dErr := meter.Float64Histogram(
		"parfan.unit.duration",
		metric.WithDescription("Duration of unit execution in seconds"),
		metric.WithUnit("s"),
	)
	_ = dErr // noop fallback guaranteed by OTel API contract

	executions, eErr := meter.Int64Counter(
		"parfan.unit.executions",
		metric.WithDescription("Total number of unit executions"),
		metric.WithUnit("{execution}"),
	)
	_ = eErr // noop fallback guaranteed by OTel API contract

	return func(next Job) Job {
		return func() {
			start := time.Now()
			completed := false

			// Record in a defer so a panicking unit is still counted
			// before the panic continues to unwind.
			defer func() {
				status := "ok"
				if !completed {
					status = "panic"
				}
				attrs := metric.WithAttributes(attribute.String("status", status))
				duration.Record(background, time.Since(start).Seconds(), attrs)
				executions.Add(background, 1, attrs)
			}()

			next()
			completed = true
		}
	}
}
