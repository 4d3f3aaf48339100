// Package observability provides an OpenTelemetry-based metrics extension
// for the job system. The MetricsExtension implements lifecycle hooks to
// record system-wide counters for unit submission, completion, dispatch
// fan-out, and buffer saturation.
//
// For per-unit timing inside the execution path, see the middleware package:
// middleware.Metrics().
package observability
