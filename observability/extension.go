package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/parfan/parfan/ext"
	"github.com/parfan/parfan/id"
)

// meterName is the instrumentation scope name for job system metrics.
const meterName = "github.com/parfan/parfan/observability"

// Compile-time interface checks.
var (
	_ ext.Extension       = (*MetricsExtension)(nil)
	_ ext.PoolStarted     = (*MetricsExtension)(nil)
	_ ext.UnitEnqueued    = (*MetricsExtension)(nil)
	_ ext.UnitCompleted   = (*MetricsExtension)(nil)
	_ ext.DispatchPlanned = (*MetricsExtension)(nil)
	_ ext.QueueSaturated  = (*MetricsExtension)(nil)
)

// MetricsExtension records system-wide lifecycle metrics via OpenTelemetry.
// Register it as an extension to automatically track submission rates,
// completion counts, dispatch fan-out, and buffer saturation.
//
// Instruments:
//   - parfan.pool.workers (Int64Gauge): worker count, set at pool start
//   - parfan.unit.enqueued (Int64Counter): units accepted by the buffer
//   - parfan.unit.completed (Int64Counter): units finished by workers
//   - parfan.unit.busy (Float64Histogram): per-unit execution seconds
//   - parfan.dispatch.groups (Int64Counter): group closures produced by Dispatch
//   - parfan.queue.saturated (Int64Counter): enqueue attempts that hit a full buffer
type MetricsExtension struct {
	workers       metric.Int64Gauge
	unitEnqueued  metric.Int64Counter
	unitCompleted metric.Int64Counter
	unitBusy      metric.Float64Histogram
	dispatchGroup metric.Int64Counter
	saturated     metric.Int64Counter
}

// NewMetricsExtension creates a MetricsExtension using the global OTel
// MeterProvider. If none is configured, noop instruments are used and the
// extension has no overhead worth measuring.
func NewMetricsExtension() *MetricsExtension {
	return NewMetricsExtensionWithMeter(otel.Meter(meterName))
}

// NewMetricsExtensionWithMeter creates a MetricsExtension with the provided
// meter. This variant allows injecting a specific MeterProvider for testing.
func NewMetricsExtensionWithMeter(meter metric.Meter) *MetricsExtension {
	// On error the OTel API returns noop instruments, so creation errors
	// degrade gracefully rather than failing pool construction.
	workers, _ := meter.Int64Gauge(
		"parfan.pool.workers",
		metric.WithDescription("Number of worker goroutines in the pool"),
		metric.WithUnit("{worker}"),
	)
	enqueued, _ := meter.Int64Counter(
		"parfan.unit.enqueued",
		metric.WithDescription("Units of work accepted by the buffer"),
		metric.WithUnit("{unit}"),
	)
	completed, _ := meter.Int64Counter(
		"parfan.unit.completed",
		metric.WithDescription("Units of work finished by workers"),
		metric.WithUnit("{unit}"),
	)
	busy, _ := meter.Float64Histogram(
		"parfan.unit.busy",
		metric.WithDescription("Per-unit execution time in seconds"),
		metric.WithUnit("s"),
	)
	groups, _ := meter.Int64Counter(
		"parfan.dispatch.groups",
		metric.WithDescription("Group closures produced by ranged dispatches"),
		metric.WithUnit("{group}"),
	)
	saturated, _ := meter.Int64Counter(
		"parfan.queue.saturated",
		metric.WithDescription("Enqueue attempts that found the buffer full"),
		metric.WithUnit("{attempt}"),
	)

	return &MetricsExtension{
		workers:       workers,
		unitEnqueued:  enqueued,
		unitCompleted: completed,
		unitBusy:      busy,
		dispatchGroup: groups,
		saturated:     saturated,
	}
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnPoolStarted implements ext.PoolStarted.
func (m *MetricsExtension) OnPoolStarted(ctx context.Context, _ id.PoolID, workers int) error {
	m.workers.Record(ctx, int64(workers))
	return nil
}

// OnUnitEnqueued implements ext.UnitEnqueued.
func (m *MetricsExtension) OnUnitEnqueued(ctx context.Context) error {
	m.unitEnqueued.Add(ctx, 1)
	return nil
}

// OnUnitCompleted implements ext.UnitCompleted.
func (m *MetricsExtension) OnUnitCompleted(ctx context.Context, elapsed time.Duration) error {
	m.unitCompleted.Add(ctx, 1)
	m.unitBusy.Record(ctx, elapsed.Seconds())
	return nil
}

// OnDispatchPlanned implements ext.DispatchPlanned.
func (m *MetricsExtension) OnDispatchPlanned(ctx context.Context, _, _, groupCount uint32) error {
	m.dispatchGroup.Add(ctx, int64(groupCount))
	return nil
}

// OnQueueSaturated implements ext.QueueSaturated.
func (m *MetricsExtension) OnQueueSaturated(ctx context.Context) error {
	m.saturated.Add(ctx, 1)
	return nil
}
