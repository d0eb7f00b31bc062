package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome classifies how a cacheable call was served.
type Outcome string

const (
	// OutcomeHit means the stored output was returned without executing.
	OutcomeHit Outcome = "hit"
	// OutcomeMiss means the function executed because no usable record
	// existed.
	OutcomeMiss Outcome = "miss"
	// OutcomeBypass means the cache was fully disabled for the call.
	OutcomeBypass Outcome = "bypass"
)

// Metrics records cache call metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records one call with its outcome and duration.
	RecordCall(ctx context.Context, meta FuncMeta, outcome Outcome, duration time.Duration)

	// RecordWrite records a cache write, or a failed write when err is
	// non-nil.
	RecordWrite(ctx context.Context, meta FuncMeta, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	calls        metric.Int64Counter
	writes       metric.Int64Counter
	writeErrors  metric.Int64Counter
	durationHist metric.Float64Histogram
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	calls, err := meter.Int64Counter(
		"cacheables.calls",
		metric.WithDescription("Cacheable calls by outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	writes, err := meter.Int64Counter(
		"cacheables.writes",
		metric.WithDescription("Outputs persisted to the cache"),
		metric.WithUnit("{write}"),
	)
	if err != nil {
		return nil, err
	}

	writeErrors, err := meter.Int64Counter(
		"cacheables.write_errors",
		metric.WithDescription("Cache writes that failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"cacheables.call.duration_ms",
		metric.WithDescription("Cacheable call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		calls:        calls,
		writes:       writes,
		writeErrors:  writeErrors,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordCall(ctx context.Context, meta FuncMeta, outcome Outcome, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("function_id", meta.FunctionID),
		attribute.String("outcome", string(outcome)),
	)
	m.calls.Add(ctx, 1, attrs)
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), attrs)
}

func (m *metricsImpl) RecordWrite(ctx context.Context, meta FuncMeta, err error) {
	attrs := metric.WithAttributes(
		attribute.String("function_id", meta.FunctionID),
	)
	if err != nil {
		m.writeErrors.Add(ctx, 1, attrs)
		return
	}
	m.writes.Add(ctx, 1, attrs)
}

var _ Metrics = (*metricsImpl)(nil)
