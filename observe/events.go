package observe

import (
	"context"
	"time"
)

// Events records cache events for one process: spans per call, counters
// per outcome, structured log lines. The cache controller is the only
// intended caller.
//
// A nil *Events is valid and records nothing, so observability stays
// optional for library users.
type Events struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewEvents creates an Events recorder from explicit components. Nil
// components are replaced by no-ops.
func NewEvents(tracer Tracer, metrics Metrics, logger Logger) *Events {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	return &Events{tracer: tracer, metrics: metrics, logger: logger}
}

// EventsFromObserver wires an Events recorder to an Observer's tracer,
// meter, and logger.
func EventsFromObserver(obs Observer) (*Events, error) {
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewEvents(newTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// StartCall opens a span for one cacheable call and returns a finish
// func that records the outcome, the duration, and a log line. The
// wrapped function's own error ends the span with error status but is
// never altered.
func (e *Events) StartCall(ctx context.Context, meta FuncMeta) (context.Context, func(outcome Outcome, err error)) {
	if e == nil {
		return ctx, func(Outcome, error) {}
	}

	ctx, span := e.tracer.StartSpan(ctx, meta)
	start := time.Now()

	return ctx, func(outcome Outcome, err error) {
		duration := time.Since(start)
		e.tracer.EndSpan(span, err)
		if e.metrics != nil {
			e.metrics.RecordCall(ctx, meta, outcome, duration)
		}

		logger := e.logger.WithFunc(meta)
		fields := []Field{
			{Key: "outcome", Value: string(outcome)},
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			logger.Error(ctx, "cacheable call failed", fields...)
		} else {
			logger.Debug(ctx, "cacheable call completed", fields...)
		}
	}
}

// Write records a persisted output.
func (e *Events) Write(ctx context.Context, meta FuncMeta, inputID, outputID string) {
	if e == nil {
		return
	}
	if e.metrics != nil {
		e.metrics.RecordWrite(ctx, meta, nil)
	}
	e.logger.WithFunc(meta).Debug(ctx, "output written to cache",
		Field{Key: "input_id", Value: inputID},
		Field{Key: "output_id", Value: outputID},
	)
}

// WriteError records a failed write. Writes are best effort, so this is
// a warning, not an error.
func (e *Events) WriteError(ctx context.Context, meta FuncMeta, inputID string, err error) {
	if e == nil {
		return
	}
	if e.metrics != nil {
		e.metrics.RecordWrite(ctx, meta, err)
	}
	e.logger.WithFunc(meta).Warn(ctx, "failed to write output to cache",
		Field{Key: "input_id", Value: inputID},
		Field{Key: "error", Value: err.Error()},
	)
}

// LoadError records a failed read of an existing record. The call falls
// back to executing the function.
func (e *Events) LoadError(ctx context.Context, meta FuncMeta, inputID string, err error) {
	if e == nil {
		return
	}
	e.logger.WithFunc(meta).Warn(ctx, "failed to load output from cache",
		Field{Key: "input_id", Value: inputID},
		Field{Key: "error", Value: err.Error()},
	)
}

// DeriveError records a failed input-id derivation. The call proceeds
// without the cache.
func (e *Events) DeriveError(ctx context.Context, meta FuncMeta, err error) {
	if e == nil {
		return
	}
	e.logger.WithFunc(meta).Warn(ctx, "failed to derive input id",
		Field{Key: "error", Value: err.Error()},
	)
}
