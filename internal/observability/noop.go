package observability

import (
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// NewNoopTracer creates a tracer that does nothing.
func NewNoopTracer() *Tracer {
	return &Tracer{
		tracer: tracenoop.NewTracerProvider().Tracer(""),
	}
}

// NewNoopMetrics creates metrics that do nothing.
func NewNoopMetrics() *Metrics {
	meter := noop.NewMeterProvider().Meter("")
	m := &Metrics{}

	// Note: the noop meter never returns errors, but we must check them to
	// satisfy the linter.
	m.parseCount, _ = meter.Int64Counter("taskfilter.parse.count")              //nolint:errcheck
	m.rejectionCount, _ = meter.Int64Counter("taskfilter.rejection.count")      //nolint:errcheck
	m.evalDuration, _ = meter.Float64Histogram("taskfilter.evaluation.duration") //nolint:errcheck
	m.matchCount, _ = meter.Int64Histogram("taskfilter.match.count")            //nolint:errcheck

	return m
}
