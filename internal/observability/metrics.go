package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the filter-specific metric instruments.
type Metrics struct {
	parseCount     metric.Int64Counter
	rejectionCount metric.Int64Counter
	evalDuration   metric.Float64Histogram
	matchCount     metric.Int64Histogram
}

// NewMetrics creates a new Metrics instance with the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	// Note: errors from meter instrument creation are unlikely in practice
	// and would only occur with invalid parameters. We use explicit checks
	// to satisfy the linter while continuing with partial metrics on error.
	var err error

	m.parseCount, err = meter.Int64Counter(
		"taskfilter.parse.count",
		metric.WithDescription("Total number of filter parse and validation attempts"),
		metric.WithUnit("{filter}"),
	)
	if err != nil {
		m.parseCount, _ = meter.Int64Counter("taskfilter.parse.count")
	}

	m.rejectionCount, err = meter.Int64Counter(
		"taskfilter.rejection.count",
		metric.WithDescription("Total number of rejected filter inputs"),
		metric.WithUnit("{filter}"),
	)
	if err != nil {
		m.rejectionCount, _ = meter.Int64Counter("taskfilter.rejection.count")
	}

	m.evalDuration, err = meter.Float64Histogram(
		"taskfilter.evaluation.duration",
		metric.WithDescription("Duration of collection filtering passes in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.evalDuration, _ = meter.Float64Histogram("taskfilter.evaluation.duration")
	}

	m.matchCount, err = meter.Int64Histogram(
		"taskfilter.match.count",
		metric.WithDescription("Number of records matched per filtering pass"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		m.matchCount, _ = meter.Int64Histogram("taskfilter.match.count")
	}

	return m
}

// RecordParse records a parse or validation attempt for one grammar. Rejected
// attempts are additionally reported through RecordRejection, which carries
// the rejection reason.
func (m *Metrics) RecordParse(ctx context.Context, grammar string, accepted bool) {
	m.parseCount.Add(ctx, 1, metric.WithAttributes(GrammarAttr(grammar), OutcomeAttr(accepted)))
}

// RecordEvaluation records one collection filtering pass.
func (m *Metrics) RecordEvaluation(ctx context.Context, grammar string, matched int, duration time.Duration) {
	attrs := metric.WithAttributes(GrammarAttr(grammar))
	m.evalDuration.Record(ctx, float64(duration.Microseconds())/1000.0, attrs)
	m.matchCount.Record(ctx, int64(matched), attrs)
}

// RecordRejection records a rejected filter input with the reason it was
// turned away.
func (m *Metrics) RecordRejection(ctx context.Context, grammar, reason string) {
	m.rejectionCount.Add(ctx, 1, metric.WithAttributes(
		GrammarAttr(grammar),
		attribute.String("taskfilter.reason", reason),
	))
}
