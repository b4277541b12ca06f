package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer with filter-specific span creation
// methods.
type Tracer struct {
	tracer      trace.Tracer
	serviceName string
}

// NewTracer creates a new Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider, serviceName string) *Tracer {
	return &Tracer{
		tracer:      tp.Tracer(TracerName),
		serviceName: serviceName,
	}
}

// StartSpan starts a new span with the given name and attributes.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartParse starts a span covering one parse or validation call.
func (t *Tracer) StartParse(ctx context.Context, grammar string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "taskfilter.parse", trace.WithAttributes(GrammarAttr(grammar)))
}

// StartEvaluate starts a span covering one collection filtering pass.
func (t *Tracer) StartEvaluate(ctx context.Context, grammar string, records int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "taskfilter.evaluate", trace.WithAttributes(
		GrammarAttr(grammar),
		attribute.Int("taskfilter.record_count", records),
	))
}

// EndSpan finishes a span, marking it as an error when err is non-nil.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
