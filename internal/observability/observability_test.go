package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func TestNew(t *testing.T) {
	cfg := New(
		WithTracerProvider(tracenoop.NewTracerProvider()),
		WithMeterProvider(noop.NewMeterProvider()),
		WithServiceName("test-service"),
	)

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected service name 'test-service', got '%s'", cfg.ServiceName)
	}
	if cfg.Tracer() == nil {
		t.Error("expected tracer to be initialized")
	}
	if cfg.Metrics() == nil {
		t.Error("expected metrics to be initialized")
	}
}

func TestNewNoProviders(t *testing.T) {
	cfg := New(WithServiceName("test-service"))

	// Should fall back to noop implementations
	if cfg.Tracer() == nil {
		t.Error("expected noop tracer to be returned")
	}
	if cfg.Metrics() == nil {
		t.Error("expected noop metrics to be returned")
	}
}

func TestNewTracer(t *testing.T) {
	tracer := NewTracer(tracenoop.NewTracerProvider(), "test-service")

	if tracer == nil {
		t.Fatal("NewTracer() should return non-nil tracer")
		return
	}
	if tracer.serviceName != "test-service" {
		t.Errorf("serviceName = %q, want %q", tracer.serviceName, "test-service")
	}
}

func TestTracerStartParse(t *testing.T) {
	tracer := NewTracer(tracenoop.NewTracerProvider(), "test-service")

	ctx, span := tracer.StartParse(context.Background(), GrammarAdHoc)
	defer span.End()

	if ctx == nil {
		t.Error("StartParse() should return non-nil context")
	}
}

func TestTracerStartEvaluate(t *testing.T) {
	tracer := NewTracer(tracenoop.NewTracerProvider(), "test-service")

	ctx, span := tracer.StartEvaluate(context.Background(), GrammarStructured, 42)
	defer span.End()

	if ctx == nil {
		t.Error("StartEvaluate() should return non-nil context")
	}
}

func TestEndSpan(t *testing.T) {
	tracer := NewTracer(tracenoop.NewTracerProvider(), "test-service")

	_, span := tracer.StartSpan(context.Background(), "test")
	EndSpan(span, nil)

	_, span = tracer.StartSpan(context.Background(), "test")
	EndSpan(span, errors.New("boom"))
}

func TestNoopTracer(t *testing.T) {
	tracer := NewNoopTracer()

	ctx := context.Background()

	// Span creation must not panic without a real provider
	ctx, span := tracer.StartSpan(ctx, "test")
	span.End()

	ctx, span = tracer.StartParse(ctx, GrammarSimple)
	span.End()

	_, span = tracer.StartEvaluate(ctx, GrammarAdHoc, 3)
	EndSpan(span, nil)
}

func TestNoopMetrics(t *testing.T) {
	metrics := NewNoopMetrics()

	ctx := context.Background()

	// Record methods must not panic without a real provider
	metrics.RecordParse(ctx, GrammarAdHoc, true)
	metrics.RecordParse(ctx, GrammarStructured, false)
	metrics.RecordRejection(ctx, GrammarStructured, "syntax")
	metrics.RecordEvaluation(ctx, GrammarAdHoc, 10, time.Millisecond*100)
}

func TestNewMetrics(t *testing.T) {
	metrics := NewMetrics(noop.NewMeterProvider())

	if metrics == nil {
		t.Fatal("NewMetrics() should return non-nil metrics")
		return
	}

	ctx := context.Background()
	metrics.RecordParse(ctx, GrammarSimple, true)
	metrics.RecordRejection(ctx, GrammarAdHoc, "invalid")
	metrics.RecordEvaluation(ctx, GrammarStructured, 0, time.Second)
}
