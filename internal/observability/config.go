// Package observability wires OpenTelemetry tracing and metrics around the
// filter engine. The engine itself stays pure; embedding services and the
// bundled CLI decide whether instruments are real or no-ops.
package observability

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName identifies this library's tracer.
	TracerName = "github.com/taskwise/taskfilter"
	// MeterName identifies this library's meter.
	MeterName = "github.com/taskwise/taskfilter"
)

// Grammar names used as instrument attributes.
const (
	GrammarAdHoc      = "adhoc"
	GrammarSimple     = "simple"
	GrammarStructured = "structured"
)

// Config holds the observability configuration for the filter engine.
type Config struct {
	// TracerProvider is the OpenTelemetry tracer provider.
	// If nil, tracing is disabled.
	TracerProvider trace.TracerProvider

	// MeterProvider is the OpenTelemetry meter provider.
	// If nil, metrics collection is disabled.
	MeterProvider metric.MeterProvider

	// ServiceName identifies the embedding service in traces and metrics.
	ServiceName string

	tracer  *Tracer
	metrics *Metrics
}

// Option is a functional option for configuring observability.
type Option func(*Config)

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

// WithMeterProvider sets the meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Config) {
		c.MeterProvider = mp
	}
}

// WithServiceName sets the service name for identification.
func WithServiceName(name string) Option {
	return func(c *Config) {
		c.ServiceName = name
	}
}

// New builds a Config from the given options. Providers left unset fall back
// to no-op instruments.
func New(opts ...Option) *Config {
	c := &Config{}
	for _, opt := range opts {
		opt(c)
	}

	if c.TracerProvider != nil {
		c.tracer = NewTracer(c.TracerProvider, c.ServiceName)
	} else {
		c.tracer = NewNoopTracer()
	}
	if c.MeterProvider != nil {
		c.metrics = NewMetrics(c.MeterProvider)
	} else {
		c.metrics = NewNoopMetrics()
	}
	return c
}

// Tracer returns the configured tracer.
func (c *Config) Tracer() *Tracer {
	return c.tracer
}

// Metrics returns the configured metrics.
func (c *Config) Metrics() *Metrics {
	return c.metrics
}

// GrammarAttr builds the attribute identifying which filter grammar an
// operation ran against.
func GrammarAttr(grammar string) attribute.KeyValue {
	return attribute.String("taskfilter.grammar", grammar)
}

// OutcomeAttr builds the attribute recording whether an operation accepted
// its input.
func OutcomeAttr(accepted bool) attribute.KeyValue {
	return attribute.Bool("taskfilter.accepted", accepted)
}
