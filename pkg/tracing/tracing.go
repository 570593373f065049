// Package tracing wraps OpenTelemetry spans around engine work.
//
// The tracer uses the global OpenTelemetry tracer provider unless one is
// given. Configure it in main() before mounting:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
// A nil *Tracer is valid and traces nothing.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTracerName is the instrumentation name used when none is set.
const DefaultTracerName = "relax"

// Span names.
const (
	SpanAppMount       = "relax.app.mount"
	SpanAppUnmount     = "relax.app.unmount"
	SpanComponentPatch = "relax.component.patch"
	SpanSchedulerJob   = "relax.scheduler.job"
)

// Attribute keys.
const (
	AttrComponent = attribute.Key("relax.component")
	AttrJob       = attribute.Key("relax.job")
	AttrRenders   = attribute.Key("relax.renders")
)

// Config configures a Tracer.
type Config struct {
	// TracerName is the instrumentation name (default: "relax").
	TracerName string

	// Provider supplies the tracer. Default: otel.GetTracerProvider().
	Provider trace.TracerProvider
}

// Option configures a Tracer.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.Provider = tp
	}
}

// Tracer starts engine spans.
type Tracer struct {
	tracer trace.Tracer
}

// New creates a Tracer.
func New(opts ...Option) *Tracer {
	config := Config{TracerName: DefaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	return &Tracer{tracer: config.Provider.Tracer(config.TracerName)}
}

// Start opens a span. The returned *Span is nil when t is nil.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	if t == nil {
		return ctx, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, &Span{span: span}
}

// Span is an open engine span.
type Span struct {
	span trace.Span
}

// SetAttributes adds attributes to the span.
func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	if s == nil {
		return
	}
	s.span.SetAttributes(attrs...)
}

// End records err, if any, sets the span status and ends it.
func (s *Span) End(err error) {
	if s == nil {
		return
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}
