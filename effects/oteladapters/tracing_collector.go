package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/graphql-effects-link-go/effects"
)

const statusAttribute = "status"

// TracingCollector implements effects.TracingCollector with an OpenTelemetry tracer.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector creates a collector using tracer from your TracerProvider.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan starts a child span of the span in ctx, if any.
func (t *TracingCollector) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, effects.SpanContext) {

	spanCtx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attrs)...))

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan adds attrs, maps status and ends the span. SpanContexts from other collectors are ignored.
func (t *TracingCollector) FinishSpan(spanCtx effects.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(toAttributes(attrs)...)
	otelSpanCtx.SetStatus(status)
	otelSpanCtx.span.End()
}

var _ effects.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext implements effects.SpanContext by wrapping an OpenTelemetry span.
type OTelSpanContext struct {
	span trace.Span
}

// SetStatus maps the status strings used by the effects packages to OpenTelemetry status codes.
// Unknown values are kept as a span attribute.
func (s *OTelSpanContext) SetStatus(status string) {
	switch status {
	case "ok", "success", "completed", "skipped":
		s.span.SetStatus(codes.Ok, "")
	case "error", "failed":
		s.span.SetStatus(codes.Error, "operation failed")
	case "dropped":
		s.span.SetStatus(codes.Error, "operation dropped")
	case "cancelled", "canceled":
		s.span.SetStatus(codes.Error, "operation cancelled")
	default:
		s.span.SetAttributes(attribute.String(statusAttribute, status))
	}
}

// AddAttribute sets a string attribute on the span.
func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

var _ effects.SpanContext = (*OTelSpanContext)(nil)
