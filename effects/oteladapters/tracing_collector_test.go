package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/graphql-effects-link-go/effects/oteladapters"
)

func newTracingCollector() (*oteladapters.TracingCollector, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return oteladapters.NewTracingCollector(provider.Tracer("test")), exporter
}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, value string) {
	t.Helper()

	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) {
			assert.Equal(t, value, attr.Value.AsString(), "attribute %s", key)
			return
		}
	}

	assert.Failf(t, "attribute missing", "span %s has no attribute %s", span.Name, key)
}

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	// arrange
	collector, exporter := newTracingCollector()

	// act
	ctx, spanCtx := collector.StartSpan(context.Background(), "effects.publish", map[string]string{
		"operation_name": "GetUser",
		"operation_type": "query",
	})
	spanCtx.AddAttribute("directive", "effect")
	collector.FinishSpan(spanCtx, "success", map[string]string{"subscriber_count": "2"})

	// assert
	assert.NotNil(t, ctx)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "effects.publish", spans[0].Name)
	assertSpanHasAttribute(t, spans[0], "operation_name", "GetUser")
	assertSpanHasAttribute(t, spans[0], "operation_type", "query")
	assertSpanHasAttribute(t, spans[0], "directive", "effect")
	assertSpanHasAttribute(t, spans[0], "subscriber_count", "2")
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
}

func Test_TracingCollector_StartSpan_CreatesChildSpans(t *testing.T) {
	// arrange
	collector, exporter := newTracingCollector()

	// act
	parentCtx, parent := collector.StartSpan(context.Background(), "graphql.request", nil)
	_, child := collector.StartSpan(parentCtx, "effects.publish", nil)
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}

func Test_TracingCollector_FinishSpan_MapsStatus(t *testing.T) {
	testCases := []struct {
		name         string
		status       string
		expectedCode codes.Code
	}{
		{name: "success", status: "success", expectedCode: codes.Ok},
		{name: "skipped", status: "skipped", expectedCode: codes.Ok},
		{name: "error", status: "error", expectedCode: codes.Error},
		{name: "dropped", status: "dropped", expectedCode: codes.Error},
		{name: "cancelled", status: "canceled", expectedCode: codes.Error},
		{name: "unknown", status: "duplicate", expectedCode: codes.Unset},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			collector, exporter := newTracingCollector()

			_, spanCtx := collector.StartSpan(context.Background(), "effects.publish", nil)
			collector.FinishSpan(spanCtx, tc.status, nil)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)
		})
	}
}

func Test_TracingCollector_FinishSpan_KeepsUnknownStatusAsAttribute(t *testing.T) {
	collector, exporter := newTracingCollector()

	_, spanCtx := collector.StartSpan(context.Background(), "journal.append", nil)
	collector.FinishSpan(spanCtx, "duplicate", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assertSpanHasAttribute(t, spans[0], "status", "duplicate")
}

type foreignSpanContext struct{}

func (foreignSpanContext) SetStatus(string)            {}
func (foreignSpanContext) AddAttribute(string, string) {}

func Test_TracingCollector_FinishSpan_IgnoresForeignSpanContexts(t *testing.T) {
	collector, exporter := newTracingCollector()

	assert.NotPanics(t, func() {
		collector.FinishSpan(foreignSpanContext{}, "success", nil)
	})
	assert.Empty(t, exporter.GetSpans())
}
