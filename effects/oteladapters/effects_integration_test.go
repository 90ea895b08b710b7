package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/graphql-effects-link-go/effects"
	"github.com/AntonStoeckl/graphql-effects-link-go/effects/oteladapters"
	"github.com/AntonStoeckl/graphql-effects-link-go/link"
	"github.com/AntonStoeckl/graphql-effects-link-go/stream"
)

func Test_ObservableLink_WithOpenTelemetryAdapters(t *testing.T) {
	// setup
	exporter := tracetest.NewInMemoryExporter()
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	var logs bytes.Buffer
	handler := slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)

	observableLink, err := effects.NewObservableLink(
		effects.Logging(nil),
		effects.WithContextualLogger(logger),
		effects.WithMetrics(oteladapters.NewMetricsCollector(meterProvider.Meter("test"))),
		effects.WithTracing(oteladapters.NewTracingCollector(tracerProvider.Tracer("test"))),
	)
	require.NoError(t, err)

	terminating := link.Terminate(func(*link.Operation) stream.Observable[link.FetchResult] {
		return stream.Of(link.FetchResult{Data: map[string]any{"me": nil}})
	})
	chain := link.From(observableLink, terminating)

	marked, err := link.NewOperation(context.Background(), `query Me @effect { me { id } }`, nil)
	require.NoError(t, err)
	unmarked, err := link.NewOperation(context.Background(), `query Other { me { id } }`, nil)
	require.NoError(t, err)

	// act
	link.Execute(chain, marked).Subscribe(stream.Observer[link.FetchResult]{})
	link.Execute(chain, unmarked).Subscribe(stream.Observer[link.FetchResult]{})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "effects.publish", spans[0].Name)

	published, ok := findMetric(collect(t, reader), "effects_operations_published_total")
	assert.True(t, ok)
	assert.NotEmpty(t, published.Data)

	assert.Contains(t, logs.String(), `"msg":"operation published"`)
	assert.Contains(t, logs.String(), `"operation_name":"Me"`)
}
