package effects_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/graphql-effects-link-go/effects"
	"github.com/AntonStoeckl/graphql-effects-link-go/link"
	"github.com/AntonStoeckl/graphql-effects-link-go/stream"
	"github.com/AntonStoeckl/graphql-effects-link-go/testutil/observability/testdoubles"
)

func Test_ObservableLink_WithLogger_LogsPublishedAndSkippedOperations(t *testing.T) {
	// setup
	logHandler := testdoubles.NewLogHandlerSpy(false)
	observable, err := effects.NewObservableLink(effects.Merge(), effects.WithLogger(slog.New(logHandler)))
	require.NoError(t, err)

	// act
	observable.Request(mustOperation(t, queryWithMarker), newForwardSpy().forward)
	observable.Request(mustOperation(t, queryWithoutMarker), newForwardSpy().forward)

	// assert
	assert.True(t, logHandler.HasDebugLogWithMessage("operation published").
		WithAttr("operation_name", "GetBook").
		WithAttr("operation_type", "query").
		WithAttrKey("operation_id").
		WithDurationMS().
		Assert())

	assert.True(t, logHandler.HasDebugLogWithMessage("operation skipped, directive not present").
		WithAttr("directive", "effect").
		Assert())
}

func Test_ObservableLink_WithLogger_LogsRootEffectFailure(t *testing.T) {
	// setup
	logHandler := testdoubles.NewLogHandlerSpy(false)
	boom := errors.New("effect failed")
	root := func(stream.Observable[*link.Operation]) stream.Observable[any] {
		return stream.Throw[any](boom)
	}

	// act
	_, err := effects.NewObservableLink(root, effects.WithLogger(slog.New(logHandler)))

	// assert
	require.NoError(t, err)
	assert.True(t, logHandler.HasErrorLogWithMessage("root effect stream failed").
		WithAttr("error", "effect failed").
		Assert())
}

func Test_ObservableLink_WithContextualLogger_LogsWithTheOperationContext(t *testing.T) {
	// setup
	contextualLogger := testdoubles.NewContextualLoggerSpy(true)
	observable, err := effects.NewObservableLink(effects.Merge(), effects.WithContextualLogger(contextualLogger))
	require.NoError(t, err)
	operation := mustOperation(t, queryWithMarker).WithContext(contextWithRequestID("r-42"))

	// act
	observable.Request(operation, newForwardSpy().forward)

	// assert
	require.True(t, contextualLogger.HasDebugLog("operation published"))

	var published testdoubles.SpyContextualLogRecord
	for _, record := range contextualLogger.GetDebugRecords() {
		if record.Message == "operation published" {
			published = record
		}
	}

	assert.Equal(t, "r-42", published.Context.Value(requestIDKey{}))
	operationID, ok := published.Arg("operation_id")
	assert.True(t, ok)
	assert.Equal(t, operation.ID.String(), operationID)
}

func Test_ObservableLink_WithMetrics_RecordsPublicationMetrics(t *testing.T) {
	// setup
	metricsCollector := testdoubles.NewMetricsCollectorSpy(true)
	observable, err := effects.NewObservableLink(effects.Logging(nil), effects.WithMetrics(metricsCollector))
	require.NoError(t, err)

	// act
	observable.Request(mustOperation(t, queryWithMarker), newForwardSpy().forward)
	observable.Request(mustOperation(t, queryWithoutMarker), newForwardSpy().forward)
	observable.Request(mustOperation(t, queryWithoutMarker), newForwardSpy().forward)

	// assert
	assert.True(t, metricsCollector.HasDurationRecordForMetric("effects_publish_duration_seconds").
		WithLabel("operation_name", "GetBook").
		WithLabel("operation_type", "query").
		WithStatus("success").
		WithContext().
		Assert())

	assert.True(t, metricsCollector.HasValueRecordForMetric("effects_operation_subscribers").
		WithValue(1).
		Assert(), "the automatic subscription is the only subscriber")

	assert.Equal(t, 1, metricsCollector.CountRecordsForMetric(testdoubles.MetricKindCounter, "effects_operations_published_total"))
	assert.Equal(t, 2, metricsCollector.CountRecordsForMetric(testdoubles.MetricKindCounter, "effects_operations_skipped_total"))
	assert.True(t, metricsCollector.HasCounterRecordForMetric("effects_operations_skipped_total").
		WithStatus("skipped").
		Assert())
}

func Test_ObservableLink_WithPlainMetrics_FallsBackToContextFreeMethods(t *testing.T) {
	// setup
	spy := testdoubles.NewMetricsCollectorSpy(true)
	observable, err := effects.NewObservableLink(
		effects.Merge(),
		effects.WithMetrics(testdoubles.PlainMetricsCollectorSpy{Spy: spy}),
	)
	require.NoError(t, err)

	// act
	observable.Request(mustOperation(t, queryWithMarker), newForwardSpy().forward)

	// assert
	assert.True(t, spy.HasDurationRecordForMetric("effects_publish_duration_seconds").Assert())
	assert.False(t, spy.HasDurationRecordForMetric("effects_publish_duration_seconds").WithContext().Assert())
}

func Test_ObservableLink_WithTracing_WrapsPublicationInASpan(t *testing.T) {
	// setup
	tracingCollector := testdoubles.NewTracingCollectorSpy(true)
	observable, err := effects.NewObservableLink(effects.Merge(), effects.WithTracing(tracingCollector))
	require.NoError(t, err)
	operation := mustOperation(t, queryWithMarker)

	// act
	observable.Request(operation, newForwardSpy().forward)
	observable.Request(mustOperation(t, queryWithoutMarker), newForwardSpy().forward)

	// assert
	spans := tracingCollector.GetSpanRecords()
	require.Len(t, spans, 1, "skipped operations are not traced")
	assert.Equal(t, "success", spans[0].SpanContext.GetStatus())
	assert.True(t, tracingCollector.HasSpanRecordForName("effects.publish").
		WithStartAttribute("operation_id", operation.ID.String()).
		WithStartAttribute("operation_name", "GetBook").
		WithStatus("success").
		WithAttributeKey("subscriber_count").
		WithAttributeKey("duration_ms").
		Assert())
}

func Test_ObservableLink_WithDisabledSpies_StillWorks(t *testing.T) {
	// setup
	observable, err := effects.NewObservableLink(
		effects.Merge(),
		effects.WithContextualLogger(testdoubles.NewContextualLoggerSpy(false)),
		effects.WithMetrics(testdoubles.NewMetricsCollectorSpy(false)),
		effects.WithTracing(testdoubles.NewTracingCollectorSpy(false)),
	)
	require.NoError(t, err)
	forward := newForwardSpy()

	// act
	result := observable.Request(mustOperation(t, queryWithMarker), forward.forward)

	// assert
	assert.Same(t, forward.result, result)
}
