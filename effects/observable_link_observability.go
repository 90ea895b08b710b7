package effects

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/graphql-effects-link-go/link"
)

const (
	logMsgOperationPublished  = "operation published"
	logMsgOperationSkipped    = "operation skipped, directive not present"
	logMsgRootEffectFailed    = "root effect stream failed"
	logMsgRootEffectCompleted = "root effect stream completed"
	logAttrError              = "error"
	logAttrOperationID        = "operation_id"
	logAttrOperationName      = "operation_name"
	logAttrOperationType      = "operation_type"
	logAttrDirective          = "directive"
	logAttrDurationMS         = "duration_ms"
	metricPublishDuration     = "effects_publish_duration_seconds"
	metricOperationsPublished = "effects_operations_published_total"
	metricOperationsSkipped   = "effects_operations_skipped_total"
	metricSubscribers         = "effects_operation_subscribers"
	spanNamePublish           = "effects.publish"
	spanAttrOperationID       = "operation_id"
	spanAttrOperationName     = "operation_name"
	spanAttrOperationType     = "operation_type"
	spanAttrSubscriberCount   = "subscriber_count"
	spanAttrDurationMS        = "duration_ms"
	labelOperationName        = "operation_name"
	labelOperationType        = "operation_type"
	labelStatus               = "status"
	statusSuccess             = "success"
	statusSkipped             = "skipped"
	unnamedOperation          = "anonymous"
)

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func operationName(operation *link.Operation) string {
	if operation.OperationName == "" {
		return unnamedOperation
	}

	return operation.OperationName
}

func operationLabels(operation *link.Operation, status string) map[string]string {
	return map[string]string{
		labelOperationName: operationName(operation),
		labelOperationType: string(operation.OperationType()),
		labelStatus:        status,
	}
}

// logPublished logs a published Operation at debug level with whichever loggers are configured.
func (l *ObservableLink) logPublished(ctx context.Context, operation *link.Operation, duration time.Duration) {
	args := []any{
		logAttrOperationID, operation.ID.String(),
		logAttrOperationName, operationName(operation),
		logAttrOperationType, string(operation.OperationType()),
		logAttrDurationMS, toMilliseconds(duration),
	}

	if l.logger != nil {
		l.logger.Debug(logMsgOperationPublished, args...)
	}

	if l.contextualLogger != nil {
		l.contextualLogger.DebugContext(ctx, logMsgOperationPublished, args...)
	}
}

// logSkipped logs an Operation that was forwarded without publication.
func (l *ObservableLink) logSkipped(operation *link.Operation) {
	args := []any{
		logAttrOperationID, operation.ID.String(),
		logAttrOperationName, operationName(operation),
		logAttrDirective, l.directiveName,
	}

	if l.logger != nil {
		l.logger.Debug(logMsgOperationSkipped, args...)
	}

	if l.contextualLogger != nil {
		l.contextualLogger.DebugContext(operation.Context(), logMsgOperationSkipped, args...)
	}
}

// logRootEffectFailed reports a terminal error of the root effect on the automatic subscription.
func (l *ObservableLink) logRootEffectFailed(err error) {
	if l.logger != nil {
		l.logger.Error(logMsgRootEffectFailed, logAttrError, err.Error())
	}

	if l.contextualLogger != nil {
		l.contextualLogger.ErrorContext(context.Background(), logMsgRootEffectFailed, logAttrError, err.Error())
	}
}

func (l *ObservableLink) logRootEffectCompleted() {
	if l.logger != nil {
		l.logger.Debug(logMsgRootEffectCompleted)
	}

	if l.contextualLogger != nil {
		l.contextualLogger.DebugContext(context.Background(), logMsgRootEffectCompleted)
	}
}

// recordPublished records duration, counter and subscriber metrics for a published Operation.
func (l *ObservableLink) recordPublished(ctx context.Context, operation *link.Operation, duration time.Duration) {
	if l.metricsCollector == nil {
		return
	}

	labels := operationLabels(operation, statusSuccess)
	subscribers := float64(l.operations.ObserverCount())

	// Use context-aware methods if available
	if contextualCollector, ok := l.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricPublishDuration, duration, labels)
		contextualCollector.IncrementCounterContext(ctx, metricOperationsPublished, labels)
		contextualCollector.RecordValueContext(ctx, metricSubscribers, subscribers, labels)

		return
	}

	l.metricsCollector.RecordDuration(metricPublishDuration, duration, labels)
	l.metricsCollector.IncrementCounter(metricOperationsPublished, labels)
	l.metricsCollector.RecordValue(metricSubscribers, subscribers, labels)
}

// recordSkipped logs and counts an Operation that was forwarded without publication.
func (l *ObservableLink) recordSkipped(operation *link.Operation) {
	l.logSkipped(operation)

	if l.metricsCollector == nil {
		return
	}

	labels := operationLabels(operation, statusSkipped)

	if contextualCollector, ok := l.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(operation.Context(), metricOperationsSkipped, labels)
		return
	}

	l.metricsCollector.IncrementCounter(metricOperationsSkipped, labels)
}

// publishTracingObserver encapsulates the span lifecycle of a single publication.
type publishTracingObserver struct {
	l    *ObservableLink
	span SpanContext
}

// startPublishTracing starts the publication span if the tracing collector is configured.
func (l *ObservableLink) startPublishTracing(operation *link.Operation) (*publishTracingObserver, context.Context) {
	ctx := operation.Context()
	observer := &publishTracingObserver{l: l}

	if l.tracingCollector == nil {
		return observer, ctx
	}

	spanAttrs := map[string]string{
		spanAttrOperationID:   operation.ID.String(),
		spanAttrOperationName: operationName(operation),
		spanAttrOperationType: string(operation.OperationType()),
	}

	ctx, observer.span = l.tracingCollector.StartSpan(ctx, spanNamePublish, spanAttrs)

	return observer, ctx
}

// finishSuccess completes the publication span.
func (o *publishTracingObserver) finishSuccess(duration time.Duration) {
	if o.span == nil {
		return
	}

	subscribers := fmt.Sprintf("%d", o.l.operations.ObserverCount())

	o.span.SetStatus(statusSuccess)
	o.span.AddAttribute(spanAttrSubscriberCount, subscribers)
	o.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))

	o.l.tracingCollector.FinishSpan(o.span, statusSuccess, map[string]string{
		spanAttrSubscriberCount: subscribers,
	})
}
