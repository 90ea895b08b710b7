package journal

import (
	"context"
	"math"
	"time"

	"github.com/AntonStoeckl/graphql-effects-link-go/effects"
)

const (
	logMsgEnsureSchemaFailed     = "failed to ensure journal schema"
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgDBExecFailed           = "database execution failed during journal append"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgRowsAffectedFailed     = "failed to get rows affected count"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgBuildEntryFailed       = "failed to build journal entry"
	logMsgEntryRecorded          = "entry recorded"
	logMsgEntryAlreadyRecorded   = "entry already recorded"
	logMsgOperationDropped       = "journal queue full, operation dropped"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "journal operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrDriver                = "driver"
	logAttrOperationID           = "operation_id"
	logAttrOperationName         = "operation_name"
	logAttrQueueSize             = "queue_size"
	logAttrDurationMS            = "duration_ms"
	logActionEnsureSchema        = "ensure schema"
	logActionAppend              = "append"
	logActionLoad                = "load"
	metricAppendDuration         = "journal_append_duration_seconds"
	metricLoadDuration           = "journal_load_duration_seconds"
	metricEntriesLoaded          = "journal_entries_loaded_total"
	metricOperationsDropped      = "journal_operations_dropped_total"
	metricErrors                 = "journal_errors_total"
	labelOperation               = "operation"
	labelStatus                  = "status"
	labelErrorType               = "error_type"
	labelDriver                  = "driver"
	operationEnsureSchema        = "ensure_schema"
	operationAppend              = "append"
	operationLoad                = "load"
	operationEnqueue             = "enqueue"
	statusSuccess                = "success"
	statusError                  = "error"
	statusDuplicate              = "duplicate"
	statusDropped                = "dropped"
	errorTypeBuildQuery          = "build_query"
	errorTypeBuildEntry          = "build_entry"
	errorTypeDatabaseExec        = "database_exec"
	errorTypeDatabaseQuery       = "database_query"
	errorTypeRowsAffected        = "rows_affected"
	errorTypeScanRow             = "scan_row"
)

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (j Journal) logQueryWithDuration(ctx context.Context, sqlQuery, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery, logAttrDriver, j.db.Driver()}

	if j.logger != nil {
		j.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if j.contextualLogger != nil {
		j.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

// logOperation logs operational information at info level.
func (j Journal) logOperation(ctx context.Context, action string, args ...any) {
	if j.logger != nil {
		j.logger.Info(logMsgOperation+action, args...)
	}

	if j.contextualLogger != nil {
		j.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

func (j Journal) logWarn(ctx context.Context, message string, args ...any) {
	if j.logger != nil {
		j.logger.Warn(message, args...)
	}

	if j.contextualLogger != nil {
		j.contextualLogger.WarnContext(ctx, message, args...)
	}
}

// logError logs error information at error level.
func (j Journal) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if j.logger != nil {
		j.logger.Error(message, allArgs...)
	}

	if j.contextualLogger != nil {
		j.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

func (j Journal) recordAppend(ctx context.Context, duration time.Duration, status string) {
	j.recordDuration(ctx, metricAppendDuration, duration, map[string]string{
		labelOperation: operationAppend,
		labelStatus:    status,
		labelDriver:    j.db.Driver(),
	})
}

func (j Journal) recordLoad(ctx context.Context, duration time.Duration, entryCount int) {
	labels := map[string]string{
		labelOperation: operationLoad,
		labelStatus:    statusSuccess,
		labelDriver:    j.db.Driver(),
	}

	j.recordDuration(ctx, metricLoadDuration, duration, labels)

	if j.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := j.metricsCollector.(effects.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricEntriesLoaded, float64(entryCount), labels)
		return
	}

	j.metricsCollector.RecordValue(metricEntriesLoaded, float64(entryCount), labels)
}

func (j Journal) recordDropped(ctx context.Context) {
	j.incrementCounter(ctx, metricOperationsDropped, map[string]string{
		labelOperation: operationEnqueue,
		labelStatus:    statusDropped,
	})
}

func (j Journal) recordError(ctx context.Context, operation, errorType string) {
	j.incrementCounter(ctx, metricErrors, map[string]string{
		labelOperation: operation,
		labelStatus:    statusError,
		labelErrorType: errorType,
	})
}

func (j Journal) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if j.metricsCollector == nil {
		return
	}

	// Use context-aware method if available
	if contextualCollector, ok := j.metricsCollector.(effects.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	j.metricsCollector.RecordDuration(metric, duration, labels)
}

func (j Journal) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if j.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := j.metricsCollector.(effects.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	j.metricsCollector.IncrementCounter(metric, labels)
}
