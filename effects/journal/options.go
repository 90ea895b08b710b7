package journal

import (
	"time"

	"github.com/AntonStoeckl/graphql-effects-link-go/effects"
)

// Option defines a functional option for configuring a Journal.
type Option func(*Journal) error

// WithTableName sets the table the Journal writes to. It defaults to "operation_journal".
func WithTableName(tableName string) Option {
	return func(j *Journal) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		j.tableName = tableName

		return nil
	}
}

// WithQueueSize sets how many Operations may wait for their append per subscription of the
// journal effect. Operations published while the queue is full are dropped.
func WithQueueSize(size int) Option {
	return func(j *Journal) error {
		if size < 1 {
			return ErrInvalidQueueSize
		}

		j.queueSize = size

		return nil
	}
}

// WithClock sets the source of the recording time. It defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(j *Journal) error {
		if clock == nil {
			return ErrNilClock
		}

		j.clock = clock

		return nil
	}
}

// WithLogger sets the logger for the Journal.
//
// Debug level: executed SQL with timing
// Info level: recorded entries
// Warn level: dropped Operations
// Error level: failed statements.
func WithLogger(logger effects.Logger) Option {
	return func(j *Journal) error {
		j.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Journal.
func WithContextualLogger(logger effects.ContextualLogger) Option {
	return func(j *Journal) error {
		j.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Journal.
// It receives append durations and counters for recorded, dropped and failed entries.
func WithMetrics(collector effects.MetricsCollector) Option {
	return func(j *Journal) error {
		j.metricsCollector = collector
		return nil
	}
}
