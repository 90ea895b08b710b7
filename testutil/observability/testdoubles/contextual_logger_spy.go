package testdoubles

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/graphql-effects-link-go/effects"
)

const (
	levelDebug = "debug"
	levelInfo  = "info"
	levelWarn  = "warn"
	levelError = "error"
)

// ContextualLoggerSpy is an effects.ContextualLogger that captures calls together with their context.
type ContextualLoggerSpy struct {
	records     []SpyContextualLogRecord
	mu          sync.Mutex
	recordCalls bool
}

// SpyContextualLogRecord represents a recorded contextual log call.
type SpyContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// Arg returns the value following key in Args and whether key was present.
func (r SpyContextualLogRecord) Arg(key string) (any, bool) {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1], true
		}
	}

	return nil, false
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy.
// Set recordCalls to true to capture all calls for inspection in tests.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{recordCalls: recordCalls}
}

// DebugContext implements effects.ContextualLogger.
func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelDebug, msg, args)
}

// InfoContext implements effects.ContextualLogger.
func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelInfo, msg, args)
}

// WarnContext implements effects.ContextualLogger.
func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelWarn, msg, args)
}

// ErrorContext implements effects.ContextualLogger.
func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, levelError, msg, args)
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level, msg string, args []any) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyContextualLogRecord{
		Level:   level,
		Message: msg,
		Args:    append([]any(nil), args...),
		Context: ctx,
	})
}

// GetDebugRecords returns a copy of all debug log records.
func (s *ContextualLoggerSpy) GetDebugRecords() []SpyContextualLogRecord {
	return s.recordsAt(levelDebug)
}

// HasDebugLog checks if a debug log with the specified message exists.
func (s *ContextualLoggerSpy) HasDebugLog(message string) bool {
	return s.hasLog(levelDebug, message)
}

// HasInfoLog checks if an info log with the specified message exists.
func (s *ContextualLoggerSpy) HasInfoLog(message string) bool {
	return s.hasLog(levelInfo, message)
}

// HasWarnLog checks if a warn log with the specified message exists.
func (s *ContextualLoggerSpy) HasWarnLog(message string) bool {
	return s.hasLog(levelWarn, message)
}

// HasErrorLog checks if an error log with the specified message exists.
func (s *ContextualLoggerSpy) HasErrorLog(message string) bool {
	return s.hasLog(levelError, message)
}

func (s *ContextualLoggerSpy) hasLog(level, message string) bool {
	for _, record := range s.recordsAt(level) {
		if record.Message == message {
			return true
		}
	}

	return false
}

func (s *ContextualLoggerSpy) recordsAt(level string) []SpyContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	matching := make([]SpyContextualLogRecord, 0)
	for _, record := range s.records {
		if record.Level == level {
			matching = append(matching, record)
		}
	}

	return matching
}

var _ effects.ContextualLogger = (*ContextualLoggerSpy)(nil)
