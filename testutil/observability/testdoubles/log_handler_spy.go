package testdoubles

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// LogHandlerSpy is a slog.Handler that captures log records for testing.
type LogHandlerSpy struct {
	records     []slog.Record
	mu          sync.Mutex
	logToStdout bool
}

// NewLogHandlerSpy creates a new LogHandlerSpy.
// Switchable to log to stdout, which helps to see the actual log output while debugging a test.
func NewLogHandlerSpy(logToStdout bool) *LogHandlerSpy {
	return &LogHandlerSpy{
		records:     make([]slog.Record, 0),
		logToStdout: logToStdout,
	}
}

// Handle implements slog.Handler.
func (s *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record.Clone())

	if s.logToStdout {
		_ = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}).Handle(ctx, record)
	}

	return nil
}

// Enabled implements slog.Handler. All levels are enabled.
func (s *LogHandlerSpy) Enabled(context.Context, slog.Level) bool {
	return true
}

// WithAttrs implements slog.Handler. Handler-level attributes are not captured.
func (s *LogHandlerSpy) WithAttrs([]slog.Attr) slog.Handler {
	return s
}

// WithGroup implements slog.Handler. Groups are not captured.
func (s *LogHandlerSpy) WithGroup(string) slog.Handler {
	return s
}

// CountLogsWithMessage counts the captured records with the given level and message.
func (s *LogHandlerSpy) CountLogsWithMessage(level slog.Level, message string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.records {
		if record.Level == level && record.Message == message {
			count++
		}
	}

	return count
}

// HasDebugLogWithMessage starts a fluent chain to check a debug-level log record.
func (s *LogHandlerSpy) HasDebugLogWithMessage(message string) *SpyLogRecordMatcher {
	return s.hasLogWithMessage(slog.LevelDebug, message)
}

// HasInfoLogWithMessage starts a fluent chain to check an info-level log record.
func (s *LogHandlerSpy) HasInfoLogWithMessage(message string) *SpyLogRecordMatcher {
	return s.hasLogWithMessage(slog.LevelInfo, message)
}

// HasWarnLogWithMessage starts a fluent chain to check a warn-level log record.
func (s *LogHandlerSpy) HasWarnLogWithMessage(message string) *SpyLogRecordMatcher {
	return s.hasLogWithMessage(slog.LevelWarn, message)
}

// HasErrorLogWithMessage starts a fluent chain to check an error-level log record.
func (s *LogHandlerSpy) HasErrorLogWithMessage(message string) *SpyLogRecordMatcher {
	return s.hasLogWithMessage(slog.LevelError, message)
}

func (s *LogHandlerSpy) hasLogWithMessage(level slog.Level, message string) *SpyLogRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	matching := make([]slog.Record, 0)
	for _, record := range s.records {
		if record.Level == level && record.Message == message {
			matching = append(matching, record)
		}
	}

	return &SpyLogRecordMatcher{candidates: matching}
}

// SpyLogRecordMatcher provides a fluent interface for checking log record attributes.
// It matches if at least one captured record satisfies all conditions of the chain.
type SpyLogRecordMatcher struct {
	candidates []slog.Record
}

// WithAttr keeps only records having the attribute key with the given value rendered as a string.
func (m *SpyLogRecordMatcher) WithAttr(key, value string) *SpyLogRecordMatcher {
	return m.keep(func(attr slog.Attr) bool {
		return attr.Key == key && attr.Value.String() == value
	})
}

// WithAttrKey keeps only records having the attribute key.
func (m *SpyLogRecordMatcher) WithAttrKey(key string) *SpyLogRecordMatcher {
	return m.keep(func(attr slog.Attr) bool {
		return attr.Key == key
	})
}

// WithDurationMS keeps only records having a non-negative duration_ms attribute.
func (m *SpyLogRecordMatcher) WithDurationMS() *SpyLogRecordMatcher {
	return m.keep(func(attr slog.Attr) bool {
		if attr.Key != "duration_ms" {
			return false
		}

		switch attr.Value.Kind() {
		case slog.KindFloat64:
			return attr.Value.Float64() >= 0
		case slog.KindInt64:
			return attr.Value.Int64() >= 0
		default:
			return false
		}
	})
}

// Assert returns true if all conditions in the fluent chain were met.
func (m *SpyLogRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

func (m *SpyLogRecordMatcher) keep(match func(attr slog.Attr) bool) *SpyLogRecordMatcher {
	kept := make([]slog.Record, 0, len(m.candidates))

	for _, record := range m.candidates {
		found := false
		record.Attrs(func(attr slog.Attr) bool {
			found = match(attr)
			return !found
		})

		if found {
			kept = append(kept, record)
		}
	}

	m.candidates = kept

	return m
}
