package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/graphql-effects-link-go/effects"
)

// SpySpanContext is the effects.SpanContext handed out by TracingCollectorSpy.
type SpySpanContext struct {
	status     string
	attributes map[string]string
	mu         sync.Mutex
}

// SetStatus implements effects.SpanContext.
func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

// AddAttribute implements effects.SpanContext.
func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attributes == nil {
		c.attributes = make(map[string]string)
	}
	c.attributes[key] = value
}

// GetStatus returns the status set on the span.
func (c *SpySpanContext) GetStatus() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

// GetAttributes returns a copy of the attributes added to the span.
func (c *SpySpanContext) GetAttributes() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.attributes)
}

// SpySpanRecord represents a recorded span.
type SpySpanRecord struct {
	Name            string
	StartAttributes map[string]string
	Status          string
	EndAttributes   map[string]string
	Finished        bool
	SpanContext     *SpySpanContext
}

// TracingCollectorSpy is an effects.TracingCollector that captures spans for testing.
type TracingCollectorSpy struct {
	spanRecords []SpySpanRecord
	mu          sync.Mutex
	recordCalls bool
}

// NewTracingCollectorSpy creates a new TracingCollectorSpy.
// Set recordCalls to true to capture all spans for inspection in tests.
func NewTracingCollectorSpy(recordCalls bool) *TracingCollectorSpy {
	return &TracingCollectorSpy{
		spanRecords: make([]SpySpanRecord, 0),
		recordCalls: recordCalls,
	}
}

// StartSpan implements effects.TracingCollector.
func (s *TracingCollectorSpy) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, effects.SpanContext) {

	if !s.recordCalls {
		return ctx, nil
	}

	spanCtx := &SpySpanContext{attributes: make(map[string]string)}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.spanRecords = append(s.spanRecords, SpySpanRecord{
		Name:            name,
		StartAttributes: maps.Clone(attrs),
		SpanContext:     spanCtx,
	})

	return ctx, spanCtx
}

// FinishSpan implements effects.TracingCollector.
func (s *TracingCollectorSpy) FinishSpan(spanCtx effects.SpanContext, status string, attrs map[string]string) {
	if !s.recordCalls || spanCtx == nil {
		return
	}

	spySpanCtx, ok := spanCtx.(*SpySpanContext)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.spanRecords {
		if s.spanRecords[i].SpanContext == spySpanCtx {
			s.spanRecords[i].Status = status
			s.spanRecords[i].EndAttributes = maps.Clone(attrs)
			s.spanRecords[i].Finished = true

			break
		}
	}
}

// GetSpanRecords returns a copy of all captured span records.
func (s *TracingCollectorSpy) GetSpanRecords() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpySpanRecord(nil), s.spanRecords...)
}

// HasSpanRecordForName starts a fluent chain to check a span record.
func (s *TracingCollectorSpy) HasSpanRecordForName(name string) *SpanRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	matching := make([]SpySpanRecord, 0)
	for _, record := range s.spanRecords {
		if record.Name == name {
			matching = append(matching, record)
		}
	}

	return &SpanRecordMatcher{candidates: matching}
}

// SpanRecordMatcher provides a fluent interface for checking span records.
type SpanRecordMatcher struct {
	candidates []SpySpanRecord
}

// WithStatus keeps only spans finished with status.
func (m *SpanRecordMatcher) WithStatus(status string) *SpanRecordMatcher {
	return m.keep(func(record SpySpanRecord) bool {
		return record.Finished && record.Status == status
	})
}

// WithStartAttribute keeps only spans started with the attribute.
func (m *SpanRecordMatcher) WithStartAttribute(key, value string) *SpanRecordMatcher {
	return m.keep(func(record SpySpanRecord) bool {
		return record.StartAttributes[key] == value
	})
}

// WithAttributeKey keeps only spans that got the attribute key added while running.
func (m *SpanRecordMatcher) WithAttributeKey(key string) *SpanRecordMatcher {
	return m.keep(func(record SpySpanRecord) bool {
		_, exists := record.SpanContext.GetAttributes()[key]
		return exists
	})
}

// Assert returns true if all conditions in the fluent chain were met.
func (m *SpanRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

func (m *SpanRecordMatcher) keep(match func(record SpySpanRecord) bool) *SpanRecordMatcher {
	kept := make([]SpySpanRecord, 0, len(m.candidates))
	for _, record := range m.candidates {
		if match(record) {
			kept = append(kept, record)
		}
	}

	m.candidates = kept

	return m
}

var _ effects.TracingCollector = (*TracingCollectorSpy)(nil)
