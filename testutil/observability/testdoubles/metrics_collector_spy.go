package testdoubles

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/AntonStoeckl/graphql-effects-link-go/effects"
)

// SpyMetricKind distinguishes the recorded metric calls.
type SpyMetricKind string

const (
	MetricKindDuration SpyMetricKind = "duration"
	MetricKindCounter  SpyMetricKind = "counter"
	MetricKindValue    SpyMetricKind = "value"
)

// SpyMetricRecord represents one recorded metric call.
type SpyMetricRecord struct {
	Kind       SpyMetricKind
	Metric     string
	Duration   time.Duration
	Value      float64
	Labels     map[string]string
	Context    context.Context
	Contextual bool
}

// MetricsCollectorSpy is an effects.ContextualMetricsCollector that captures metric calls for testing.
type MetricsCollectorSpy struct {
	records     []SpyMetricRecord
	mu          sync.Mutex
	recordCalls bool
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
// Set recordCalls to true to capture all metric calls for inspection in tests.
func NewMetricsCollectorSpy(recordCalls bool) *MetricsCollectorSpy {
	return &MetricsCollectorSpy{
		records:     make([]SpyMetricRecord, 0),
		recordCalls: recordCalls,
	}
}

// RecordDuration implements effects.MetricsCollector.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindDuration, Metric: metric, Duration: duration, Labels: labels})
}

// IncrementCounter implements effects.MetricsCollector.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindCounter, Metric: metric, Value: 1, Labels: labels})
}

// RecordValue implements effects.MetricsCollector.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: MetricKindValue, Metric: metric, Value: value, Labels: labels})
}

// RecordDurationContext implements effects.ContextualMetricsCollector.
func (s *MetricsCollectorSpy) RecordDurationContext(
	ctx context.Context,
	metric string,
	duration time.Duration,
	labels map[string]string,
) {
	s.record(SpyMetricRecord{
		Kind: MetricKindDuration, Metric: metric, Duration: duration, Labels: labels, Context: ctx, Contextual: true,
	})
}

// IncrementCounterContext implements effects.ContextualMetricsCollector.
func (s *MetricsCollectorSpy) IncrementCounterContext(ctx context.Context, metric string, labels map[string]string) {
	s.record(SpyMetricRecord{
		Kind: MetricKindCounter, Metric: metric, Value: 1, Labels: labels, Context: ctx, Contextual: true,
	})
}

// RecordValueContext implements effects.ContextualMetricsCollector.
func (s *MetricsCollectorSpy) RecordValueContext(
	ctx context.Context,
	metric string,
	value float64,
	labels map[string]string,
) {
	s.record(SpyMetricRecord{
		Kind: MetricKindValue, Metric: metric, Value: value, Labels: labels, Context: ctx, Contextual: true,
	})
}

func (s *MetricsCollectorSpy) record(record SpyMetricRecord) {
	if !s.recordCalls {
		return
	}

	// copy labels to avoid external modifications
	record.Labels = maps.Clone(record.Labels)
	if record.Labels == nil {
		record.Labels = make(map[string]string)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
}

// CountRecordsForMetric counts how many records of kind exist for metric.
func (s *MetricsCollectorSpy) CountRecordsForMetric(kind SpyMetricKind, metric string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.records {
		if record.Kind == kind && record.Metric == metric {
			count++
		}
	}

	return count
}

// HasDurationRecordForMetric starts a fluent chain to check a duration record.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcher(MetricKindDuration, metric)
}

// HasCounterRecordForMetric starts a fluent chain to check a counter record.
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcher(MetricKindCounter, metric)
}

// HasValueRecordForMetric starts a fluent chain to check a value record.
func (s *MetricsCollectorSpy) HasValueRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcher(MetricKindValue, metric)
}

func (s *MetricsCollectorSpy) matcher(kind SpyMetricKind, metric string) *MetricRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	matching := make([]SpyMetricRecord, 0)
	for _, record := range s.records {
		if record.Kind == kind && record.Metric == metric {
			matching = append(matching, record)
		}
	}

	return &MetricRecordMatcher{candidates: matching}
}

// MetricRecordMatcher provides a fluent interface for checking metric records.
// It matches if at least one captured record satisfies all conditions of the chain.
type MetricRecordMatcher struct {
	candidates []SpyMetricRecord
}

// WithLabel keeps only records having the label with the given value.
func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	return m.keep(func(record SpyMetricRecord) bool {
		labelValue, exists := record.Labels[key]
		return exists && labelValue == value
	})
}

// WithStatus keeps only records having the given status label.
func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

// WithErrorType keeps only records having the given error_type label.
func (m *MetricRecordMatcher) WithErrorType(errorType string) *MetricRecordMatcher {
	return m.WithLabel("error_type", errorType)
}

// WithContext keeps only records made through the context-aware methods.
func (m *MetricRecordMatcher) WithContext() *MetricRecordMatcher {
	return m.keep(func(record SpyMetricRecord) bool {
		return record.Contextual && record.Context != nil
	})
}

// WithValue keeps only records carrying value.
func (m *MetricRecordMatcher) WithValue(value float64) *MetricRecordMatcher {
	return m.keep(func(record SpyMetricRecord) bool {
		return record.Value == value
	})
}

// Assert returns true if all conditions in the fluent chain were met.
func (m *MetricRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

func (m *MetricRecordMatcher) keep(match func(record SpyMetricRecord) bool) *MetricRecordMatcher {
	kept := make([]SpyMetricRecord, 0, len(m.candidates))
	for _, record := range m.candidates {
		if match(record) {
			kept = append(kept, record)
		}
	}

	m.candidates = kept

	return m
}

var _ effects.ContextualMetricsCollector = (*MetricsCollectorSpy)(nil)

// PlainMetricsCollectorSpy exposes only the effects.MetricsCollector methods of a MetricsCollectorSpy.
// Use it to test the fallback for collectors that are not context-aware.
type PlainMetricsCollectorSpy struct {
	Spy *MetricsCollectorSpy
}

// RecordDuration implements effects.MetricsCollector.
func (p PlainMetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	p.Spy.RecordDuration(metric, duration, labels)
}

// IncrementCounter implements effects.MetricsCollector.
func (p PlainMetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	p.Spy.IncrementCounter(metric, labels)
}

// RecordValue implements effects.MetricsCollector.
func (p PlainMetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	p.Spy.RecordValue(metric, value, labels)
}
