package effects

import (
	"github.com/AntonStoeckl/graphql-effects-link-go/link"
	"github.com/AntonStoeckl/graphql-effects-link-go/stream"
)

// Option defines a functional option for configuring an ObservableLink.
type Option func(*ObservableLink) error

// WithOperations makes the ObservableLink publish onto an externally owned stream instead of
// creating its own. The owner may subscribe to it directly or complete it.
func WithOperations(operations *stream.Subject[*link.Operation]) Option {
	return func(l *ObservableLink) error {
		if operations == nil {
			return ErrNilOperationsSubject
		}

		l.operations = operations

		return nil
	}
}

// WithAutoSubscribe controls whether the output of the root effect is subscribed to once during
// construction. It defaults to true. Without it nothing runs until Subscribe is called.
func WithAutoSubscribe(autoSubscribe bool) Option {
	return func(l *ObservableLink) error {
		l.autoSubscribe = autoSubscribe
		return nil
	}
}

// WithDirectiveName sets the directive that marks an Operation for publication.
// It defaults to DefaultDirectiveName.
func WithDirectiveName(name string) Option {
	return func(l *ObservableLink) error {
		if name == "" {
			return ErrEmptyDirectiveName
		}

		l.directiveName = name
		l.filterDisabled = false

		return nil
	}
}

// WithoutDirectiveFilter disables directive filtering: every Operation is published.
func WithoutDirectiveFilter() Option {
	return func(l *ObservableLink) error {
		l.filterDisabled = true
		return nil
	}
}

// WithLogger sets the logger for the ObservableLink.
//
// Debug level: every published or skipped Operation
// Error level: a failure of the root effect output on the automatic subscription.
func WithLogger(logger Logger) Option {
	return func(l *ObservableLink) error {
		l.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the ObservableLink.
// Log records carry the context of the Operation, which enables trace correlation.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(l *ObservableLink) error {
		l.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the ObservableLink.
// It receives publication durations and counters for published and skipped Operations.
func WithMetrics(collector MetricsCollector) Option {
	return func(l *ObservableLink) error {
		l.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the ObservableLink.
// Every publication is wrapped in a span.
func WithTracing(collector TracingCollector) Option {
	return func(l *ObservableLink) error {
		l.tracingCollector = collector
		return nil
	}
}
