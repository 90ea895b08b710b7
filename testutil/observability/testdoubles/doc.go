// Package testdoubles provides spies for the observability interfaces of the effects packages.
//
//   - LogHandlerSpy: a slog.Handler capturing records, for *slog.Logger based Logger tests
//   - ContextualLoggerSpy: captures ContextualLogger calls together with their context
//   - MetricsCollectorSpy: captures MetricsCollector and ContextualMetricsCollector calls
//   - TracingCollectorSpy: captures started and finished spans
//
// All spies are safe for concurrent use, which matters for effects that emit from worker goroutines.
package testdoubles
