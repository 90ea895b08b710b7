// Package oteladapters provides OpenTelemetry implementations of the effects observability interfaces.
//
// The adapters plug an effects.ObservableLink or a journal.Journal into an existing OpenTelemetry
// setup without writing glue code:
//
//	link, err := effects.NewObservableLink(root,
//		effects.WithContextualLogger(oteladapters.NewSlogBridgeLogger("graphql-effects")),
//		effects.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("graphql-effects"))),
//		effects.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("graphql-effects"))),
//	)
//
// The package lives in its own module so that the core packages stay free of OpenTelemetry dependencies.
package oteladapters
