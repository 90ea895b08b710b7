package effects

import (
	"time"

	"github.com/AntonStoeckl/graphql-effects-link-go/link"
	"github.com/AntonStoeckl/graphql-effects-link-go/stream"
)

// ObservableLink is a link.Link that publishes Operations onto a multicast stream before it
// forwards them unchanged down the chain.
//
// Effects observe that stream. They run next to the request flow and can neither block nor
// alter it: Request always forwards exactly once and returns the downstream result as is.
type ObservableLink struct {
	operations       *stream.Subject[*link.Operation]
	directiveName    string
	filterDisabled   bool
	autoSubscribe    bool
	subscribe        func(observer stream.Observer[any]) stream.Subscription
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewObservableLink creates an ObservableLink and wires rootEffect to its Operation stream.
//
// rootEffect is invoked exactly once, here, with a read-only view of the stream. Unless
// disabled with WithAutoSubscribe(false), its output is subscribed to once so that all effects
// run without further action; that subscription lives as long as the ObservableLink.
func NewObservableLink(rootEffect Effect, options ...Option) (*ObservableLink, error) {
	if rootEffect == nil {
		return nil, ErrNilRootEffect
	}

	l := &ObservableLink{
		directiveName: DefaultDirectiveName,
		autoSubscribe: true,
	}

	for _, option := range options {
		if err := option(l); err != nil {
			return nil, err
		}
	}

	if l.operations == nil {
		l.operations = stream.NewSubject[*link.Operation]()
	}

	output := rootEffect(l.operations.AsObservable())
	if output == nil {
		return nil, ErrNilRootEffectOutput
	}

	l.subscribe = output.Subscribe

	if l.autoSubscribe {
		l.subscribe(stream.Observer[any]{
			Error:    l.logRootEffectFailed,
			Complete: l.logRootEffectCompleted,
		})
	}

	return l, nil
}

// Request publishes operation if it carries the configured directive, or always when filtering
// is disabled, and then hands it to forward. The result of forward is returned unchanged.
//
// Publication is synchronous: every current subscriber of the Operation stream has been
// notified, in registration order, before forward is called. A nil operation is never
// published but still forwarded.
func (l *ObservableLink) Request(operation *link.Operation, forward link.NextLink) stream.Observable[link.FetchResult] {
	if operation != nil {
		if l.shouldPublish(operation) {
			l.publish(operation)
		} else {
			l.recordSkipped(operation)
		}
	}

	if forward == nil {
		return stream.Empty[link.FetchResult]()
	}

	return forward(operation)
}

// Subscribe subscribes observer to the output of the root effect. Every call creates an
// independent subscription owned by the caller.
func (l *ObservableLink) Subscribe(observer stream.Observer[any]) stream.Subscription {
	return l.subscribe(observer)
}

// SubscribeFunc returns Subscribe as a standalone function that stays bound to this ObservableLink.
func (l *ObservableLink) SubscribeFunc() func(observer stream.Observer[any]) stream.Subscription {
	return l.subscribe
}

// Operations returns a read-only view of the Operation stream.
func (l *ObservableLink) Operations() stream.Observable[*link.Operation] {
	return l.operations.AsObservable()
}

// DirectiveName returns the configured directive name, or an empty string when filtering is disabled.
func (l *ObservableLink) DirectiveName() string {
	if l.filterDisabled {
		return ""
	}

	return l.directiveName
}

func (l *ObservableLink) shouldPublish(operation *link.Operation) bool {
	if l.filterDisabled {
		return true
	}

	return link.HasDirectives([]string{l.directiveName}, operation.Query)
}

func (l *ObservableLink) publish(operation *link.Operation) {
	tracing, ctx := l.startPublishTracing(operation)

	start := time.Now()
	l.operations.Next(operation)
	duration := time.Since(start)

	tracing.finishSuccess(duration)
	l.recordPublished(ctx, operation, duration)
	l.logPublished(ctx, operation, duration)
}

var _ link.Link = (*ObservableLink)(nil)
