// Package effects exposes the operations of a GraphQL client request pipeline as a stream that
// side-effect handlers can observe.
//
// An ObservableLink is placed in a link.Link chain. For every request it publishes the
// Operation onto a multicast stream (by default only when the query carries the @effect
// directive) and then forwards it unchanged. Effects are functions from that stream to an
// output stream; they run next to the request flow and can neither block nor alter it.
//
// Key types:
//   - Effect: a side-effect handler over the Operation stream
//   - Merge: combines several Effects into one root Effect
//   - ObservableLink: the chain element that publishes Operations
//
// Common usage pattern:
//
//	notify := func(ops stream.Observable[*link.Operation]) stream.Observable[any] {
//		mutations := effects.OfOperationType(ops, ast.Mutation)
//		return stream.ToAny(stream.Tap(mutations, stream.OnNext(sendNotification)))
//	}
//
//	observable, err := effects.NewObservableLink(
//		effects.Merge(notify, effects.Logging(slog.Default())),
//		effects.WithLogger(slog.Default()),
//	)
//	if err != nil {
//		// handle error
//	}
//
//	chain := link.From(observable, transportLink)
//
// The Operation stream is hot: effects only see Operations published after they subscribed.
// An error of any effect ends the merged output stream and thereby all effects of that
// subscription; the request flow is not affected.
package effects
