// Package stream provides the push-based reactive primitives used by the effects link:
// observables, observers, cancellable subscriptions, and a hot multicast Subject.
//
// All emissions are synchronous: a value pushed into a Subject reaches every current
// subscriber, in registration order, before Next returns. Nothing is buffered or replayed,
// so late subscribers miss earlier values.
//
// Key types:
//   - Observable: anything that can be subscribed to with an Observer
//   - Observer: a set of optional callbacks for values, a terminal error, and completion
//   - Subscription: a handle to stop receiving values
//   - Subject: a multicast publish channel that is both an Observable and a producer
//
// Operators:
//   - Create, Empty, Of, Throw: build observables
//   - Merge: subscribe to several observables and forward every emission as it happens
//   - Tap, Filter, Map, ToAny: side effects and transformations
//
// Common usage pattern:
//
//	operations := stream.NewSubject[string]()
//
//	logged := stream.Tap(operations.AsObservable(), stream.OnNext(func(op string) {
//		log.Println("observed", op)
//	}))
//
//	subscription := logged.Subscribe(stream.Observer[string]{})
//	defer subscription.Unsubscribe()
//
//	operations.Next("GetBooks")
package stream
