package stream

// Observable is a source of values that observers can subscribe to.
type Observable[T any] interface {
	Subscribe(observer Observer[T]) Subscription
}

type funcObservable[T any] struct {
	produce func(subscriber *Subscriber[T]) func()
}

// Create builds a cold Observable: produce runs once per subscription and may return a
// teardown function that runs when the subscription ends.
func Create[T any](produce func(subscriber *Subscriber[T]) (teardown func())) Observable[T] {
	return &funcObservable[T]{produce: produce}
}

func (o *funcObservable[T]) Subscribe(observer Observer[T]) Subscription {
	subscriber := newSubscriber(observer)
	subscriber.Add(o.produce(subscriber))

	return subscriber
}

// Empty returns an Observable that completes immediately without emitting.
func Empty[T any]() Observable[T] {
	return Create(func(subscriber *Subscriber[T]) func() {
		subscriber.Complete()
		return nil
	})
}

// Of returns an Observable that emits values in order and then completes.
func Of[T any](values ...T) Observable[T] {
	return Create(func(subscriber *Subscriber[T]) func() {
		for _, value := range values {
			if subscriber.Closed() {
				return nil
			}
			subscriber.Next(value)
		}
		subscriber.Complete()

		return nil
	})
}

// Throw returns an Observable that fails immediately with err.
func Throw[T any](err error) Observable[T] {
	return Create(func(subscriber *Subscriber[T]) func() {
		subscriber.Error(err)
		return nil
	})
}
