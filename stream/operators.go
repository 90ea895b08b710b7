package stream

import (
	"sync"
	"sync/atomic"
)

// Merge subscribes to all sources at once and forwards every value as soon as it arrives.
//
// Values of one source keep their order; there is no ordering across sources.
// The merged stream completes when all sources completed and fails with the first error
// of any source, which also unsubscribes from the remaining sources.
// Merging zero sources yields a stream that completes immediately.
//
// Sources may emit from different goroutines. Notifications reach the observer one at a time,
// so its callbacks never overlap.
func Merge[T any](sources ...Observable[T]) Observable[T] {
	return Create(func(subscriber *Subscriber[T]) func() {
		if len(sources) == 0 {
			subscriber.Complete()
			return nil
		}

		var remaining atomic.Int32
		remaining.Store(int32(len(sources)))

		delivery := &serializer{}

		for _, source := range sources {
			if subscriber.Closed() {
				break
			}

			inner := source.Subscribe(Observer[T]{
				Next: func(value T) {
					delivery.deliver(func() { subscriber.Next(value) })
				},
				Error: func(err error) {
					delivery.deliver(func() { subscriber.Error(err) })
				},
				Complete: func() {
					if remaining.Add(-1) == 0 {
						delivery.deliver(subscriber.Complete)
					}
				},
			})
			subscriber.Add(inner.Unsubscribe)
		}

		return nil
	})
}

// serializer runs notifications one at a time.
//
// A notification arriving while another one runs is queued and run by the goroutine that is
// already delivering, in arrival order. This also covers an observer that makes a merged source
// emit again from inside its own callback.
type serializer struct {
	mu       sync.Mutex
	emitting bool
	queue    []func()
}

func (s *serializer) deliver(notification func()) {
	s.mu.Lock()
	if s.emitting {
		s.queue = append(s.queue, notification)
		s.mu.Unlock()

		return
	}
	s.emitting = true
	s.mu.Unlock()

	for {
		notification()

		s.mu.Lock()
		if len(s.queue) == 0 {
			s.emitting = false
			s.mu.Unlock()

			return
		}
		notification = s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
	}
}

// Tap invokes the callbacks of tap for every notification of source before forwarding it.
func Tap[T any](source Observable[T], tap Observer[T]) Observable[T] {
	return Create(func(subscriber *Subscriber[T]) func() {
		inner := source.Subscribe(Observer[T]{
			Next: func(value T) {
				if tap.Next != nil {
					tap.Next(value)
				}
				subscriber.Next(value)
			},
			Error: func(err error) {
				if tap.Error != nil {
					tap.Error(err)
				}
				subscriber.Error(err)
			},
			Complete: func() {
				if tap.Complete != nil {
					tap.Complete()
				}
				subscriber.Complete()
			},
		})

		return inner.Unsubscribe
	})
}

// Filter forwards only the values for which predicate returns true.
func Filter[T any](source Observable[T], predicate func(value T) bool) Observable[T] {
	return Create(func(subscriber *Subscriber[T]) func() {
		inner := source.Subscribe(Observer[T]{
			Next: func(value T) {
				if predicate(value) {
					subscriber.Next(value)
				}
			},
			Error:    subscriber.Error,
			Complete: subscriber.Complete,
		})

		return inner.Unsubscribe
	})
}

// Map transforms every value of source with project.
func Map[T, R any](source Observable[T], project func(value T) R) Observable[R] {
	return Create(func(subscriber *Subscriber[R]) func() {
		inner := source.Subscribe(Observer[T]{
			Next: func(value T) {
				subscriber.Next(project(value))
			},
			Error:    subscriber.Error,
			Complete: subscriber.Complete,
		})

		return inner.Unsubscribe
	})
}

// ToAny widens the value type of source to any.
func ToAny[T any](source Observable[T]) Observable[any] {
	return Map(source, func(value T) any { return value })
}
