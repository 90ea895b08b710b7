package stream

import (
	"sync"
	"sync/atomic"
)

// Observer receives the notifications of an Observable.
// Every callback is optional; a nil callback ignores the corresponding notification.
type Observer[T any] struct {
	Next     func(value T)
	Error    func(err error)
	Complete func()
}

// OnNext builds an Observer that only reacts to values.
func OnNext[T any](next func(value T)) Observer[T] {
	return Observer[T]{Next: next}
}

// Subscription represents an active observation of an Observable.
type Subscription interface {
	Unsubscribe()
	Closed() bool
}

// Subscriber is the producer-side view of a single subscription.
//
// Producers push values with Next and terminate with Error or Complete. After termination
// or after Unsubscribe, further notifications are dropped and all registered teardown
// functions have run exactly once.
type Subscriber[T any] struct {
	observer  Observer[T]
	closed    atomic.Bool
	mu        sync.Mutex
	tornDown  bool
	teardowns []func()
}

func newSubscriber[T any](observer Observer[T]) *Subscriber[T] {
	return &Subscriber[T]{observer: observer}
}

// Next forwards value to the observer unless the subscriber is closed.
func (s *Subscriber[T]) Next(value T) {
	if s.closed.Load() {
		return
	}

	if s.observer.Next != nil {
		s.observer.Next(value)
	}
}

// Error closes the subscriber and forwards err to the observer.
func (s *Subscriber[T]) Error(err error) {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	if s.observer.Error != nil {
		s.observer.Error(err)
	}

	s.runTeardowns()
}

// Complete closes the subscriber and notifies the observer.
func (s *Subscriber[T]) Complete() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	if s.observer.Complete != nil {
		s.observer.Complete()
	}

	s.runTeardowns()
}

// Unsubscribe closes the subscriber without notifying the observer.
func (s *Subscriber[T]) Unsubscribe() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	s.runTeardowns()
}

// Closed reports whether the subscriber stopped receiving notifications.
func (s *Subscriber[T]) Closed() bool {
	return s.closed.Load()
}

// Add registers a teardown function. If the subscriber is already torn down,
// the function runs immediately.
func (s *Subscriber[T]) Add(teardown func()) {
	if teardown == nil {
		return
	}

	s.mu.Lock()
	if s.tornDown {
		s.mu.Unlock()
		teardown()

		return
	}
	s.teardowns = append(s.teardowns, teardown)
	s.mu.Unlock()
}

func (s *Subscriber[T]) runTeardowns() {
	s.mu.Lock()
	s.tornDown = true
	teardowns := s.teardowns
	s.teardowns = nil
	s.mu.Unlock()

	for _, teardown := range teardowns {
		teardown()
	}
}

var _ Subscription = (*Subscriber[any])(nil)
