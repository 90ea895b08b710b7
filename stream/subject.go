package stream

import "sync"

// Subject is a hot multicast stream. Values passed to Next are pushed synchronously to every
// current subscriber in registration order. Late subscribers do not receive earlier values.
//
// The zero value is ready to use. A Subject is safe for concurrent use; observer callbacks
// never run while the internal lock is held, so observers may subscribe or unsubscribe
// from within a callback.
type Subject[T any] struct {
	mu        sync.Mutex
	observers []*Subscriber[T]
	stopped   bool
	err       error
}

// NewSubject creates an empty Subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// Subscribe registers observer. Subscribing to a terminated Subject replays only the
// terminal notification.
func (s *Subject[T]) Subscribe(observer Observer[T]) Subscription {
	subscriber := newSubscriber(observer)

	s.mu.Lock()
	if s.stopped {
		err := s.err
		s.mu.Unlock()

		if err != nil {
			subscriber.Error(err)
		} else {
			subscriber.Complete()
		}

		return subscriber
	}

	// copy-on-write, Next iterates over a snapshot without holding the lock
	observers := make([]*Subscriber[T], len(s.observers), len(s.observers)+1)
	copy(observers, s.observers)
	s.observers = append(observers, subscriber)
	s.mu.Unlock()

	subscriber.Add(func() { s.remove(subscriber) })

	return subscriber
}

// Next pushes value to all current subscribers.
func (s *Subject[T]) Next(value T) {
	s.mu.Lock()
	observers := s.observers
	s.mu.Unlock()

	for _, observer := range observers {
		observer.Next(value)
	}
}

// Error terminates the Subject and all subscribers with err.
func (s *Subject[T]) Error(err error) {
	observers, ok := s.stop(err)
	if !ok {
		return
	}

	for _, observer := range observers {
		observer.Error(err)
	}
}

// Complete terminates the Subject and completes all subscribers.
func (s *Subject[T]) Complete() {
	observers, ok := s.stop(nil)
	if !ok {
		return
	}

	for _, observer := range observers {
		observer.Complete()
	}
}

// ObserverCount returns the number of active subscribers.
func (s *Subject[T]) ObserverCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.observers)
}

// AsObservable returns a read-only view of the Subject: it can be subscribed to, but values
// cannot be pushed through it.
func (s *Subject[T]) AsObservable() Observable[T] {
	return &subjectView[T]{subject: s}
}

func (s *Subject[T]) stop(err error) ([]*Subscriber[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil, false
	}

	s.stopped = true
	s.err = err
	observers := s.observers
	s.observers = nil

	return observers, true
}

func (s *Subject[T]) remove(subscriber *Subscriber[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, observer := range s.observers {
		if observer == subscriber {
			observers := make([]*Subscriber[T], 0, len(s.observers)-1)
			observers = append(observers, s.observers[:i]...)
			s.observers = append(observers, s.observers[i+1:]...)

			return
		}
	}
}

type subjectView[T any] struct {
	subject *Subject[T]
}

func (v *subjectView[T]) Subscribe(observer Observer[T]) Subscription {
	return v.subject.Subscribe(observer)
}

var _ Observable[any] = (*Subject[any])(nil)
