package stream_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/graphql-effects-link-go/stream"
)

func Test_Subject_Next_PushesToAllSubscribersInRegistrationOrder(t *testing.T) {
	// arrange
	subject := stream.NewSubject[int]()
	var calls []string

	subject.Subscribe(stream.OnNext(func(v int) { calls = append(calls, "first") }))
	subject.Subscribe(stream.OnNext(func(v int) { calls = append(calls, "second") }))

	// act
	subject.Next(1)
	subject.Next(2)

	// assert
	assert.Equal(t, []string{"first", "second", "first", "second"}, calls)
}

func Test_Subject_LateSubscriber_MissesEarlierValues(t *testing.T) {
	// arrange
	subject := stream.NewSubject[int]()
	subject.Next(1)

	var received []int
	subject.Subscribe(stream.OnNext(func(v int) { received = append(received, v) }))

	// act
	subject.Next(2)

	// assert
	assert.Equal(t, []int{2}, received, "there is no replay for late subscribers")
}

func Test_Subject_Unsubscribe_DoesNotAffectOtherSubscribers(t *testing.T) {
	// arrange
	subject := stream.NewSubject[int]()
	var first, second []int

	firstSubscription := subject.Subscribe(stream.OnNext(func(v int) { first = append(first, v) }))
	subject.Subscribe(stream.OnNext(func(v int) { second = append(second, v) }))

	// act
	subject.Next(1)
	firstSubscription.Unsubscribe()
	subject.Next(2)

	// assert
	assert.True(t, firstSubscription.Closed())
	assert.Equal(t, []int{1}, first)
	assert.Equal(t, []int{1, 2}, second)
	assert.Equal(t, 1, subject.ObserverCount())
}

func Test_Subject_Unsubscribe_IsIdempotent(t *testing.T) {
	// arrange
	subject := stream.NewSubject[int]()
	subscription := subject.Subscribe(stream.Observer[int]{})

	// act
	subscription.Unsubscribe()
	subscription.Unsubscribe()

	// assert
	assert.Equal(t, 0, subject.ObserverCount())
}

func Test_Subject_UnsubscribeFromWithinCallback_DoesNotDeadlock(t *testing.T) {
	// arrange
	subject := stream.NewSubject[int]()
	var received []int
	var subscription stream.Subscription

	subscription = subject.Subscribe(stream.OnNext(func(v int) {
		received = append(received, v)
		subscription.Unsubscribe()
	}))

	// act
	subject.Next(1)
	subject.Next(2)

	// assert
	assert.Equal(t, []int{1}, received)
}

func Test_Subject_Error_TerminatesSubscribersAndLateSubscribers(t *testing.T) {
	// arrange
	subject := stream.NewSubject[int]()
	boom := errors.New("boom")
	var early, late error

	subject.Subscribe(stream.Observer[int]{Error: func(err error) { early = err }})

	// act
	subject.Error(boom)
	subject.Subscribe(stream.Observer[int]{Error: func(err error) { late = err }})

	// assert
	assert.ErrorIs(t, early, boom)
	assert.ErrorIs(t, late, boom)
	assert.Equal(t, 0, subject.ObserverCount())
}

func Test_Subject_Complete_IgnoresFurtherValues(t *testing.T) {
	// arrange
	subject := stream.NewSubject[int]()
	var received []int
	completed := 0

	subject.Subscribe(stream.Observer[int]{
		Next:     func(v int) { received = append(received, v) },
		Complete: func() { completed++ },
	})

	// act
	subject.Next(1)
	subject.Complete()
	subject.Complete()
	subject.Next(2)

	// assert
	assert.Equal(t, []int{1}, received)
	assert.Equal(t, 1, completed)
}

func Test_Subject_AsObservable_HidesTheProducerSide(t *testing.T) {
	// arrange
	subject := stream.NewSubject[int]()

	// act
	view := subject.AsObservable()

	// assert
	_, canPush := view.(interface{ Next(int) })
	assert.False(t, canPush, "the read-only view must not expose Next")

	var received []int
	view.Subscribe(stream.OnNext(func(v int) { received = append(received, v) }))
	subject.Next(7)
	assert.Equal(t, []int{7}, received)
}
