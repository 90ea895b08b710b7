package journal

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/graphql-effects-link-go/effects"
	"github.com/AntonStoeckl/graphql-effects-link-go/link"
	"github.com/AntonStoeckl/graphql-effects-link-go/stream"
)

// Effect returns a leaf effect that records every observed Operation.
//
// Each subscription starts a worker goroutine that appends the Operations from a bounded
// queue, so publication never waits for the database. Operations arriving while the queue is
// full are dropped with a warning. Every recorded Entry is emitted on the output stream.
// Failed appends are logged and counted but do not end the stream. The output completes or
// fails after the queue is drained once the Operation stream completes or fails.
// Unsubscribing stops the worker and discards queued Operations.
func (j Journal) Effect() effects.Effect {
	return func(operations stream.Observable[*link.Operation]) stream.Observable[any] {
		return stream.Create(func(subscriber *stream.Subscriber[any]) func() {
			w := newAppendWorker(j, subscriber)
			go w.run()

			inner := operations.Subscribe(stream.Observer[*link.Operation]{
				Next:     w.enqueue,
				Error:    w.finish,
				Complete: func() { w.finish(nil) },
			})

			return func() {
				inner.Unsubscribe()
				w.stop()
			}
		})
	}
}

// appendWorker serializes all notifications of one subscription on its own goroutine.
type appendWorker struct {
	journal    Journal
	subscriber *stream.Subscriber[any]
	queue      chan *link.Operation
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.Mutex
	closed     bool
	err        error
}

func newAppendWorker(j Journal, subscriber *stream.Subscriber[any]) *appendWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &appendWorker{
		journal:    j,
		subscriber: subscriber,
		queue:      make(chan *link.Operation, j.queueSize),
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (w *appendWorker) enqueue(operation *link.Operation) {
	if operation == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	select {
	case w.queue <- operation:
	default:
		ctx := operation.Context()
		w.journal.logWarn(ctx, logMsgOperationDropped,
			logAttrOperationID, operation.ID.String(),
			logAttrQueueSize, w.journal.queueSize,
		)
		w.journal.recordDropped(ctx)
	}
}

// finish closes the queue; the worker terminates the output after draining it.
func (w *appendWorker) finish(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	w.closed = true
	w.err = err
	close(w.queue)
}

func (w *appendWorker) stop() {
	w.cancel()
	w.finish(nil)
}

func (w *appendWorker) run() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case operation, ok := <-w.queue:
			if !ok {
				w.terminate()
				return
			}

			w.record(operation)
		}
	}
}

func (w *appendWorker) record(operation *link.Operation) {
	ctx := operation.Context()

	entry, buildErr := BuildEntry(operation, w.journal.clock())
	if buildErr != nil {
		w.journal.logError(ctx, logMsgBuildEntryFailed, buildErr, logAttrOperationID, operation.ID.String())
		w.journal.recordError(ctx, operationAppend, errorTypeBuildEntry)

		return
	}

	// failures are logged and counted by Append
	if appendErr := w.journal.Append(w.ctx, entry); appendErr != nil {
		return
	}

	w.subscriber.Next(entry)
}

func (w *appendWorker) terminate() {
	if w.ctx.Err() != nil {
		return
	}

	w.mu.Lock()
	err := w.err
	w.mu.Unlock()

	if err != nil {
		w.subscriber.Error(err)
		return
	}

	w.subscriber.Complete()
}
