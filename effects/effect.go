package effects

import (
	"github.com/AntonStoeckl/graphql-effects-link-go/link"
	"github.com/AntonStoeckl/graphql-effects-link-go/stream"
)

// Effect transforms the stream of published Operations into a stream of arbitrary outputs.
//
// An Effect is invoked once when it is wired up, not once per Operation. It typically filters
// the Operations it cares about and performs its side effect for each of them.
type Effect func(operations stream.Observable[*link.Operation]) stream.Observable[any]

// Merge combines several Effects into one.
//
// When the combined Effect is invoked with a stream, it invokes every leaf exactly once with
// that very stream, in argument order, and returns a stream that forwards the outputs of all
// leaves as they occur. The combined stream completes after all leaf streams completed and
// fails with the first error of any leaf, which also ends the subscriptions to the other leaves.
// Merging zero Effects yields an Effect whose stream completes without emitting.
// Nil Effects are skipped.
func Merge(effects ...Effect) Effect {
	leaves := make([]Effect, 0, len(effects))
	for _, effect := range effects {
		if effect != nil {
			leaves = append(leaves, effect)
		}
	}

	return func(operations stream.Observable[*link.Operation]) stream.Observable[any] {
		outputs := make([]stream.Observable[any], 0, len(leaves))
		for _, leaf := range leaves {
			output := leaf(operations)
			if output == nil {
				output = stream.Empty[any]()
			}
			outputs = append(outputs, output)
		}

		return stream.Merge(outputs...)
	}
}
