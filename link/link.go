package link

import (
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/AntonStoeckl/graphql-effects-link-go/stream"
)

// FetchResult is one result produced for an Operation by the end of the chain.
type FetchResult struct {
	Data       map[string]any
	Errors     gqlerror.List
	Extensions map[string]any
}

// HasErrors reports whether the result carries GraphQL errors.
func (r FetchResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// NextLink continues the chain with the given Operation.
type NextLink func(operation *Operation) stream.Observable[FetchResult]

// Link is an element of the interceptor chain. Request must hand the Operation to forward
// unless the Link terminates the chain itself.
type Link interface {
	Request(operation *Operation, forward NextLink) stream.Observable[FetchResult]
}

// Func adapts a plain function to the Link interface.
type Func func(operation *Operation, forward NextLink) stream.Observable[FetchResult]

// Request calls f.
func (f Func) Request(operation *Operation, forward NextLink) stream.Observable[FetchResult] {
	return f(operation, forward)
}

// Terminate builds a terminating Link that ignores forward and answers with handler.
func Terminate(handler func(operation *Operation) stream.Observable[FetchResult]) Link {
	return Func(func(operation *Operation, _ NextLink) stream.Observable[FetchResult] {
		return handler(operation)
	})
}

// Empty returns a Link that answers every request with an empty stream.
func Empty() Link {
	return Terminate(func(*Operation) stream.Observable[FetchResult] {
		return stream.Empty[FetchResult]()
	})
}

// From concatenates links into one Link. Each element's forward invokes the next element;
// the forward of the last element is the forward handed to the concatenated Link.
// Nil links are skipped.
func From(links ...Link) Link {
	chain := make([]Link, 0, len(links))
	for _, l := range links {
		if l != nil {
			chain = append(chain, l)
		}
	}

	switch len(chain) {
	case 0:
		return Empty()
	case 1:
		return chain[0]
	}

	return Func(func(operation *Operation, forward NextLink) stream.Observable[FetchResult] {
		return requestFrom(chain, 0, operation, forward)
	})
}

func requestFrom(chain []Link, index int, operation *Operation, forward NextLink) stream.Observable[FetchResult] {
	if index == len(chain) {
		return forward(operation)
	}

	return chain[index].Request(operation, func(next *Operation) stream.Observable[FetchResult] {
		return requestFrom(chain, index+1, next, forward)
	})
}

// Execute runs operation through l. A chain that forwards past its last element yields an
// empty stream.
func Execute(l Link, operation *Operation) stream.Observable[FetchResult] {
	if l == nil {
		return stream.Empty[FetchResult]()
	}

	result := l.Request(operation, func(*Operation) stream.Observable[FetchResult] {
		return stream.Empty[FetchResult]()
	})
	if result == nil {
		return stream.Empty[FetchResult]()
	}

	return result
}
