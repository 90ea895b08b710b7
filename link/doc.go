// Package link defines the interceptor-chain protocol of a GraphQL client request pipeline.
//
// A request is described by an Operation. It flows through an ordered chain of Links; each
// Link may observe the Operation and must hand it to the next element by calling its
// NextLink. The last element of the chain produces the stream of FetchResults.
//
// Key types:
//   - Operation: parsed query document, variables, operation name, extensions and context
//   - FetchResult: data, errors and extensions of one result
//   - Link / Func: a chain element
//   - NextLink: the "continue the chain" function handed to every element
//
// Common usage pattern:
//
//	chain := link.From(
//		observingLink,
//		link.Terminate(func(op *link.Operation) stream.Observable[link.FetchResult] {
//			return transport.Send(op)
//		}),
//	)
//
//	op, err := link.NewOperation(ctx, `query GetBook($id: ID!) @effect { book(id: $id) { title } }`,
//		map[string]any{"id": "42"})
//	if err != nil {
//		// handle error
//	}
//
//	results := link.Execute(chain, op)
package link
