package effects

import (
	"slices"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/AntonStoeckl/graphql-effects-link-go/link"
	"github.com/AntonStoeckl/graphql-effects-link-go/stream"
)

const logMsgOperationObserved = "operation observed"

// OfOperationType keeps only the Operations whose selected operation is one of types.
func OfOperationType(operations stream.Observable[*link.Operation], types ...ast.Operation) stream.Observable[*link.Operation] {
	return stream.Filter(operations, func(operation *link.Operation) bool {
		return slices.Contains(types, operation.OperationType())
	})
}

// OfOperationName keeps only the Operations with one of the given operation names.
func OfOperationName(operations stream.Observable[*link.Operation], names ...string) stream.Observable[*link.Operation] {
	return stream.Filter(operations, func(operation *link.Operation) bool {
		return slices.Contains(names, operation.OperationName)
	})
}

// Logging returns a leaf Effect that logs every observed Operation at info level and emits it unchanged.
func Logging(logger Logger) Effect {
	return func(operations stream.Observable[*link.Operation]) stream.Observable[any] {
		observed := stream.Tap(operations, stream.OnNext(func(operation *link.Operation) {
			if logger == nil {
				return
			}

			logger.Info(
				logMsgOperationObserved,
				logAttrOperationID, operation.ID.String(),
				logAttrOperationName, operationName(operation),
				logAttrOperationType, string(operation.OperationType()),
			)
		}))

		return stream.ToAny(observed)
	}
}
