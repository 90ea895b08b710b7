package journal

import (
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/graphql-effects-link-go/link"
)

// Entry is one recorded Operation.
//
// It is built on scalars so that stored entries stay readable without the original
// Operation. It should be constructed with BuildEntry.
type Entry struct {
	OperationID   uuid.UUID
	OperationName string
	OperationType string
	Query         string
	VariablesJSON []byte
	RecordedAt    time.Time
}

// BuildEntry converts operation into an Entry recorded at recordedAt.
func BuildEntry(operation *link.Operation, recordedAt time.Time) (Entry, error) {
	if operation == nil {
		return Entry{}, ErrNilOperation
	}

	variables := operation.Variables
	if variables == nil {
		variables = map[string]any{}
	}

	variablesJSON, marshalErr := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(variables)
	if marshalErr != nil {
		return Entry{}, errors.Join(ErrMarshalingVariablesFailed, marshalErr)
	}

	return Entry{
		OperationID:   operation.ID,
		OperationName: operation.OperationName,
		OperationType: string(operation.OperationType()),
		Query:         operation.QueryString(),
		VariablesJSON: variablesJSON,
		RecordedAt:    recordedAt.UTC(),
	}, nil
}

// Variables decodes the recorded variables.
func (e Entry) Variables() (map[string]any, error) {
	variables := make(map[string]any)

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(e.VariablesJSON, &variables); err != nil {
		return nil, errors.Join(ErrInvalidVariablesJSON, err)
	}

	return variables, nil
}

// LoadFilter narrows the entries returned by Journal.Load. Zero values do not filter.
type LoadFilter struct {
	OperationName string
	OperationType string
	RecordedFrom  time.Time
	RecordedUntil time.Time
	Limit         uint
}
