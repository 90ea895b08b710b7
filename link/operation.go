package link

import (
	"bytes"
	"context"
	"errors"
	"maps"
	"strings"

	"github.com/google/uuid"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

var ErrEmptyQuery = errors.New("empty query supplied")
var ErrParsingQueryFailed = errors.New("parsing query failed")

// Operation describes one GraphQL request flowing through the chain.
//
// Links receive Operations by pointer and pass them on unchanged. The exported fields are
// owned by whoever created the Operation.
type Operation struct {
	ID            uuid.UUID
	OperationName string
	Query         *ast.QueryDocument
	Variables     map[string]any
	Extensions    map[string]any

	ctx    context.Context
	values map[string]any
}

// OperationOption defines a functional option for configuring an Operation.
type OperationOption func(*Operation)

// WithOperationName sets the name of the operation to execute when the document contains
// more than one operation.
func WithOperationName(name string) OperationOption {
	return func(o *Operation) {
		o.OperationName = name
	}
}

// WithExtensions sets the protocol extensions of the Operation.
func WithExtensions(extensions map[string]any) OperationOption {
	return func(o *Operation) {
		o.Extensions = extensions
	}
}

// WithContextValues seeds the per-operation context values.
func WithContextValues(values map[string]any) OperationOption {
	return func(o *Operation) {
		o.SetContext(values)
	}
}

// NewOperation parses query and builds an Operation from it.
func NewOperation(
	ctx context.Context,
	query string,
	variables map[string]any,
	options ...OperationOption,
) (*Operation, error) {

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	document, parseErr := parser.ParseQuery(&ast.Source{Input: query})
	if parseErr != nil {
		return nil, errors.Join(ErrParsingQueryFailed, parseErr)
	}

	return NewOperationFromDocument(ctx, document, variables, options...), nil
}

// NewOperationFromDocument builds an Operation from an already parsed document.
// If no operation name is given and the document holds exactly one named operation,
// that name is used.
func NewOperationFromDocument(
	ctx context.Context,
	document *ast.QueryDocument,
	variables map[string]any,
	options ...OperationOption,
) *Operation {

	if ctx == nil {
		ctx = context.Background()
	}

	if variables == nil {
		variables = make(map[string]any)
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	operation := &Operation{
		ID:         id,
		Query:      document,
		Variables:  variables,
		Extensions: make(map[string]any),
		ctx:        ctx,
		values:     make(map[string]any),
	}

	for _, option := range options {
		option(operation)
	}

	if operation.OperationName == "" && document != nil && len(document.Operations) == 1 && document.Operations[0] != nil {
		operation.OperationName = document.Operations[0].Name
	}

	return operation
}

// Context returns the context.Context the Operation was created with.
func (o *Operation) Context() context.Context {
	if o.ctx == nil {
		return context.Background()
	}

	return o.ctx
}

// WithContext returns a shallow copy of the Operation carrying ctx.
func (o *Operation) WithContext(ctx context.Context) *Operation {
	if ctx == nil {
		ctx = context.Background()
	}

	clone := *o
	clone.ctx = ctx
	clone.values = maps.Clone(o.values)

	return &clone
}

// SetContext merges values into the per-operation context values.
func (o *Operation) SetContext(values map[string]any) {
	if o.values == nil {
		o.values = make(map[string]any, len(values))
	}

	maps.Copy(o.values, values)
}

// GetContext returns a copy of the per-operation context values.
func (o *Operation) GetContext() map[string]any {
	values := make(map[string]any, len(o.values))
	maps.Copy(values, o.values)

	return values
}

// OperationType returns query, mutation or subscription for the selected operation,
// or an empty value if the document holds no matching operation.
func (o *Operation) OperationType() ast.Operation {
	definition := o.selectedOperation()
	if definition == nil {
		return ""
	}

	return definition.Operation
}

// QueryString renders the query document back to GraphQL source.
func (o *Operation) QueryString() string {
	if o.Query == nil {
		return ""
	}

	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(o.Query)

	return buf.String()
}

func (o *Operation) selectedOperation() *ast.OperationDefinition {
	if o.Query == nil || len(o.Query.Operations) == 0 {
		return nil
	}

	if o.OperationName == "" {
		return o.Query.Operations[0]
	}

	for _, definition := range o.Query.Operations {
		if definition != nil && definition.Name == o.OperationName {
			return definition
		}
	}

	return nil
}
