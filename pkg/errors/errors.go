package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPath marks a field mapping path with no first segment.
	ErrInvalidPath = stderrors.New("invalid field path")
	// ErrDuplicateField marks two field mappings sharing an output name.
	ErrDuplicateField = stderrors.New("duplicate output field")
	// ErrDedupePathNotFound marks a dedupe path that does not resolve on a collected entry.
	ErrDedupePathNotFound = stderrors.New("dedupe path not found")
	// ErrNoRows is returned by the take helpers when there is no first row.
	ErrNoRows = stderrors.New("no rows found")
	// ErrInvalidDefinition marks a pipeline definition that failed to parse or validate.
	ErrInvalidDefinition = stderrors.New("invalid pipeline definition")
	// ErrColumnCollision marks a column whose name is also the prefix of a dotted column.
	ErrColumnCollision = stderrors.New("column collides with nested columns")
)

// AggregateError is a configuration error raised while grouping rows. It carries
// the output field, the configured path and the offending row when known.
type AggregateError struct {
	Field    string
	Path     string
	RowIndex *int
	Message  string
	kind     error
}

func NewAggregateError(kind error, msg string) *AggregateError {
	return &AggregateError{
		Message: msg,
		kind:    kind,
	}
}

// NewAggregateErrorf creates a new AggregateError with a formatted message
func NewAggregateErrorf(kind error, format string, args ...any) *AggregateError {
	return &AggregateError{
		Message: fmt.Sprintf(format, args...),
		kind:    kind,
	}
}

func (e *AggregateError) Error() string {
	path := []string{}
	if e.Field != "" {
		path = append(path, fmt.Sprintf("field '%s'", e.Field))
	}
	if e.Path != "" {
		path = append(path, fmt.Sprintf("path '%s'", e.Path))
	}
	if e.RowIndex != nil {
		path = append(path, fmt.Sprintf("row %d", *e.RowIndex))
	}

	msg := e.Message
	if msg == "" && e.kind != nil {
		msg = e.kind.Error()
	}

	if len(path) == 0 {
		return msg
	}

	return strings.Join(path, " -> ") + ": " + msg
}

// Unwrap exposes the sentinel kind so callers can use errors.Is.
func (e *AggregateError) Unwrap() error {
	return e.kind
}

func (e *AggregateError) AddField(field string) *AggregateError {
	e.Field = field
	return e
}

func (e *AggregateError) AddPath(path string) *AggregateError {
	e.Path = path
	return e
}

func (e *AggregateError) AddRowIndex(rowIndex int) *AggregateError {
	e.RowIndex = &rowIndex
	return e
}

func IsAggregateError(err error) bool {
	var aggErr *AggregateError
	return stderrors.As(err, &aggErr)
}
