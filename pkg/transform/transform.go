// Package transform reshapes rows by computing fields from the row itself.
//
// Each field function receives the row as it stands, so a later field in the same
// list sees the values assigned by earlier ones. Rows are shallow-copied before the
// first assignment and the caller's rows are left untouched.
package transform

import (
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/logging"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/steps"
)

// FieldFunc computes a field value from the row.
type FieldFunc func(row models.Row) (any, error)

// Field assigns the result of Fn to Name.
type Field struct {
	Name string
	Fn   FieldFunc
}

// Params is the direct form: rows plus the field list.
type Params struct {
	Rows   []models.Row
	Fields []Field
}

// Option customises a Transformer.
type Option func(*Transformer)

// WithLogger sets the logger used for debug output.
func WithLogger(logger ectologger.Logger) Option {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Transformer applies an ordered list of field functions to every row.
type Transformer struct {
	fields []Field
	logger ectologger.Logger
}

// Func adapts a function that cannot fail.
func Func(fn func(row models.Row) any) FieldFunc {
	return func(row models.Row) (any, error) {
		return fn(row), nil
	}
}

// Transform applies params.Fields to params.Rows.
func Transform(params Params) ([]models.Row, error) {
	return New(params.Fields).Transform(params.Rows)
}

// New builds a Transformer from its field list only.
func New(fields []Field, opts ...Option) *Transformer {
	t := &Transformer{
		fields: fields,
		logger: logging.Noop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Step returns the transformer as a single-argument row function.
func (t *Transformer) Step() steps.Step {
	return t.Transform
}

// Transform returns copies of rows with every field applied, in order. The first
// error returned by a field function is passed back unchanged and no rows are
// returned.
func (t *Transformer) Transform(rows []models.Row) ([]models.Row, error) {
	out := make([]models.Row, len(rows))

	for i, row := range rows {
		next := models.CloneRow(row)
		for _, field := range t.fields {
			if field.Fn == nil {
				next[field.Name] = nil
				continue
			}

			value, err := field.Fn(next)
			if err != nil {
				return nil, err
			}
			next[field.Name] = value
		}
		out[i] = next
	}

	t.logger.Debugf("Transformed %d rows with %d fields", len(rows), len(t.fields))

	return out, nil
}
