// Package aggregate folds flat, duplicated join rows into one record per primary key.
//
// # Overview
//
// A one-to-many join repeats the parent columns once per matched child:
//
//	{id: 1, name: "salem", post: {id: 1, title: "1"}}
//	{id: 1, name: "salem", post: {id: 4, title: "4"}}
//	{id: 2, name: "mimo",  post: {id: 2, title: "2"}}
//
// Aggregating with PrimaryKey "id" and the field mapping posts -> "post.id" yields
//
//	{id: 1, name: "salem", posts: [{id: 1, title: "1"}, {id: 4, title: "4"}]}
//	{id: 2, name: "mimo",  posts: [{id: 2, title: "2"}]}
//
// # Field mappings
//
// A mapping's path is split on its first dot. The first segment names the row field
// holding the joined object; it is removed from the record and replaced by the list.
// The remainder is the dedupe path: two children are the same when the value at that
// path is equal. Rows where the joined field is nil or otherwise falsy contribute no
// child (a left join with no match).
//
// # Ordering
//
// Records come out in first-seen primary key order and each list keeps the order in
// which distinct children were first seen. Scalar fields come from the first row seen
// for a key; later rows only contribute children.
package aggregate

import (
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/logging"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/steps"
	"github.com/Ramsey-B/clover/pkg/utils"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Field maps an output list name to a dot path whose first segment is the joined
// row field and whose remainder is the dedupe path.
type Field struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// Options configures an Aggregator.
type Options struct {
	PrimaryKey string  `json:"pkey" yaml:"pkey"`
	Fields     []Field `json:"fields" yaml:"fields"`
}

// Params is the direct form: rows plus configuration.
type Params struct {
	Rows []models.Row
	Options
}

// Option customises an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used for debug output.
func WithLogger(logger ectologger.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Aggregator holds a configuration and can be applied to any number of row sets.
// It keeps no state between calls.
type Aggregator struct {
	options Options
	logger  ectologger.Logger
}

// compiledField is a Field with its path pre-split.
type compiledField struct {
	Field
	firstSegment string
	dedupePath   string
}

// group is the record under construction for one primary key.
type group struct {
	record models.Row
	lists  [][]any
}

// notFound stands in for a dedupe value that did not resolve on the current row.
// It never equals any collected value.
type notFound struct{}

// Aggregate folds rows using the configuration carried by params.
func Aggregate(params Params) ([]models.Row, error) {
	return New(params.Options).Aggregate(params.Rows)
}

// New builds an Aggregator from configuration only. Apply it later with Aggregate
// or hand its Step to a pipeline.
func New(options Options, opts ...Option) *Aggregator {
	a := &Aggregator{
		options: options,
		logger:  logging.Noop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Step returns the aggregator as a single-argument row function.
func (a *Aggregator) Step() steps.Step {
	return a.Aggregate
}

// Aggregate folds rows into one record per distinct primary key value.
//
// Configuration errors in the field paths are returned before any row is read.
// A dedupe path that does not resolve on an already collected child returns an
// error wrapping errors.ErrDedupePathNotFound; since this check only runs when a
// child is compared against an earlier one, a wrong path on data with a single
// child per key goes unnoticed.
func (a *Aggregator) Aggregate(rows []models.Row) ([]models.Row, error) {
	fields, err := compileFields(a.options.Fields)
	if err != nil {
		return nil, err
	}

	groups := orderedmap.New[any, *group]()

	for i, row := range rows {
		uid := utils.NormalizeKey(row[a.options.PrimaryKey])

		g, ok := groups.Get(uid)
		if !ok {
			g = newGroup(row, fields)
			groups.Set(uid, g)
		}

		for j, field := range fields {
			value := row[field.firstSegment]
			if utils.IsFalsy(value) {
				continue
			}

			dedupeValue := any(value)
			if utils.IsObject(value) {
				dedupeValue, err = utils.GetFieldByPath(row, field.Path)
				if err != nil {
					dedupeValue = notFound{}
				}
			}

			duplicate, aggErr := containsValue(g.lists[j], field.dedupePath, dedupeValue)
			if aggErr != nil {
				return nil, aggErr.AddField(field.Name).AddPath(field.Path).AddRowIndex(i)
			}
			if duplicate {
				continue
			}

			g.lists[j] = append(g.lists[j], value)
		}
	}

	records := make([]models.Row, 0, groups.Len())
	for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
		g := pair.Value
		for j, field := range fields {
			g.record[field.Name] = g.lists[j]
		}
		records = append(records, g.record)
	}

	a.logger.Debugf("Aggregated %d rows into %d records by '%s'", len(rows), len(records), a.options.PrimaryKey)

	return records, nil
}

func compileFields(fields []Field) ([]compiledField, error) {
	compiled := make([]compiledField, 0, len(fields))
	seen := make(map[string]bool, len(fields))

	for _, field := range fields {
		firstSegment, dedupePath := utils.SplitPath(field.Path)
		if firstSegment == "" {
			return nil, errors.NewAggregateErrorf(errors.ErrInvalidPath, "first segment not found for %q", field.Path).
				AddField(field.Name)
		}
		if seen[field.Name] {
			return nil, errors.NewAggregateError(errors.ErrDuplicateField, "").AddField(field.Name)
		}
		seen[field.Name] = true

		compiled = append(compiled, compiledField{
			Field:        field,
			firstSegment: firstSegment,
			dedupePath:   dedupePath,
		})
	}

	return compiled, nil
}

// newGroup starts a record from a shallow copy of the first row seen for a key.
func newGroup(row models.Row, fields []compiledField) *group {
	record := models.CloneRow(row)
	for _, field := range fields {
		delete(record, field.firstSegment)
		record[field.Name] = []any{}
	}

	lists := make([][]any, len(fields))
	for j := range lists {
		lists[j] = []any{}
	}

	return &group{record: record, lists: lists}
}

// containsValue scans collected children for one whose dedupe value equals target.
// The scan stops at the first match.
func containsValue(list []any, dedupePath string, target any) (bool, *errors.AggregateError) {
	for _, existing := range list {
		existingValue := existing
		if utils.IsObject(existing) {
			v, err := utils.GetFieldByPath(existing, dedupePath)
			if err != nil {
				return false, errors.NewAggregateErrorf(errors.ErrDedupePathNotFound, "no property %q on %v", dedupePath, existing)
			}
			existingValue = v
		}

		if utils.StrictEqual(existingValue, target) {
			return true, nil
		}
	}

	return false, nil
}
