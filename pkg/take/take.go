// Package take picks the first row of a result, typically a query expected to
// match at most one entity.
package take

import (
	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/utils"
)

// First returns the first element and whether there was one.
func First[T any](items []T) (T, bool) {
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return ectolinq.First(items), true
}

// FirstOrError returns the first element, or err when the slice is empty or its
// first element is nil or otherwise falsy. A nil err falls back to errors.ErrNoRows.
func FirstOrError[T any](items []T, err error) (T, error) {
	first, ok := First(items)
	if !ok || utils.IsFalsy(first) {
		if err == nil {
			err = errors.ErrNoRows
		}
		var zero T
		return zero, err
	}
	return first, nil
}
