// Package source turns a caller's SQL result set into rows ready for aggregation.
// It never opens connections or runs queries itself.
//
// Joined columns are nested by aliasing them with a dotted name:
//
//	SELECT u.id, u.name, p.id AS "post.id", p.title AS "post.title"
//	FROM users u LEFT JOIN posts p ON p.author_id = u.id
//
// yields rows shaped {id, name, post: {id, title}}, with post set to nil when the
// left join found no match.
package source

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/utils"
	"github.com/jmoiron/sqlx"
)

// ScanRows reads every remaining row from rows and closes it.
func ScanRows(rows *sqlx.Rows) ([]models.Row, error) {
	defer rows.Close()

	result := make([]models.Row, 0)
	for rows.Next() {
		flat := make(map[string]any)
		if err := rows.MapScan(flat); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row, err := Nest(flat)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}

	return result, nil
}

// Nest converts a flat column map into a row, nesting dotted column names.
// A nested object whose every column is NULL becomes nil. A column named like
// the prefix of a dotted column (post next to post.id) is rejected.
func Nest(flat map[string]any) (models.Row, error) {
	row := make(models.Row, len(flat))
	dotted := make([]string, 0)

	for column, value := range flat {
		if first, _, ok := strings.Cut(column, utils.SplitToken); ok && first != "" {
			if prefix, found := plainPrefix(flat, column); found {
				return nil, fmt.Errorf("%w: '%s' and '%s'", errors.ErrColumnCollision, prefix, column)
			}
			dotted = append(dotted, column)
			continue
		}
		row[column] = formatValue(value)
	}

	slices.Sort(dotted)

	nested := make(map[string]bool)
	for _, column := range dotted {
		first, _ := utils.SplitPath(column)
		nested[first] = true
		utils.AssignMapValue(row, column, formatValue(flat[column]))
	}

	for key := range nested {
		if obj, ok := row[key].(map[string]any); ok && allNil(obj) {
			row[key] = nil
		}
	}

	return row, nil
}

// plainPrefix finds a column whose name is a dotted prefix of column.
func plainPrefix(flat map[string]any, column string) (string, bool) {
	for i := range len(column) {
		if column[i:i+1] != utils.SplitToken {
			continue
		}
		if _, ok := flat[column[:i]]; ok {
			return column[:i], true
		}
	}
	return "", false
}

func allNil(obj map[string]any) bool {
	for _, value := range obj {
		if child, ok := value.(map[string]any); ok {
			if !allNil(child) {
				return false
			}
			continue
		}
		if value != nil {
			return false
		}
	}
	return true
}

// formatValue converts driver byte slices to strings.
func formatValue(v any) any {
	if val, ok := v.([]byte); ok {
		return string(val)
	}
	return v
}
