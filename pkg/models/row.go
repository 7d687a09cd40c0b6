package models

// Row is a single flat record as produced by a query or a JSON payload.
// Joined sub-entities are nested map[string]any values; collected children are []any.
type Row = map[string]any

// CloneRow returns a shallow copy of the row. Nested values are shared with the original.
func CloneRow(row Row) Row {
	clone := make(Row, len(row))
	for k, v := range row {
		clone[k] = v
	}
	return clone
}
