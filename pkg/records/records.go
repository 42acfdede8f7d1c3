// Package records defines the flat tuple representation that flows between
// the record mappers, the transform chain, and the storage loader. A Record
// is a column-name keyed map; nil values represent SQL NULL.
package records

// Record is one flat output tuple. Keys are destination column names.
type Record map[string]any

// String returns the string value for key, or "" and false when the value is
// absent, nil, or not a string.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Row projects the record onto the given column order for bulk insertion.
// Missing columns project to nil.
func (r Record) Row(columns []string) []any {
	row := make([]any, len(columns))
	for i, c := range columns {
		row[i] = r[c]
	}
	return row
}

// Rows projects a batch of records onto the given column order.
func Rows(recs []Record, columns []string) [][]any {
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = r.Row(columns)
	}
	return rows
}
