// Package builtin contains the reusable cleaning steps the datasets compose:
// sentinel-value filtering, numeric coercion, keep-first de-duplication, and
// display-text normalization.
package builtin

import "wbetl/pkg/records"

// FilterValue drops records whose Field holds the string Drop. Records where
// the field is absent, nil, or non-string pass through untouched; only an
// exact match is excluded. The countries dataset uses this to remove rows
// whose region name is the "Aggregates" sentinel, which mark non-country
// aggregates rather than real entities.
type FilterValue struct {
	Field string
	Drop  string
}

func (f FilterValue) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, r := range in {
		if s, ok := r.String(f.Field); ok && s == f.Drop {
			continue
		}
		out = append(out, r)
	}
	return out
}
