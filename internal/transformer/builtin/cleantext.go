package builtin

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"wbetl/pkg/records"
)

// CleanText normalizes string values in the listed fields: Unicode NFC
// recomposition plus whitespace collapse (runs of spaces, tabs, and
// non-breaking space artifacts become a single space, leading/trailing
// whitespace is trimmed). Upstream display names mix composed and decomposed
// accents, which would otherwise make equal-looking names compare unequal.
type CleanText struct {
	Fields []string
}

func (c CleanText) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, field := range c.Fields {
			s, ok := r[field].(string)
			if !ok {
				continue
			}
			s = norm.NFC.String(strings.ReplaceAll(s, "\u00a0", " "))
			s = strings.Join(strings.Fields(s), " ")
			if s == "" {
				r[field] = nil
			} else {
				r[field] = s
			}
		}
	}
	return in
}
