package builtin

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"wbetl/pkg/records"
)

// DeDup collapses duplicate records by the configured key fields, keeping
// the first occurrence in arrival order. The catalog dataset uses this on
// indicator_id, where upstream pages are known to repeat entries.
//
// Keys are joined with an unlikely separator (nil -> "\x00") and reduced to
// an xxh3 hash, so the seen-set holds eight bytes per distinct key instead
// of the full concatenation. Run DeDup after coercion steps so key values
// have stable types.
type DeDup struct {
	Keys []string
}

func (d DeDup) Apply(in []records.Record) []records.Record {
	if len(in) == 0 || len(d.Keys) == 0 {
		return in
	}

	seen := make(map[uint64]struct{}, len(in))
	out := in[:0]
	var b strings.Builder

	for _, r := range in {
		b.Reset()
		for i, k := range d.Keys {
			if i > 0 {
				b.WriteByte('\x1f')
			}
			switch t := r[k].(type) {
			case nil:
				b.WriteByte('\x00')
			case string:
				b.WriteString(t)
			default:
				// Keys are expected to be strings by this point; anything
				// else still participates via its formatted value.
				b.WriteString(fmt.Sprint(t))
			}
		}
		h := xxh3.HashString(b.String())
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, r)
	}
	return out
}
