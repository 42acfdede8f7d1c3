package builtin

import (
	"strconv"

	"wbetl/pkg/records"
)

// CoerceFloat converts string values in the listed fields to float64.
// Unparseable values become nil (SQL NULL) rather than dropping the record
// or erroring; nil and already-numeric values are left alone.
type CoerceFloat struct {
	Fields []string
}

func (c CoerceFloat) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, field := range c.Fields {
			v, ok := r[field]
			if !ok || v == nil {
				continue
			}
			s, isStr := v.(string)
			if !isStr {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				r[field] = f
			} else {
				r[field] = nil
			}
		}
	}
	return in
}

// CoerceInt converts values in the listed fields to int. Strings are parsed,
// JSON numbers (float64) are truncated; anything unparseable becomes nil.
type CoerceInt struct {
	Fields []string
}

func (c CoerceInt) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for _, field := range c.Fields {
			v, ok := r[field]
			if !ok || v == nil {
				continue
			}
			switch t := v.(type) {
			case string:
				if n, err := strconv.Atoi(t); err == nil {
					r[field] = n
				} else {
					r[field] = nil
				}
			case float64:
				r[field] = int(t)
			case int:
				// already coerced
			default:
				r[field] = nil
			}
		}
	}
	return in
}
