// Package transformer defines the dataset-cleaning stage: pure, deterministic
// functions over the full accumulated record sequence, composed into chains.
package transformer

import (
	"log"

	"wbetl/pkg/records"
)

// Transformer is one cleaning step over a batch of records.
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers.
type Chain []Transformer

func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}

// Logged wraps a step with before/after count reporting. When the step drops
// records, the percentage dropped is reported too.
type Logged struct {
	Name string
	Step Transformer
}

func (l Logged) Apply(in []records.Record) []records.Record {
	before := len(in)
	out := l.Step.Apply(in)
	after := len(out)
	if dropped := before - after; dropped > 0 && before > 0 {
		log.Printf("%s: %d -> %d records, dropped %d (%.1f%%)",
			l.Name, before, after, dropped, float64(dropped)/float64(before)*100)
	} else {
		log.Printf("%s: %d records, nothing dropped", l.Name, before)
	}
	return out
}
