package transformer

import (
	"testing"

	"wbetl/pkg/records"
)

// dropFirst is a trivial step that removes the first record.
type dropFirst struct{}

func (dropFirst) Apply(in []records.Record) []records.Record {
	if len(in) == 0 {
		return in
	}
	return in[1:]
}

// addFlag is a trivial step that marks every record it sees.
type addFlag struct{}

func (addFlag) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		r["seen"] = true
	}
	return in
}

// TestChain_AppliesInOrder verifies a chain runs its steps left to right over
// the whole batch.
func TestChain_AppliesInOrder(t *testing.T) {
	t.Parallel()

	in := []records.Record{
		{"id": "a"},
		{"id": "b"},
		{"id": "c"},
	}

	out := Chain{dropFirst{}, addFlag{}}.Apply(in)

	if len(out) != 2 {
		t.Fatalf("records = %d, want 2", len(out))
	}
	if out[0]["id"] != "b" || out[0]["seen"] != true {
		t.Fatalf("first record = %v, want flagged b", out[0])
	}
	// The dropped record was never seen by the second step.
	if in[0]["seen"] == true {
		t.Fatalf("dropped record must not reach later steps")
	}
}

// TestChain_Empty verifies an empty chain is the identity.
func TestChain_Empty(t *testing.T) {
	t.Parallel()

	in := []records.Record{{"id": "a"}}
	if out := (Chain{}).Apply(in); len(out) != 1 {
		t.Fatalf("records = %d, want 1", len(out))
	}
}

// TestLogged_PassesThrough verifies the logging wrapper does not alter the
// wrapped step's result.
func TestLogged_PassesThrough(t *testing.T) {
	t.Parallel()

	in := []records.Record{{"id": "a"}, {"id": "b"}}
	out := Logged{Name: "drop first", Step: dropFirst{}}.Apply(in)

	if len(out) != 1 || out[0]["id"] != "b" {
		t.Fatalf("out = %v, want only b", out)
	}
}
