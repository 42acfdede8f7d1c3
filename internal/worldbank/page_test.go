// internal/worldbank/page_test.go
//
// Envelope decoding is where most upstream surprises land, so the cases
// below pin down the exact boundary between "a page of data", "end of
// stream", and "malformed response".
package worldbank

import (
	"errors"
	"testing"
)

func TestDecodeEnvelope(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		body        string
		wantEOS     bool
		wantErr     bool
		wantRecords int
		wantPages   int
	}{
		{
			name:        "valid two-element envelope",
			body:        `[{"page":1,"pages":3,"per_page":500},[{"id":"USA"},{"id":"FRA"}]]`,
			wantRecords: 2,
			wantPages:   3,
		},
		{
			name:        "per_page as string",
			body:        `[{"page":1,"pages":2,"per_page":"500"},[{"id":"USA"}]]`,
			wantRecords: 1,
			wantPages:   2,
		},
		{
			name:        "missing pages defaults to 1",
			body:        `[{"page":1},[{"id":"USA"}]]`,
			wantRecords: 1,
			wantPages:   1,
		},
		{
			name:    "empty records array",
			body:    `[{"page":7,"pages":6},[]]`,
			wantEOS: true,
		},
		{
			name:    "null records element",
			body:    `[{"page":7,"pages":6},null]`,
			wantEOS: true,
		},
		{
			name:    "single-element envelope",
			body:    `[{"message":"no data"}]`,
			wantEOS: true,
		},
		{
			name:    "non-array top level",
			body:    `{"error":"invalid indicator"}`,
			wantEOS: true,
		},
		{
			name:    "invalid JSON",
			body:    `[{"page":1},`,
			wantErr: true,
		},
		{
			name:    "records element not an array of objects",
			body:    `[{"page":1,"pages":1},"oops"]`,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p, err := decodeEnvelope([]byte(tc.body))

			switch {
			case tc.wantEOS:
				if !errors.Is(err, ErrEndOfStream) {
					t.Fatalf("err = %v, want ErrEndOfStream", err)
				}
			case tc.wantErr:
				if err == nil || errors.Is(err, ErrEndOfStream) {
					t.Fatalf("err = %v, want a real decode error", err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(p.Records) != tc.wantRecords {
					t.Fatalf("records = %d, want %d", len(p.Records), tc.wantRecords)
				}
				if got := p.TotalPages(); got != tc.wantPages {
					t.Fatalf("TotalPages() = %d, want %d", got, tc.wantPages)
				}
			}
		})
	}
}
