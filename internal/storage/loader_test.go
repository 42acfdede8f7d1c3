package storage

import (
	"context"
	"fmt"
	"testing"
)

func makeRows(n int) [][]any {
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = []any{i}
	}
	return rows
}

// TestLoadBatches_Chunking verifies rows are flushed in order in fixed-size
// batches with a short final batch.
func TestLoadBatches_Chunking(t *testing.T) {
	t.Parallel()

	var sizes []int
	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		sizes = append(sizes, len(rows))
		return int64(len(rows)), nil
	}

	total, err := LoadBatches(context.Background(), []string{"id"}, makeRows(7), 3, copyFn)
	if err != nil {
		t.Fatalf("LoadBatches error: %v", err)
	}
	if total != 7 {
		t.Fatalf("total = %d, want 7", total)
	}
	want := []int{3, 3, 1}
	if len(sizes) != len(want) {
		t.Fatalf("batches = %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("batches = %v, want %v", sizes, want)
		}
	}
}

// TestLoadBatches_Empty verifies zero rows means zero copyFn calls.
func TestLoadBatches_Empty(t *testing.T) {
	t.Parallel()

	calls := 0
	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		calls++
		return 0, nil
	}

	total, err := LoadBatches(context.Background(), []string{"id"}, nil, 100, copyFn)
	if err != nil || total != 0 || calls != 0 {
		t.Fatalf("total=%d calls=%d err=%v, want all zero", total, calls, err)
	}
}

// TestLoadBatches_ErrorAbandons verifies the first failing batch stops the
// load and the partial total is reported.
func TestLoadBatches_ErrorAbandons(t *testing.T) {
	t.Parallel()

	calls := 0
	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		calls++
		if calls == 2 {
			return 0, fmt.Errorf("copy refused")
		}
		return int64(len(rows)), nil
	}

	total, err := LoadBatches(context.Background(), []string{"id"}, makeRows(10), 4, copyFn)
	if err == nil {
		t.Fatalf("expected error from second batch")
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2 (no batches after the failure)", calls)
	}
	if total != 4 {
		t.Fatalf("total = %d, want 4 rows from the first batch", total)
	}
}

func TestLoadBatches_BadArguments(t *testing.T) {
	t.Parallel()

	noop := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		return 0, nil
	}
	if _, err := LoadBatches(context.Background(), nil, makeRows(1), 0, noop); err == nil {
		t.Fatalf("expected error for batchSize=0")
	}
	if _, err := LoadBatches(context.Background(), nil, makeRows(1), 1, nil); err == nil {
		t.Fatalf("expected error for nil copyFn")
	}
}

// TestLoadBatches_ContextCancelled verifies cancellation is observed between
// batches.
func TestLoadBatches_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	copyFn := func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		cancel()
		return int64(len(rows)), nil
	}

	total, err := LoadBatches(ctx, []string{"id"}, makeRows(6), 3, copyFn)
	if err == nil {
		t.Fatalf("expected context error")
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3 before cancellation", total)
	}
}
