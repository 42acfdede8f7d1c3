// This file implements a generic, batched loader that feeds accumulated rows
// to a backend's bulk-insert primitive in fixed-size batches.
//
// Backends implement CopyFn with their most efficient mechanism (Postgres
// COPY, SQLite transactional multi-row INSERT). Logging: on every flushed
// batch a concise progress line is emitted with running totals.
package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations
// insert the provided rows (aligned to the columns order) and return the
// number of rows inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches splits rows into batches of batchSize and calls copyFn for
// each non-empty batch, in order. It returns the total number of rows
// reported by copyFn and the first error encountered; on error the load is
// abandoned mid-way, leaving the table partially populated.
func LoadBatches(
	ctx context.Context,
	columns []string,
	rows [][]any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("storage: batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("storage: copyFn must not be nil")
	}

	var (
		total   int64
		batches int
		start   = time.Now()
	)

	for len(rows) > 0 {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n := batchSize
		if n > len(rows) {
			n = len(rows)
		}
		inserted, err := copyFn(ctx, columns, rows[:n])
		total += inserted
		if err != nil {
			return total, fmt.Errorf("storage: batch %d failed after %d rows: %w", batches+1, total, err)
		}

		batches++
		log.Printf("loader: batch #%d inserted=%d total=%d elapsed=%s",
			batches, inserted, total, time.Since(start).Truncate(time.Millisecond))
		rows = rows[n:]
	}

	return total, nil
}
