// Package storage contains the storage-agnostic contracts for the
// table-replace load: the Repository interface, a kind-keyed backend
// registry, and the batched bulk loader.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"wbetl/internal/schema"
)

// Config selects and configures a storage backend.
type Config struct {
	// Kind selects the backend implementation, e.g. "postgres" or "sqlite".
	Kind string

	// DSN is the backend connection string.
	DSN string
}

// ColumnInfo is one live column reported by post-load verification.
type ColumnInfo struct {
	Name string
	Type string
}

// Repository is the destination-store contract the pipeline consumes.
//
// Replace must drop and recreate the table as a single atomic unit: both
// statements commit together or neither does. CopyRows runs in a separate
// transactional scope; a failed bulk load leaves the freshly created table
// empty or partially populated, which callers report rather than roll back.
// Columns and Count are purely observational verification probes.
type Repository interface {
	// Ping runs a trivial liveness probe against the store.
	Ping(ctx context.Context) error

	// Replace drops the table if present and recreates it fresh, in one
	// transaction.
	Replace(ctx context.Context, table schema.TableDef) error

	// CopyRows bulk-inserts rows (aligned to the columns order) into the
	// table and returns the number of rows inserted.
	CopyRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Columns reports the live column layout of the table in ordinal order.
	Columns(ctx context.Context, table string) ([]ColumnInfo, error)

	// Count reports the current row count of the table.
	Count(ctx context.Context, table string) (int64, error)

	// Close releases the underlying connection resources.
	Close()
}

// Factory constructs a Repository for a Config. Backends register one for
// their kind at init time.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) a Factory for the given storage kind. It
// is typically called from backend packages' init() functions.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind. Unsupported kinds return an error
// naming the kind; ListKinds enumerates what is available.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered backend kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
