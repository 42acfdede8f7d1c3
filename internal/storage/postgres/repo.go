// Package postgres implements a Postgres storage.Repository using pgx v5.
// The table replace runs drop+create inside one transaction; the bulk load
// uses the COPY protocol in a separate scope; verification reads
// information_schema and a plain COUNT.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"wbetl/internal/schema"
	"wbetl/internal/storage"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository opens a connection pool for the DSN. The pool connects
// lazily; Ping performs the first real round-trip.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	return &Repository{pool: pool}, nil
}

// Ping runs SELECT 1 as a liveness probe.
func (r *Repository) Ping(ctx context.Context) error {
	var one int
	if err := r.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

// Replace drops and recreates the table inside a single transaction, so the
// destination never ends up dropped-but-not-recreated.
func (r *Repository) Replace(ctx context.Context, table schema.TableDef) error {
	drop, err := schema.BuildDropTableSQL(table)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	create, err := schema.BuildCreateTableSQL(table)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, drop); err != nil {
		return fmt.Errorf("postgres: drop %s: %w", table.Name, err)
	}
	if _, err := tx.Exec(ctx, create); err != nil {
		return fmt.Errorf("postgres: create %s: %w", table.Name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit replace: %w", err)
	}
	return nil
}

// CopyRows bulk-inserts rows via the COPY protocol. Postgres error detail
// (e.g. the offending constraint) is surfaced when available.
func (r *Repository) CopyRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	n, err := r.pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return n, fmt.Errorf("postgres: copy into %s: %s (%s)", table, pgErr.Detail, pgErr.SQLState())
		}
		return n, fmt.Errorf("postgres: copy into %s: %w", table, err)
	}
	return n, nil
}

// Columns reads the live column layout from information_schema in ordinal
// order.
func (r *Repository) Columns(ctx context.Context, table string) ([]storage.ColumnInfo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_name = $1
		ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("postgres: columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []storage.ColumnInfo
	for rows.Next() {
		var c storage.ColumnInfo
		if err := rows.Scan(&c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("postgres: scan column: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: columns of %s: %w", table, err)
	}
	return cols, nil
}

// Count reports the table's current row count.
func (r *Repository) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count %s: %w", table, err)
	}
	return n, nil
}

// Close releases the pool.
func (r *Repository) Close() { r.pool.Close() }

// quoteIdent safely quotes a single identifier for Postgres.
func quoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
