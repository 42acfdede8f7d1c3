// Package pipeline wires the ingestion stages per dataset: collect every
// page into flat tuples, run the cleaning chain, replace and bulk-load the
// destination table, then verify the live schema and row count. Any stage
// failure aborts the run; the store connection is released by the caller on
// every exit path.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"wbetl/internal/metrics"
	"wbetl/internal/schema"
	"wbetl/internal/storage"
	"wbetl/internal/transformer"
	"wbetl/internal/worldbank"
	"wbetl/pkg/records"
)

// DatasetRun binds one dataset to its destination table and cleaning chain.
type DatasetRun struct {
	Dataset   worldbank.Dataset
	Table     schema.TableDef
	Transform transformer.Transformer
}

// Pipeline executes dataset runs against one shared repository.
type Pipeline struct {
	Repo      storage.Repository
	Collector *worldbank.Collector
	BatchSize int
}

// Run executes the given dataset runs in order, stopping at the first
// failure. The repository must already be open; Run probes it before any
// API traffic and the caller remains responsible for closing it.
func (p *Pipeline) Run(ctx context.Context, runs []DatasetRun) error {
	if err := p.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	log.Printf("store connection verified")

	for _, run := range runs {
		if err := p.runDataset(ctx, run); err != nil {
			return err
		}
	}
	return nil
}

// runDataset executes the collect -> transform -> replace/load -> verify
// sequence for one dataset. The drop/create/load/verify steps are strictly
// sequential: the load must not begin until the schema replacement has
// committed, and verification runs only after the load has finished.
func (p *Pipeline) runDataset(ctx context.Context, run DatasetRun) error {
	name := run.Dataset.Name
	log.Printf("=== dataset %s -> table %s ===", name, run.Table.Name)

	// Collect.
	start := time.Now()
	recs, err := p.Collector.Collect(ctx, run.Dataset)
	metrics.RecordStage(name, "collect", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFetch, name, err)
	}
	if len(recs) == 0 {
		return fmt.Errorf("%w: dataset %s yielded no records; refusing to create an empty table", ErrEmptyResult, name)
	}

	// Transform.
	start = time.Now()
	if run.Transform != nil {
		recs = run.Transform.Apply(recs)
	}
	metrics.RecordStage(name, "transform", nil, time.Since(start))
	if len(recs) == 0 {
		return fmt.Errorf("%w: dataset %s has no records left after cleaning", ErrEmptyResult, name)
	}

	// Replace and load.
	start = time.Now()
	loaded, err := p.load(ctx, run.Table, recs)
	metrics.RecordStage(name, "load", err, time.Since(start))
	metrics.RecordRows(name, "loaded", loaded)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLoad, name, err)
	}
	log.Printf("%s: loaded %d rows into %s", name, loaded, run.Table.Name)

	// Verify. Failures here are observational: the load stands either way.
	start = time.Now()
	err = p.verify(ctx, run.Table, loaded)
	metrics.RecordStage(name, "verify", err, time.Since(start))
	if err != nil {
		log.Printf("%s: verification failed: %v", name, err)
	}
	return nil
}

// load replaces the destination table and bulk-inserts the records in
// batches. Schema replacement commits before the first insert; a mid-load
// failure leaves the fresh table partially populated and is reported as
// such by the caller.
func (p *Pipeline) load(ctx context.Context, table schema.TableDef, recs []records.Record) (int64, error) {
	if err := p.Repo.Replace(ctx, table); err != nil {
		return 0, err
	}
	log.Printf("table %s recreated", table.Name)

	columns := table.ColumnNames()
	rows := records.Rows(recs, columns)
	return storage.LoadBatches(ctx, columns, rows, p.BatchSize, func(ctx context.Context, cols []string, batch [][]any) (int64, error) {
		return p.Repo.CopyRows(ctx, table.Name, cols, batch)
	})
}

// verify prints the live column layout and row count of the just-loaded
// table for operator confirmation, and flags a count that disagrees with
// the number of rows inserted.
func (p *Pipeline) verify(ctx context.Context, table schema.TableDef, loaded int64) error {
	cols, err := p.Repo.Columns(ctx, table.Name)
	if err != nil {
		return err
	}
	log.Printf("%s live schema:", table.Name)
	for _, c := range cols {
		log.Printf("   %s: %s", c.Name, c.Type)
	}

	count, err := p.Repo.Count(ctx, table.Name)
	if err != nil {
		return err
	}
	log.Printf("%s row count: %d", table.Name, count)
	if count != loaded {
		return fmt.Errorf("row count %d does not match %d rows inserted", count, loaded)
	}
	return nil
}
