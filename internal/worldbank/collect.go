package worldbank

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"wbetl/internal/metrics"
	"wbetl/pkg/records"
)

// Collector walks every page of a dataset and accumulates mapped tuples.
//
// Page 1 is always fetched first because its metadata carries the total page
// count. For a paced dataset the remaining pages are fetched sequentially
// with the configured delay between requests; otherwise pages 2..N are
// fetched concurrently with a bounded fan-out, and rows are reassembled in
// page order so the accumulated sequence stays deterministic.
type Collector struct {
	Client *Client

	// Pacing is the delay between consecutive page requests for datasets
	// that ask for it.
	Pacing time.Duration

	// MaxParallel bounds the concurrent page fan-out for unpaced datasets.
	// Values below 1 mean sequential collection.
	MaxParallel int

	// sleep is injectable for tests; nil means time.Sleep.
	sleep func(time.Duration)
}

// Collect gathers every mapped tuple of the dataset, in page order. It
// returns an error on any fetch failure; a dataset whose very first page is
// already empty yields an empty (non-nil) slice and no error, which the
// caller must treat as a reported fatal condition rather than silently
// loading zero rows.
func (c *Collector) Collect(ctx context.Context, ds Dataset) ([]records.Record, error) {
	out := make([]records.Record, 0, ds.PerPage)

	endpoints := []string{ds.Path}
	if len(ds.Indicators) > 0 {
		endpoints = endpoints[:0]
		for _, code := range ds.Indicators {
			endpoints = append(endpoints, ds.Path+"/"+code)
		}
	}

	for _, ep := range endpoints {
		rows, err := c.collectEndpoint(ctx, ds, ep)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
		if len(ds.Indicators) > 0 {
			log.Printf("%s: finished %s, running total %d records", ds.Name, ep, len(out))
		}
	}

	log.Printf("%s: collected %d records", ds.Name, len(out))
	return out, nil
}

// collectEndpoint paginates one endpoint from page 1 until the reported page
// count is exhausted or the API signals end of stream early.
func (c *Collector) collectEndpoint(ctx context.Context, ds Dataset, path string) ([]records.Record, error) {
	first, err := c.fetch(ctx, ds, path, 1)
	if err != nil {
		if errors.Is(err, ErrEndOfStream) {
			log.Printf("%s: %s has no data", ds.Name, path)
			return nil, nil
		}
		return nil, fmt.Errorf("%s: page 1 of %s: %w", ds.Name, path, err)
	}

	total := first.TotalPages()
	log.Printf("%s: %s page 1 of %d, %d records", ds.Name, path, total, len(first.Records))

	out := c.mapPage(ds, first, nil)
	if total <= 1 {
		return out, nil
	}

	if ds.Paced && c.Pacing > 0 {
		return c.collectSequential(ctx, ds, path, total, out)
	}
	return c.collectParallel(ctx, ds, path, total, out)
}

// collectSequential walks pages 2..total one at a time, sleeping the pacing
// delay before each request to respect upstream rate limits.
func (c *Collector) collectSequential(ctx context.Context, ds Dataset, path string, total int, out []records.Record) ([]records.Record, error) {
	for page := 2; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.sleepFn()(c.Pacing)
		p, err := c.fetch(ctx, ds, path, page)
		if err != nil {
			if errors.Is(err, ErrEndOfStream) {
				log.Printf("%s: %s page %d empty, stopping early", ds.Name, path, page)
				return out, nil
			}
			return nil, fmt.Errorf("%s: page %d of %s: %w", ds.Name, page, path, err)
		}
		log.Printf("%s: %s page %d of %d, %d records", ds.Name, path, page, total, len(p.Records))
		out = c.mapPage(ds, p, out)
	}
	return out, nil
}

// collectParallel fetches pages 2..total with a bounded errgroup. Pages are
// independent once the total is known from page 1; rows are appended in page
// order afterwards. The drop/create/load sequence downstream remains strictly
// sequential regardless.
func (c *Collector) collectParallel(ctx context.Context, ds Dataset, path string, total int, out []records.Record) ([]records.Record, error) {
	limit := c.MaxParallel
	if limit < 1 {
		limit = 1
	}

	pages := make([]*Page, total+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for page := 2; page <= total; page++ {
		g.Go(func() error {
			p, err := c.fetch(gctx, ds, path, page)
			if err != nil {
				if errors.Is(err, ErrEndOfStream) {
					// Leave the slot empty; an undershot page count is benign.
					return nil
				}
				return fmt.Errorf("%s: page %d of %s: %w", ds.Name, page, path, err)
			}
			log.Printf("%s: %s page %d of %d, %d records", ds.Name, path, page, total, len(p.Records))
			pages[page] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for page := 2; page <= total; page++ {
		if pages[page] != nil {
			out = c.mapPage(ds, pages[page], out)
		}
	}
	return out, nil
}

// fetch issues one page request with the dataset's query parameters.
func (c *Collector) fetch(ctx context.Context, ds Dataset, path string, page int) (*Page, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(ds.PerPage))
	if ds.DateRange != "" {
		q.Set("date", ds.DateRange)
	}

	p, err := c.Client.FetchPage(ctx, path, q)
	if err == nil {
		metrics.IncCounter("wbetl_pages_total", 1, metrics.Labels{"dataset": ds.Name})
	}
	return p, err
}

// mapPage appends the page's mapped tuples to dst, counting drops.
func (c *Collector) mapPage(ds Dataset, p *Page, dst []records.Record) []records.Record {
	dropped := 0
	for _, raw := range p.Records {
		rec, ok := ds.Map(raw)
		if !ok {
			dropped++
			continue
		}
		dst = append(dst, rec)
	}
	metrics.RecordRows(ds.Name, "mapped", int64(len(p.Records)-dropped))
	metrics.RecordRows(ds.Name, "dropped", int64(dropped))
	return dst
}

func (c *Collector) sleepFn() func(time.Duration) {
	if c.sleep != nil {
		return c.sleep
	}
	return time.Sleep
}

// rangeString formats a year range as the API expects, e.g. "1960:2024".
func rangeString(start, end int) string {
	return strconv.Itoa(start) + ":" + strconv.Itoa(end)
}
