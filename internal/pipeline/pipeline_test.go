// internal/pipeline/pipeline_test.go
//
// The end-to-end cases run the real collector against a local HTTP fixture
// and load into a throwaway SQLite database, covering the full
// collect -> transform -> replace/load -> verify sequence. Stage failure
// classification is covered with a scriptable repository stub.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"wbetl/internal/schema"
	"wbetl/internal/storage"
	"wbetl/internal/storage/sqlite"
	"wbetl/internal/worldbank"
)

// fakeRepo lets a test fail exactly one stage of the store contract.
type fakeRepo struct {
	pingErr    error
	replaceErr error
}

func (f *fakeRepo) Ping(context.Context) error                     { return f.pingErr }
func (f *fakeRepo) Replace(context.Context, schema.TableDef) error { return f.replaceErr }
func (f *fakeRepo) CopyRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	return int64(len(rows)), nil
}
func (f *fakeRepo) Columns(context.Context, string) ([]storage.ColumnInfo, error) {
	return nil, nil
}
func (f *fakeRepo) Count(context.Context, string) (int64, error) { return 0, nil }
func (f *fakeRepo) Close()                                       {}

// indicatorCatalogServer serves a two-page catalog where the second page
// repeats an identifier from the first.
func indicatorCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/indicators" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `[{"page":1,"pages":2,"per_page":2,"total":3},[
				{"id":"SP.POP.TOTL","name":"Population, total",
				 "source":{"id":"2","value":"World Development Indicators"},
				 "sourceNote":"Total population.","sourceOrganization":"United Nations",
				 "topics":[{"id":"8","value":"Health"}]},
				{"id":"NY.GDP.MKTP.CD","name":"GDP (current US$)",
				 "source":{"id":"2","value":"World Development Indicators"},
				 "sourceNote":"GDP at purchaser prices.","sourceOrganization":"World Bank",
				 "topics":[{"id":"3","value":"Economy & Growth"}]}
			]]`)
		case "2":
			fmt.Fprint(w, `[{"page":2,"pages":2,"per_page":2,"total":3},[
				{"id":"SP.POP.TOTL","name":"Population, total (duplicate entry)",
				 "source":{"id":"2","value":"World Development Indicators"},
				 "topics":[]}
			]]`)
		default:
			fmt.Fprint(w, `[{"page":9,"pages":2},[]]`)
		}
	}))
}

func testPipeline(t *testing.T, baseURL string, repo storage.Repository) *Pipeline {
	t.Helper()
	return &Pipeline{
		Repo: repo,
		Collector: &worldbank.Collector{
			Client: worldbank.NewClient(worldbank.ClientConfig{
				BaseURL: baseURL,
				Timeout: 2 * time.Second,
			}),
			MaxParallel: 2,
		},
		BatchSize: 100,
	}
}

func sqliteRepo(t *testing.T) storage.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(context.Background(), storage.Config{
		Kind: "sqlite",
		DSN:  filepath.Join(t.TempDir(), "pipeline.db"),
	})
	if err != nil {
		t.Fatalf("sqlite repo: %v", err)
	}
	t.Cleanup(repo.Close)
	return repo
}

// TestRun_IndicatorsEndToEnd walks the catalog dataset from HTTP fixture to
// loaded table: three records arrive across two pages, the duplicate
// identifier is collapsed, and exactly two rows land in the destination.
func TestRun_IndicatorsEndToEnd(t *testing.T) {
	t.Parallel()

	srv := indicatorCatalogServer(t)
	defer srv.Close()

	repo := sqliteRepo(t)
	p := testPipeline(t, srv.URL, repo)

	runs, err := Runs([]string{DatasetIndicators})
	if err != nil {
		t.Fatalf("Runs error: %v", err)
	}
	if err := p.Run(context.Background(), runs); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	ctx := context.Background()
	n, err := repo.Count(ctx, "worldbank_indicators")
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if n != 2 {
		t.Fatalf("row count = %d, want 2 (duplicate collapsed)", n)
	}

	cols, err := repo.Columns(ctx, "worldbank_indicators")
	if err != nil {
		t.Fatalf("Columns error: %v", err)
	}
	want := schema.IndicatorsTable().ColumnNames()
	if len(cols) != len(want) {
		t.Fatalf("live columns = %d, want %d", len(cols), len(want))
	}
	for i, c := range cols {
		if c.Name != want[i] {
			t.Fatalf("column %d = %q, want %q", i, c.Name, want[i])
		}
	}
}

// TestRun_RerunReplacesTable verifies a second run produces the same row
// count rather than appending.
func TestRun_RerunReplacesTable(t *testing.T) {
	t.Parallel()

	srv := indicatorCatalogServer(t)
	defer srv.Close()

	repo := sqliteRepo(t)
	p := testPipeline(t, srv.URL, repo)

	runs, err := Runs([]string{DatasetIndicators})
	if err != nil {
		t.Fatalf("Runs error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := p.Run(context.Background(), runs); err != nil {
			t.Fatalf("Run %d error: %v", i+1, err)
		}
	}

	n, err := repo.Count(context.Background(), "worldbank_indicators")
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if n != 2 {
		t.Fatalf("row count after rerun = %d, want 2", n)
	}
}

// TestRun_EmptyResult verifies a dataset with no records refuses to create
// an empty table and classifies as an empty-result failure.
func TestRun_EmptyResult(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"page":1,"pages":0},[]]`)
	}))
	defer srv.Close()

	repo := sqliteRepo(t)
	p := testPipeline(t, srv.URL, repo)

	runs, _ := Runs([]string{DatasetIndicators})
	err := p.Run(context.Background(), runs)
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("err = %v, want ErrEmptyResult", err)
	}
	if ExitCode(err) != ExitEmptyResult {
		t.Fatalf("exit code = %d, want %d", ExitCode(err), ExitEmptyResult)
	}

	// The destination table was never created.
	if _, err := repo.Count(context.Background(), "worldbank_indicators"); err == nil {
		t.Fatalf("expected missing-table error, table must not exist")
	}
}

// TestRun_ConnectivityError verifies the liveness probe runs before any API
// traffic and classifies as a connectivity failure.
func TestRun_ConnectivityError(t *testing.T) {
	t.Parallel()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	p := testPipeline(t, srv.URL, &fakeRepo{pingErr: errors.New("dial refused")})

	runs, _ := Runs([]string{DatasetIndicators})
	err := p.Run(context.Background(), runs)
	if !errors.Is(err, ErrConnectivity) {
		t.Fatalf("err = %v, want ErrConnectivity", err)
	}
	if hits != 0 {
		t.Fatalf("API was contacted %d times before the store probe failed", hits)
	}
}

// TestRun_FetchError verifies an upstream hard failure classifies as a
// fetch failure.
func TestRun_FetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p := testPipeline(t, srv.URL, &fakeRepo{})

	runs, _ := Runs([]string{DatasetIndicators})
	err := p.Run(context.Background(), runs)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
}

// TestRun_LoadError verifies a failed schema replacement classifies as a
// load failure.
func TestRun_LoadError(t *testing.T) {
	t.Parallel()

	srv := indicatorCatalogServer(t)
	defer srv.Close()

	p := testPipeline(t, srv.URL, &fakeRepo{replaceErr: errors.New("permission denied")})

	runs, _ := Runs([]string{DatasetIndicators})
	err := p.Run(context.Background(), runs)
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("err = %v, want ErrLoad", err)
	}
}
