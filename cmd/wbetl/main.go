package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"wbetl/internal/config"
	"wbetl/internal/metrics"
	"wbetl/internal/metrics/prompush"
	"wbetl/internal/pipeline"
	"wbetl/internal/storage"
	"wbetl/internal/worldbank"

	// register all backends with the storage factory.
	_ "wbetl/internal/storage/all"
)

// main is the entry point for the wbetl binary. It loads configuration from
// the environment, optionally initializes a metrics backend, opens the
// destination store, and executes the requested dataset loads.
//
// Exit codes: 0 success, 2 configuration error, 3 store connectivity error,
// 4 fetch error, 5 empty result, 6 load error, 1 anything else.
func main() {
	os.Exit(run())
}

func run() int {
	var (
		datasetsFlg       string
		storageKindFlg    string
		sqliteDSNFlg      string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
	)

	flag.StringVar(&datasetsFlg, "datasets", strings.Join(pipeline.AllDatasets, ","), "comma-separated datasets to load (countries,indicators,values)")
	flag.StringVar(&storageKindFlg, "storage", "postgres", "destination backend kind (postgres, sqlite)")
	flag.StringVar(&sqliteDSNFlg, "sqlite-dsn", "wbetl.db", "DSN for the sqlite backend")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (pushgateway, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	cfg := config.FromEnv()

	// Validate configuration before any network or DB activity.
	issues := cfg.Validate()
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("configuration is invalid")
		return pipeline.ExitConfig
	}
	if validate {
		log.Printf("configuration is valid")
		return pipeline.ExitOK
	}

	names := splitDatasets(datasetsFlg)
	runs, err := pipeline.Runs(names)
	if err != nil {
		log.Printf("%v", err)
		return pipeline.ExitCode(err)
	}

	// Decide metrics backend: flag, then env, default off.
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		gwURL := pushGatewayURLFlg
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend("wbetl", gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
		} else {
			log.Printf("metrics: url=%v backend=%v", gwURL, backendName)
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()
		}

	case "", "none":
		if *verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	ctx := context.Background()
	start := time.Now()

	storageCfg := storage.Config{Kind: storageKindFlg, DSN: cfg.DSN()}
	if storageKindFlg == "sqlite" {
		storageCfg.DSN = sqliteDSNFlg
	}

	repo, err := storage.New(ctx, storageCfg)
	if err != nil {
		log.Printf("open store: %v (available kinds: %v)", err, storage.ListKinds())
		return pipeline.ExitConnectivity
	}
	// Release the store connection on every exit path.
	defer repo.Close()

	p := &pipeline.Pipeline{
		Repo: repo,
		Collector: &worldbank.Collector{
			Client: worldbank.NewClient(worldbank.ClientConfig{
				BaseURL:    cfg.BaseURL,
				Timeout:    cfg.Timeout,
				MaxRetries: cfg.MaxRetries,
			}),
			Pacing:      cfg.Pacing,
			MaxParallel: cfg.MaxParallel,
		},
		BatchSize: cfg.BatchSize,
	}

	if *verbose {
		log.Printf("run: datasets=%v storage=%s batch_size=%d retries=%d", names, storageKindFlg, cfg.BatchSize, cfg.MaxRetries)
	}

	if err := p.Run(ctx, runs); err != nil {
		log.Printf("%v", err)
		return pipeline.ExitCode(err)
	}

	log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	return pipeline.ExitOK
}

// splitDatasets parses the -datasets flag, trimming blanks.
func splitDatasets(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			names = append(names, p)
		}
	}
	return names
}
