// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// This package adapts the generic metrics.Backend interface to Prometheus by:
//
//   - Using client_golang CounterVec and SummaryVec collectors.
//   - Mapping the common labels (dataset, stage, status, kind) onto
//     Prometheus labels.
//   - Pushing collected metrics to a Pushgateway instance instead of
//     exposing an HTTP scrape endpoint, which fits a batch job that exits
//     when the run completes.
//
// The package intentionally contains all Prometheus-specific dependencies so
// the rest of the project remains decoupled from Prometheus.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"wbetl/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stageCounter  *prometheus.CounterVec // "wbetl_stage_total"
	stageDuration *prometheus.SummaryVec // "wbetl_stage_duration_seconds"
	recordCounter *prometheus.CounterVec // "wbetl_records_total"
	pageCounter   *prometheus.CounterVec // "wbetl_pages_total"
}

// NewBackend constructs a Pushgateway backend.
// jobName: the Pushgateway "job" name. gatewayURL: base URL of the gateway.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "wbetl"
	}

	reg := prometheus.NewRegistry()

	stageCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wbetl_stage_total",
			Help: "Total pipeline stage executions, partitioned by dataset, stage, and status.",
		},
		[]string{"dataset", "stage", "status"},
	)
	stageDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "wbetl_stage_duration_seconds",
			Help:       "Duration of pipeline stages in seconds, partitioned by dataset, stage, and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"dataset", "stage", "status"},
	)
	recordCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wbetl_records_total",
			Help: "Record-level counts per dataset and kind (mapped, dropped, loaded).",
		},
		[]string{"dataset", "kind"},
	)
	pageCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wbetl_pages_total",
			Help: "Total API pages fetched per dataset.",
		},
		[]string{"dataset"},
	)

	if err := reg.Register(stageCounter); err != nil {
		return nil, fmt.Errorf("prompush: register stage counter: %w", err)
	}
	if err := reg.Register(stageDuration); err != nil {
		return nil, fmt.Errorf("prompush: register stage summary: %w", err)
	}
	if err := reg.Register(recordCounter); err != nil {
		return nil, fmt.Errorf("prompush: register record counter: %w", err)
	}
	if err := reg.Register(pageCounter); err != nil {
		return nil, fmt.Errorf("prompush: register page counter: %w", err)
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		stageCounter:  stageCounter,
		stageDuration: stageDuration,
		recordCounter: recordCounter,
		pageCounter:   pageCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "wbetl_stage_total":
		b.stageCounter.WithLabelValues(labels["dataset"], labels["stage"], labels["status"]).Add(delta)

	case "wbetl_records_total":
		b.recordCounter.WithLabelValues(labels["dataset"], labels["kind"]).Add(delta)

	case "wbetl_pages_total":
		b.pageCounter.WithLabelValues(labels["dataset"]).Add(delta)

	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveDuration(name string, seconds float64, labels metrics.Labels) {
	if name != "wbetl_stage_duration_seconds" {
		return
	}
	b.stageDuration.WithLabelValues(labels["dataset"], labels["stage"], labels["status"]).Observe(seconds)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
