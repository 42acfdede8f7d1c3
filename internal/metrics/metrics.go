// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the ingestion job.
//
// The package is intentionally minimal and opinionated:
//
//   - It exposes a narrow interface (Backend) focused on counters and
//     duration observations.
//   - It provides a global, pluggable backend that defaults to a no-op
//     implementation, so metrics are always safe to call even when no real
//     backend is configured.
//   - It mirrors the storage abstraction pattern: the rest of the codebase
//     depends only on this interface while concrete metric systems stay
//     isolated in subpackages.
//
// The primary use is instrumentation of the pipeline stages (collect,
// transform, load, verify) without coupling core logic to a specific
// metrics system.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style value in seconds.
	ObserveDuration(name string, seconds float64, labels Labels)
	// Flush pushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)        {}
func (nopBackend) ObserveDuration(name string, seconds float64, labels Labels) {}
func (nopBackend) Flush() error                                                { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// IncCounter delegates to the current backend.
func IncCounter(name string, delta float64, labels Labels) {
	backend.IncCounter(name, delta, labels)
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStage is a convenience for the common pattern: measure latency plus
// success/failure per pipeline stage of one dataset.
func RecordStage(dataset, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"dataset": dataset,
		"stage":   stage,
		"status":  status,
	}

	backend.IncCounter("wbetl_stage_total", 1, lbls)
	backend.ObserveDuration("wbetl_stage_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments the record-level counter for the given dataset and
// kind. Typical kinds: "mapped", "dropped", "loaded".
func RecordRows(dataset, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("wbetl_records_total", float64(delta), Labels{
		"dataset": dataset,
		"kind":    kind,
	})
}
