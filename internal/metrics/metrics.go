// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from a fakerfilter run.
//
// It exposes a narrow interface (Backend) focused on counters and timing data
// and a global, pluggable backend that defaults to a no-op implementation, so
// metrics are always safe to call even when no real backend is configured.
// Concrete systems (Prometheus Pushgateway, Datadog) live in subpackages.
//
// Backends must be safe for concurrent use: partitions run in parallel and
// record into the same backend.
package metrics

import "time"

// Metric names shared by all backends.
const (
	StepTotal         = "fakerfilter_step_total"
	StepDuration      = "fakerfilter_step_duration_seconds"
	RecordsTotal      = "fakerfilter_records_total"
	PagesTotal        = "fakerfilter_pages_total"
	GeneratorsCreated = "fakerfilter_generators_created_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
// Call it before any partition starts.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep measures latency + success/failure of one run step
// (e.g. "transaction", "partition").
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRows increments a record-level counter for the given job and kind.
//
// Kinds used by the filter:
//   - "processed": records visited by the dispatcher
//   - "rewritten": column values replaced by a generator
//   - "nulls_kept": targeted values that were null and stayed null
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordPages increments the page counter for the given job.
func RecordPages(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(PagesTotal, float64(delta), Labels{"job": job})
}

// RecordGenerator counts one generator instance created for locale.
func RecordGenerator(job, locale string) {
	backend.IncCounter(GeneratorsCreated, 1, Labels{
		"job":    job,
		"locale": locale,
	})
}
