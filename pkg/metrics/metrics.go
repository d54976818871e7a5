// Package metrics provides Prometheus metrics for plumetab ingestion and
// pipeline runs.
//
// Counters are registered with the default registry via promauto and are
// safe for concurrent use. Typical usage:
//
//	metrics.RowsIngested.WithLabelValues(key).Add(float64(n))
//
//	timer := metrics.NewTimer()
//	frame, err := pipeline.FrameFromStore(ctx, st, opts)
//	metrics.PipelineDuration.WithLabelValues(mode).Observe(timer.Stop().Seconds())
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsIngested counts data rows written to a store, labeled by
	// simulation key.
	RowsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plumetab",
			Subsystem: "ingest",
			Name:      "rows_total",
			Help:      "Total number of data rows ingested into a store",
		},
		[]string{"simulation"},
	)

	// SimulationsWritten counts simulation records committed to a store.
	SimulationsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "plumetab",
			Subsystem: "ingest",
			Name:      "simulations_total",
			Help:      "Total number of simulation records written",
		},
	)

	// PipelineRuns counts reduction pipeline invocations by mode and outcome.
	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plumetab",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs",
		},
		[]string{"mode", "status"},
	)

	// SimulationsReduced counts simulation records folded into a result
	// frame, labeled by mode.
	SimulationsReduced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plumetab",
			Subsystem: "pipeline",
			Name:      "simulations_reduced_total",
			Help:      "Total number of simulation records reduced",
		},
		[]string{"mode"},
	)

	// PipelineDuration observes wall-clock duration of pipeline runs.
	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "plumetab",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Duration of pipeline runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"mode"},
	)
)

// Timer measures elapsed wall-clock time for a single operation.
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the elapsed time since the timer was started.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
