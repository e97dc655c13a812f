// Package metrics holds the in-memory counters the core exposes (C18):
// generation/simulation/pipeline execution counts, failures, and
// durations. Exposed via prometheus/client_golang on GET /metrics
// alongside the in-memory snapshot served on GET /pipelines/metrics.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry bundles the Prometheus collectors plus a lock-guarded snapshot
// used by the plain-JSON /pipelines/metrics endpoint, which wants simple
// numbers rather than a Prometheus text scrape.
type Registry struct {
	GenerationTotal  *prometheus.CounterVec
	SimulationTotal  *prometheus.CounterVec
	PipelineTotal    *prometheus.CounterVec
	PipelineDuration prometheus.Histogram

	mu          sync.Mutex
	executions  int64
	failures    int64
	durationSum time.Duration
}

// New constructs a Registry and registers its collectors with reg.
func New(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		GenerationTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workflow_fabric_generation_total",
			Help: "Generation attempts by outcome (valid, fallback, invalid).",
		}, []string{"outcome"}),
		SimulationTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workflow_fabric_simulation_total",
			Help: "Simulation runs by outcome (success, failure).",
		}, []string{"outcome"}),
		PipelineTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "workflow_fabric_pipeline_executions_total",
			Help: "Pipeline executions by terminal status (completed, failed, partial).",
		}, []string{"status"}),
		PipelineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "workflow_fabric_pipeline_duration_seconds",
			Help:    "Pipeline execution wall-clock duration.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordPipelineExecution updates both the Prometheus collectors and the
// plain-JSON snapshot for one finished pipeline execution.
func (r *Registry) RecordPipelineExecution(status string, success bool, duration time.Duration) {
	r.PipelineTotal.WithLabelValues(status).Inc()
	r.PipelineDuration.Observe(duration.Seconds())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.executions++
	if !success {
		r.failures++
	}
	r.durationSum += duration
}

// Snapshot is the plain-JSON view served by GET /pipelines/metrics.
type Snapshot struct {
	Executions     int64   `json:"executions"`
	Failures       int64   `json:"failures"`
	AvgDurationMS  float64 `json:"avgDurationMs"`
}

// Snapshot returns the current in-memory counters.
func (r *Registry) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	avg := 0.0
	if r.executions > 0 {
		avg = float64(r.durationSum.Milliseconds()) / float64(r.executions)
	}
	return Snapshot{Executions: r.executions, Failures: r.failures, AvgDurationMS: avg}
}
