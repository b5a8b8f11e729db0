package config

import "github.com/prometheus/client_golang/prometheus"

// Metrics owns a private prometheus.Registry (not the global default
// registry) so multiple engine instances can coexist in one process —
// notably in tests — without colliding on metric names (SPEC_FULL.md
// §4.10). It exposes the two liveness gauges registry.GraphRegistry
// and registry.JobRegistry publish.
type Metrics struct {
	Registry *prometheus.Registry

	GraphsLive prometheus.Gauge
	JobsLive   prometheus.Gauge
}

// NewMetrics constructs a Metrics instance with both liveness gauges
// already registered against its private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	graphsLive := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "graphengine_graphs_live",
		Help: "Number of graphs currently held by the graph registry.",
	})
	jobsLive := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "graphengine_jobs_live",
		Help: "Number of computation jobs currently held by the job registry.",
	})

	registry.MustRegister(graphsLive, jobsLive)

	return &Metrics{Registry: registry, GraphsLive: graphsLive, JobsLive: jobsLive}
}
