// Package metrics exposes coordinator metrics in the Prometheus format.
package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "pbuild"

// Outcome label values of a target build.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// PrometheusRecorder implements ports.Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry      *prom.Registry
	activeWorkers prom.Gauge
	builds        *prom.CounterVec
	buildDuration *prom.HistogramVec
	runs          *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on a fresh
// registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	pr := &PrometheusRecorder{
		registry: prom.NewRegistry(),
		activeWorkers: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "active_workers",
			Help:      "Number of workers currently building a target",
		}),
		builds: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "target_builds_total",
			Help:      "Reported target builds by outcome",
		}, []string{"outcome"}),
		buildDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "target_build_duration_seconds",
			Help:      "Time from assignment, or the previous outcome in watch mode, to a reported outcome",
			Buckets:   prom.DefBuckets,
		}, []string{"outcome"}),
		runs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Settled runs by outcome",
		}, []string{"outcome"}),
	}
	pr.registry.MustRegister(pr.activeWorkers, pr.builds, pr.buildDuration, pr.runs)
	return pr
}

// Registry returns the registry holding the recorder's metrics.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

// SetActiveWorkers reports the number of workers currently building.
func (p *PrometheusRecorder) SetActiveWorkers(n int) {
	p.activeWorkers.Set(float64(n))
}

// ObserveBuild records one reported build outcome.
func (p *PrometheusRecorder) ObserveBuild(_ string, failed bool, d time.Duration) {
	outcome := OutcomeSucceeded
	if failed {
		outcome = OutcomeFailed
	}
	p.builds.WithLabelValues(outcome).Inc()
	p.buildDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// IncRun counts a settled run.
func (p *PrometheusRecorder) IncRun(outcome string) {
	p.runs.WithLabelValues(outcome).Inc()
}
