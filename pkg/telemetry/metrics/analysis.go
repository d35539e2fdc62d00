package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/valcheck/pkg/config"
)

// AnalysisMetrics tracks analyses and the diagnostics they produce.
//
// Metrics:
//   - valcheck_analysis_runs_total: Analyses by status
//   - valcheck_analysis_duration_seconds: Analysis duration
//   - valcheck_analysis_diagnostics_total: Nodes carrying an issue by kind and severity
type AnalysisMetrics struct {
	runsTotal        *prometheus.CounterVec
	duration         prometheus.Histogram
	diagnosticsTotal *prometheus.CounterVec
}

// NewAnalysisMetrics creates and registers analysis metrics with the provided registry.
func NewAnalysisMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *AnalysisMetrics {
	am := &AnalysisMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of configuration analyses",
			},
			[]string{"status"},
		),

		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "duration_seconds",
				Help:      "Duration of configuration analysis in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),

		diagnosticsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "diagnostics_total",
				Help:      "Total number of diagnostic nodes carrying an issue",
			},
			[]string{"kind", "severity"},
		),
	}

	registry.MustRegister(
		am.runsTotal,
		am.duration,
		am.diagnosticsTotal,
	)

	return am
}

// RecordAnalysis records one analysis.
func (am *AnalysisMetrics) RecordAnalysis(status string, duration time.Duration) {
	am.runsTotal.WithLabelValues(status).Inc()
	am.duration.Observe(duration.Seconds())
}

// RecordDiagnostic records one diagnostic.
func (am *AnalysisMetrics) RecordDiagnostic(kind, severity string) {
	am.diagnosticsTotal.WithLabelValues(kind, severity).Inc()
}
