package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/valcheck/pkg/config"
)

// LookupMetrics tracks service lookups made while resolving lookup keys.
//
// Metrics:
//   - valcheck_analysis_lookups_total: Lookups by service and outcome
type LookupMetrics struct {
	lookupsTotal *prometheus.CounterVec
}

// NewLookupMetrics creates and registers lookup metrics with the provided registry.
func NewLookupMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *LookupMetrics {
	lm := &LookupMetrics{
		lookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "lookups_total",
				Help:      "Total number of service lookups by service and outcome",
			},
			[]string{"service", "outcome"},
		),
	}

	registry.MustRegister(lm.lookupsTotal)

	return lm
}

// RecordLookup records one lookup.
func (lm *LookupMetrics) RecordLookup(service, outcome string) {
	lm.lookupsTotal.WithLabelValues(service, outcome).Inc()
}
