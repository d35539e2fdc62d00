package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/valcheck/pkg/config"
)

// Analysis statuses.
const (
	StatusClean    = "clean"
	StatusWarnings = "warnings"
	StatusErrors   = "errors"
	StatusFailed   = "failed"
)

// Collector is the main orchestrator for all Prometheus metrics in valcheck.
// It manages metric registration and provides a unified interface for
// recording analyses, their diagnostics and the lookups they perform.
//
// A nil or disabled Collector records nothing, so callers never need to
// check whether metrics are enabled.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	analysisMetrics *AnalysisMetrics
	lookupMetrics   *LookupMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is used.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "valcheck",
//		Subsystem: "analysis",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	return &Collector{
		config:          cfg,
		registry:        registry,
		analysisMetrics: NewAnalysisMetrics(cfg, registry),
		lookupMetrics:   NewLookupMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordAnalysis records a completed analysis.
//
// Parameters:
//   - status: StatusClean, StatusWarnings, StatusErrors or StatusFailed
//   - duration: Time spent analyzing
func (c *Collector) RecordAnalysis(status string, duration time.Duration) {
	if !c.enabled() {
		return
	}

	c.analysisMetrics.RecordAnalysis(status, duration)
}

// RecordDiagnostic records one node carrying an issue.
func (c *Collector) RecordDiagnostic(kind, severity string) {
	if !c.enabled() {
		return
	}

	c.analysisMetrics.RecordDiagnostic(kind, severity)
}

// ObserveLookup records the outcome of one service lookup. It lets the
// collector serve as the analyzer's lookup observer.
func (c *Collector) ObserveLookup(service, outcome string) {
	if !c.enabled() {
		return
	}

	c.lookupMetrics.RecordLookup(service, outcome)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteTextfile writes every metric in the text exposition format to path,
// for the node_exporter textfile collector. The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if !c.enabled() || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
