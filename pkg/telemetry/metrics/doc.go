// Package metrics provides Prometheus metrics collection for valcheck.
//
// # Overview
//
// The collector counts analyses by outcome, times them, counts the nodes
// that carry an issue by kind and severity, and counts every service lookup
// made while resolving lookup keys.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	analyzer, err := cfg.NewAnalyzer(logger, collector)
//	...
//	collector.RecordAnalysis(metrics.StatusClean, time.Since(start))
//
//	// One-shot runs flush to a node_exporter textfile.
//	err = collector.WriteTextfile(cfg.Telemetry.Metrics.TextfilePath)
//
// Long-running watch sessions expose Handler on the configured listen address.
//
// A nil Collector, or one whose configuration is disabled, records nothing.
package metrics
