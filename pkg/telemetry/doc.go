// Package telemetry groups the observability packages used by valcheck.
//
// # Components
//
//   - logging: Structured logging on log/slog with run-scoped context fields
//   - metrics: Prometheus counters and histograms for analyses and lookups
//   - health: Liveness and readiness probes for watch sessions
//
// One-shot analyses log to stderr and may flush metrics to a textfile.
// Watch sessions additionally serve /metrics, /health, /ready and /version
// when a listen address is configured.
package telemetry
