package config

import (
	"time"

	"mercator-hq/valcheck/pkg/analysis/lookupkeys"
	"mercator-hq/valcheck/pkg/analysis/report"
)

// Config is the root configuration structure for valcheck. It describes the
// services an analysis runs against, how reports are rendered, telemetry and
// watch mode. It does not describe the validation configurations being
// analyzed; those are loaded by package parser.
type Config struct {
	// Analysis contains the cultures, lookup-key remaps, sample values and
	// localized texts the analyzer uses.
	Analysis AnalysisConfig `yaml:"analysis"`

	// Output controls report rendering and the exit status.
	Output OutputConfig `yaml:"output"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Watch contains configuration for watch mode.
	Watch WatchConfig `yaml:"watch"`
}

// AnalysisConfig describes the services the analyzer consults.
type AnalysisConfig struct {
	// Cultures are the active cultures in order.
	// Default: [{id: "en"}]
	Cultures []CultureConfig `yaml:"cultures"`

	// ExplicitFallbacksOnly disables deriving a culture's fallback from its
	// language tag ("en-GB" falling back to "en").
	// Default: false
	ExplicitFallbacksOnly bool `yaml:"explicit_fallbacks_only"`

	// LookupKeyFallbacks maps a lookup key to the related key tried when no
	// service handles it. Merged over the built-in remaps.
	LookupKeyFallbacks map[string]string `yaml:"lookup_key_fallbacks"`

	// SampleValues supplies sample values by field name or lookup key.
	SampleValues lookupkeys.SampleValues `yaml:"sample_values"`

	// Localization maps culture id to localization key to text.
	Localization map[string]map[string]string `yaml:"localization"`

	// MaxConditionDepth limits condition nesting.
	// Default: 8
	MaxConditionDepth int `yaml:"max_condition_depth"`
}

// CultureConfig declares one culture.
type CultureConfig struct {
	// ID is a BCP 47 language tag such as "en-GB".
	ID string `yaml:"id"`

	// Fallback is the culture consulted when a service has nothing for ID.
	Fallback string `yaml:"fallback"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	// Format is "text", "json" or "sarif".
	// Default: "text"
	Format string `yaml:"format"`

	// Color is "auto", "always" or "never".
	// Default: "auto"
	Color string `yaml:"color"`

	// Indent pretty-prints JSON and SARIF.
	// Default: false
	Indent bool `yaml:"indent"`

	// IncludeTree attaches the raw diagnostic tree to JSON reports.
	// Default: false
	IncludeTree bool `yaml:"include_tree"`

	// MinSeverity hides diagnostics below it: "info", "warning" or "error".
	// Default: "info"
	MinSeverity string `yaml:"min_severity"`

	// Strict makes warnings fail the run.
	// Default: false
	Strict bool `yaml:"strict"`

	// Queries are named searches run against every analyzed configuration.
	Queries []report.Query `yaml:"queries"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn" or "error".
	// Default: "warn"
	Level string `yaml:"level"`

	// Format is "text" or "json".
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "valcheck"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "analysis"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for analysis duration (seconds).
	// Default: [0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1]
	DurationBuckets []float64 `yaml:"duration_buckets"`

	// TextfilePath, when set, receives the metrics in text exposition
	// format after each run (node_exporter textfile collector).
	TextfilePath string `yaml:"textfile_path"`

	// ListenAddress, when set, serves /metrics in watch mode.
	ListenAddress string `yaml:"listen_address"`
}

// WatchConfig contains watch mode configuration.
type WatchConfig struct {
	// Debounce is how long to wait after the last change before re-analyzing.
	// Default: 300ms
	Debounce time.Duration `yaml:"debounce"`

	// Extensions lists the file extensions that trigger re-analysis.
	// Default: [".yaml", ".yml", ".toml"]
	Extensions []string `yaml:"extensions"`
}
