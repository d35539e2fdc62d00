package config

import "time"

// Default values for configuration fields.
const (
	// Analysis defaults
	DefaultCulture           = "en"
	DefaultMaxConditionDepth = 8

	// Output defaults
	DefaultOutputFormat = "text"
	DefaultColor        = "auto"
	DefaultMinSeverity  = "info"

	// Telemetry defaults
	DefaultLoggingLevel     = "warn"
	DefaultLoggingFormat    = "text"
	DefaultMetricsNamespace = "valcheck"
	DefaultMetricsSubsystem = "analysis"

	// Watch defaults
	DefaultWatchDebounce = 300 * time.Millisecond
)

// DefaultDurationBuckets are the analysis duration histogram buckets. An
// analysis is a single in-memory pass, so they stay well below a second.
var DefaultDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

// DefaultWatchExtensions are the extensions of analyzable files.
var DefaultWatchExtensions = []string{".yaml", ".yml", ".toml"}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in zero-valued fields with their defaults. Values that
// are already set are left alone.
func ApplyDefaults(cfg *Config) {
	applyAnalysisDefaults(&cfg.Analysis)
	applyOutputDefaults(&cfg.Output)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyWatchDefaults(&cfg.Watch)
}

func applyAnalysisDefaults(cfg *AnalysisConfig) {
	if len(cfg.Cultures) == 0 {
		cfg.Cultures = []CultureConfig{{ID: DefaultCulture}}
	}
	if cfg.MaxConditionDepth == 0 {
		cfg.MaxConditionDepth = DefaultMaxConditionDepth
	}
}

func applyOutputDefaults(cfg *OutputConfig) {
	if cfg.Format == "" {
		cfg.Format = DefaultOutputFormat
	}
	if cfg.Color == "" {
		cfg.Color = DefaultColor
	}
	if cfg.MinSeverity == "" {
		cfg.MinSeverity = DefaultMinSeverity
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Metrics.DurationBuckets) == 0 {
		cfg.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
}

func applyWatchDefaults(cfg *WatchConfig) {
	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultWatchDebounce
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = append([]string(nil), DefaultWatchExtensions...)
	}
}
