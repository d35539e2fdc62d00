package config

import (
	"fmt"
	"sort"
	"strings"

	"mercator-hq/valcheck/pkg/analysis/report"
	"mercator-hq/valcheck/pkg/analysis/results"
	"mercator-hq/valcheck/pkg/services"
	"mercator-hq/valcheck/pkg/telemetry/logging"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "output.format").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateAnalysis(&cfg.Analysis)...)
	errs = append(errs, validateOutput(&cfg.Output)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateAnalysis validates the analysis configuration.
func validateAnalysis(cfg *AnalysisConfig) []FieldError {
	var errs []FieldError

	if len(cfg.Cultures) == 0 {
		errs = append(errs, FieldError{
			Field:   "analysis.cultures",
			Message: "at least one culture must be configured",
		})
	}

	seen := make(map[string]bool, len(cfg.Cultures))
	for i, c := range cfg.Cultures {
		field := fmt.Sprintf("analysis.cultures[%d]", i)
		if err := services.ValidateCultureID(c.ID); err != nil {
			errs = append(errs, FieldError{Field: field + ".id", Message: err.Error()})
			continue
		}
		key := strings.ToLower(c.ID)
		if seen[key] {
			errs = append(errs, FieldError{
				Field:   field + ".id",
				Message: fmt.Sprintf("culture %q is declared more than once", c.ID),
			})
		}
		seen[key] = true

		if c.Fallback == "" {
			continue
		}
		if err := services.ValidateCultureID(c.Fallback); err != nil {
			errs = append(errs, FieldError{Field: field + ".fallback", Message: err.Error()})
		} else if strings.EqualFold(c.Fallback, c.ID) {
			errs = append(errs, FieldError{
				Field:   field + ".fallback",
				Message: "a culture cannot fall back to itself",
			})
		}
	}

	keys := make([]string, 0, len(cfg.LookupKeyFallbacks))
	for key := range cfg.LookupKeyFallbacks {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		related := cfg.LookupKeyFallbacks[key]
		if strings.TrimSpace(key) == "" || strings.TrimSpace(related) == "" {
			errs = append(errs, FieldError{
				Field:   "analysis.lookup_key_fallbacks",
				Message: fmt.Sprintf("mapping %q -> %q has an empty side", key, related),
			})
		} else if strings.EqualFold(strings.TrimSpace(key), strings.TrimSpace(related)) {
			errs = append(errs, FieldError{
				Field:   "analysis.lookup_key_fallbacks." + key,
				Message: "a lookup key cannot fall back to itself",
			})
		}
	}

	cultures := make([]string, 0, len(cfg.Localization))
	for culture := range cfg.Localization {
		cultures = append(cultures, culture)
	}
	sort.Strings(cultures)
	for _, culture := range cultures {
		if err := services.ValidateCultureID(culture); err != nil {
			errs = append(errs, FieldError{Field: "analysis.localization." + culture, Message: err.Error()})
		}
	}

	if cfg.MaxConditionDepth < 1 {
		errs = append(errs, FieldError{
			Field:   "analysis.max_condition_depth",
			Message: "max condition depth must be at least 1",
		})
	}

	return errs
}

// validateOutput validates the output configuration.
func validateOutput(cfg *OutputConfig) []FieldError {
	var errs []FieldError

	if _, err := report.ParseFormat(cfg.Format); err != nil {
		errs = append(errs, FieldError{Field: "output.format", Message: err.Error()})
	}

	switch cfg.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, FieldError{
			Field:   "output.color",
			Message: fmt.Sprintf("color must be auto, always or never, got %q", cfg.Color),
		})
	}

	if sev := results.Severity(cfg.MinSeverity); sev == results.SeverityNone || !sev.IsValid() {
		errs = append(errs, FieldError{
			Field:   "output.min_severity",
			Message: fmt.Sprintf("min severity must be info, warning or error, got %q", cfg.MinSeverity),
		})
	}

	names := make(map[string]bool, len(cfg.Queries))
	for i, q := range cfg.Queries {
		field := fmt.Sprintf("output.queries[%d]", i)
		if strings.TrimSpace(q.Name) == "" {
			errs = append(errs, FieldError{Field: field + ".name", Message: "query name is required"})
		} else if names[q.Name] {
			errs = append(errs, FieldError{
				Field:   field + ".name",
				Message: fmt.Sprintf("query %q is declared more than once", q.Name),
			})
		}
		names[q.Name] = true

		if err := q.Criteria.Validate(); err != nil {
			errs = append(errs, FieldError{Field: field + ".criteria", Message: err.Error()})
		}
	}

	return errs
}

// validateTelemetry validates the telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, FieldError{Field: "telemetry.logging.level", Message: err.Error()})
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("log format must be text or json, got %q", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Namespace == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.namespace",
			Message: "namespace is required when metrics are enabled",
		})
	}
	for i := 1; i < len(cfg.Metrics.DurationBuckets); i++ {
		if cfg.Metrics.DurationBuckets[i] <= cfg.Metrics.DurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.duration_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	return errs
}

// validateWatch validates the watch configuration.
func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: "debounce must not be negative",
		})
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("watch.extensions[%d]", i),
				Message: fmt.Sprintf("extension %q must start with a dot", ext),
			})
		}
	}

	return errs
}
