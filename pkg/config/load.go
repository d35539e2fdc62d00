package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "VALCHECK_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention VALCHECK_SECTION_FIELD (e.g., VALCHECK_OUTPUT_FORMAT).
// Environment variables always take precedence over file-based configuration.
// An empty path starts from the defaults.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg, os.Getenv)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Malformed values are ignored and leave the field unchanged.
func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	env := func(name string) string { return getenv(EnvPrefix + name) }

	// Analysis overrides
	if val := env("ANALYSIS_CULTURES"); val != "" {
		cfg.Analysis.Cultures = nil
		for _, id := range strings.Split(val, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.Analysis.Cultures = append(cfg.Analysis.Cultures, CultureConfig{ID: id})
			}
		}
	}
	if val := env("ANALYSIS_MAX_CONDITION_DEPTH"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Analysis.MaxConditionDepth = i
		}
	}

	// Output overrides
	if val := env("OUTPUT_FORMAT"); val != "" {
		cfg.Output.Format = val
	}
	if val := env("OUTPUT_COLOR"); val != "" {
		cfg.Output.Color = val
	}
	if val := env("OUTPUT_MIN_SEVERITY"); val != "" {
		cfg.Output.MinSeverity = val
	}
	if val := env("OUTPUT_STRICT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Output.Strict = b
		}
	}

	// Telemetry overrides
	if val := env("TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := env("TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := env("TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := env("TELEMETRY_METRICS_TEXTFILE_PATH"); val != "" {
		cfg.Telemetry.Metrics.TextfilePath = val
	}

	// Watch overrides
	if val := env("WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
}
