// Package config provides configuration management for valcheck.
//
// The tool configuration describes the environment an analysis runs in: the
// active cultures and their fallbacks, extra lookup-key remaps, sample
// values, localized texts, report rendering, telemetry and watch mode. The
// validation configurations being analyzed are a separate input handled by
// package parser.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("valcheck.yaml")
//	cfg, err := config.LoadConfigWithEnvOverrides("valcheck.yaml")
//	cfg, err := config.LoadConfigWithEnvOverrides("") // defaults + environment
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention VALCHECK_SECTION_FIELD:
//
//   - VALCHECK_ANALYSIS_CULTURES=en,fr-FR overrides analysis.cultures
//   - VALCHECK_OUTPUT_FORMAT=sarif overrides output.format
//   - VALCHECK_TELEMETRY_LOGGING_LEVEL=debug overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	analysis:
//	  cultures:
//	    - id: en
//	    - id: fr-CA
//	      fallback: fr
//	    - id: fr
//	  lookup_key_fallbacks:
//	    Money: Currency
//	  sample_values:
//	    by_lookup_key:
//	      Money: 12.5
//	  localization:
//	    fr:
//	      QuantityLabel: Quantité
//
//	output:
//	  format: text
//	  strict: true
//	  queries:
//	    - name: unresolved lookup keys
//	      criteria:
//	        kinds: [lookupKey]
//	        severities: [error]
package config
