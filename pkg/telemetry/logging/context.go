package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for analysis run IDs.
	RunIDKey contextKey = "run_id"

	// ConfigFileKey is the context key for the configuration being analyzed.
	ConfigFileKey contextKey = "config_file"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithConfigFile adds the analyzed file to the context.
func WithConfigFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ConfigFileKey, path)
}

// GetConfigFile retrieves the analyzed file from the context.
func GetConfigFile(ctx context.Context) string {
	if path, ok := ctx.Value(ConfigFileKey).(string); ok {
		return path
	}
	return ""
}

// extractContextFields returns the context's log fields as key-value pairs.
func extractContextFields(ctx context.Context) []any {
	var fields []any
	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, string(RunIDKey), runID)
	}
	if path := GetConfigFile(ctx); path != "" {
		fields = append(fields, string(ConfigFileKey), path)
	}
	return fields
}
