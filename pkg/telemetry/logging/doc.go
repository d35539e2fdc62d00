// Package logging provides structured logging for valcheck.
//
// The package wraps log/slog with a small configuration surface (level,
// format, source locations, writer) and context helpers that attach the
// analysis run ID and configuration file to every record.
//
//	logger, err := logging.New(logging.Config{Level: "debug", Format: "json"})
//	ctx := logging.WithRunID(ctx, runID)
//	logger.WithContext(ctx).Info("configuration analyzed", "errors", 2)
//
// Logs go to stderr by default so reports written to stdout stay
// machine-readable. Use Slog to hand the underlying *slog.Logger to the
// analyzer and search packages.
package logging
