// Package report turns diagnostic trees into reports and renders them as
// text, JSON or SARIF.
//
// Build flattens a tree into diagnostics (every node carrying an issue),
// counts them by severity and runs the configured named queries. Each
// diagnostic keeps its search path and the source location of the nearest
// node that has one.
package report
