// Valcheck analyzes validation configurations before they are deployed.
//
// It loads declarative validation configurations (fields, data types,
// rules and nested conditions), resolves every lookup key against the
// formatting, parsing, conversion and comparison services of each
// configured culture, and reports the problems it finds as a diagnostic
// tree.
//
// Usage:
//
//	# Analyze a file or a directory of configurations
//	valcheck analyze configs/
//
//	# Fail on warnings as well, emitting SARIF for code scanning
//	valcheck analyze --strict --format sarif configs/ > valcheck.sarif
//
//	# Search the diagnostic tree
//	valcheck query --lookup-key Currency --severity error configs/
//
//	# Re-analyze on every change, serving metrics and probes
//	valcheck watch --listen :9464 configs/
//
//	# Show version information
//	valcheck version
package main

import "os"

func main() {
	os.Exit(Execute(os.Args[1:]))
}
