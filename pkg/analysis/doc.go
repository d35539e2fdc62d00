// Package analysis inspects a validation configuration against the registered
// services and produces a diagnostic tree.
//
// An Analyzer snapshots the configuration, resolves each field's data type
// (declared or inferred from a sample value), and then walks fields, rules
// and conditions. Lookup keys referenced anywhere in the configuration are
// collected once per run under Tree.LookupKeys together with the outcome of
// every identifier, converter, comparer, formatter and parser lookup.
//
// The analyzer never fails on a bad configuration: problems become nodes with
// a severity. Failures of a service, returned or panicked, become error nodes
// as well. Use package search to query the resulting tree.
package analysis
