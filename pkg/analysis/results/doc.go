// Package results defines the diagnostic tree produced by analyzing a
// validation configuration.
//
// The tree has two kinds of roots. Field results mirror the configuration
// (field, rules, conditions and their properties). Lookup-key records hold
// one entry per distinct lookup key with the outcome of every service asked
// to resolve it (identifier, converter, comparer, formatter and parser, the
// last two broken down per culture).
//
// Every node embeds Issue, so callers can read a node's severity and message
// without knowing its concrete type. Use package search to query the tree.
package results
