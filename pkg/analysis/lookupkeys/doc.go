// Package lookupkeys resolves lookup keys against the registered services.
//
// A lookup key names a data type ("Integer", "Date", "Currency"). Analysis
// asks each service family whether it can serve the key: identifiers,
// converters and comparers answer once, while formatters and parsers answer
// per active culture, walking each culture's fallback chain (en-GB, then en)
// until one culture succeeds. Cycles in fallback chains terminate because a
// culture is never visited twice.
//
// When no culture succeeds, the outcome is marked NotFound and TryFallback.
// The caller may then retry once with the key's remap (Currency to Number);
// the retry itself never triggers another retry.
//
// Converters and comparers are looked up with sample values. SampleResolver
// finds them from explicit samples, identifier samples and remaps.
package lookupkeys
