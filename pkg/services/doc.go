// Package services defines the narrow service contracts consulted while
// analyzing a validation configuration, together with in-memory
// implementations and the built-in data types.
//
// The contracts mirror the services a runtime validation engine installs:
// cultures with fallback chains, lookup-key remaps, data-type identifiers,
// converters, comparers, formatters, parsers, text localization and the
// condition-type registry. Analysis only asks these services whether they can
// serve a lookup key; it never validates real input.
//
// # Built-ins
//
// NewDefaultRegistry wires:
//
//   - identifiers for String, Boolean, Integer, Number and Date
//   - formatters and parsers built on golang.org/x/text (number, currency,
//     percentage, case mapping)
//   - converters between Integer/Currency/Percentage and Number, String and
//     CaseInsensitive, Date and TotalDays
//   - remaps from specialized keys to their base key
//   - the built-in condition types (requireText, regExp, range, the compare
//     families and the all/any/not/countMatches composites)
//
// Culture fallbacks missing from the configuration are derived from the
// BCP 47 tag, so "en-GB" falls back to "en" when both are registered.
package services
