package services

import (
	"errors"
	"reflect"
)

// CultureConfig describes one culture and the culture to try when a resource
// is not available for it.
type CultureConfig struct {
	CultureID         string
	FallbackCultureID string
}

// CultureService answers culture lookups.
type CultureService interface {
	// Find returns the culture, or nil when it is unknown.
	Find(cultureID string) (*CultureConfig, error)
	// ActiveCultures returns the cultures the application supports.
	ActiveCultures() []string
}

// LookupKeyFallbackService maps a lookup key to a related key, such as the
// base type of a specialized numeric key.
type LookupKeyFallbackService interface {
	// Find returns the related key, or "" when there is none.
	Find(lookupKey string) (string, error)
}

// DataTypeIdentifier recognizes values of one lookup key.
type DataTypeIdentifier interface {
	LookupKey() string
	SupportsValue(value any) bool
	// SampleValue returns a representative value, or nil if none is known.
	SampleValue() any
}

// IdentifierService finds identifiers by lookup key and infers keys from values.
type IdentifierService interface {
	// Find returns the identifier for lookupKey, or nil when none is registered.
	Find(lookupKey string) (DataTypeIdentifier, error)
	// Identify returns the lookup key of the first identifier supporting value,
	// or "" when none does.
	Identify(value any) (string, error)
}

// DataTypeConverter converts values from one lookup key to another.
type DataTypeConverter interface {
	SupportsValue(value any, sourceLookupKey, targetLookupKey string) bool
	Convert(value any, sourceLookupKey, targetLookupKey string) (any, error)
}

// ConverterService finds the converter for a value and key pair.
type ConverterService interface {
	Find(value any, sourceLookupKey, targetLookupKey string) (DataTypeConverter, error)
}

// ComparisonResult is the outcome of comparing two values.
type ComparisonResult int

const (
	Undetermined ComparisonResult = iota
	Less
	Equal
	Greater
)

// DataTypeComparer compares two values.
type DataTypeComparer interface {
	SupportsValues(a, b any, lookupKeyA, lookupKeyB string) bool
	Compare(a, b any, lookupKeyA, lookupKeyB string) (ComparisonResult, error)
}

// ComparerService finds the comparer for two values.
type ComparerService interface {
	Find(a, b any, lookupKeyA, lookupKeyB string) (DataTypeComparer, error)
}

// DataTypeFormatter turns values into culture-specific text.
type DataTypeFormatter interface {
	Supports(lookupKey, cultureID string) bool
	Format(value any, lookupKey, cultureID string) (string, error)
}

// FormatterService finds the formatter for a lookup key in one culture.
type FormatterService interface {
	Find(lookupKey, cultureID string) (DataTypeFormatter, error)
}

// DataTypeParser turns culture-specific text into values.
type DataTypeParser interface {
	Supports(lookupKey, cultureID string) bool
	Parse(text, lookupKey, cultureID string) (any, error)
}

// ParserService returns every parser compatible with a lookup key and culture.
// Parsers may overlap, so more than one can be returned.
type ParserService interface {
	Compatible(lookupKey, cultureID string) ([]DataTypeParser, error)
}

// TextLocalizerService looks up localized text for one culture without fallback.
type TextLocalizerService interface {
	Localize(cultureID, l10nKey string) (string, bool, error)
}

// KeyLister is implemented by services that can enumerate their lookup keys.
type KeyLister interface {
	LookupKeys() []string
}

// Named lets a service choose the class name reported in diagnostics.
type Named interface {
	Name() string
}

// Registry bundles the services consulted during analysis.
// Only Cultures and Conditions are required.
type Registry struct {
	Cultures           CultureService
	LookupKeyFallbacks LookupKeyFallbackService
	Identifiers        IdentifierService
	Converters         ConverterService
	Comparers          ComparerService
	Formatters         FormatterService
	Parsers            ParserService
	Localizer          TextLocalizerService
	Conditions         ConditionRegistry
}

// Validate checks that the required services are present.
func (r *Registry) Validate() error {
	var errs []error
	if r.Cultures == nil {
		errs = append(errs, errors.New("registry: culture service is required"))
	}
	if r.Conditions == nil {
		errs = append(errs, errors.New("registry: condition service is required"))
	}
	return errors.Join(errs...)
}

// KnownLookupKeys returns every lookup key the identifier and fallback
// services can enumerate.
func (r *Registry) KnownLookupKeys() []string {
	var keys []string
	for _, svc := range []any{r.Identifiers, r.LookupKeyFallbacks} {
		if lister, ok := svc.(KeyLister); ok {
			keys = append(keys, lister.LookupKeys()...)
		}
	}
	return keys
}

// NameOf returns the class name reported for a service instance: its Name()
// when it implements Named, otherwise its Go type name.
func NameOf(service any) string {
	if service == nil {
		return ""
	}
	if named, ok := service.(Named); ok {
		return named.Name()
	}
	t := reflect.TypeOf(service)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
