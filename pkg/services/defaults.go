package services

// BuiltinLookupKeyFallbacks maps specialized built-in keys to their base keys.
func BuiltinLookupKeyFallbacks() map[string]string {
	return map[string]string{
		LookupKeyInteger:         LookupKeyNumber,
		LookupKeyCurrency:        LookupKeyNumber,
		LookupKeyPercentage:      LookupKeyNumber,
		LookupKeyCaseInsensitive: LookupKeyString,
		LookupKeyTotalDays:       LookupKeyInteger,
		LookupKeyUppercase:       LookupKeyString,
	}
}

// NewDefaultRegistry wires every built-in service around the given cultures.
// Cultures without an explicit fallback get one derived from their language tag.
func NewDefaultRegistry(cultures ...CultureConfig) *Registry {
	conditions, err := NewConditionTypes(BuiltinConditions()...)
	if err != nil {
		// Built-in descriptors are unique.
		panic(err)
	}

	return &Registry{
		Cultures:           NewCultureRegistry(cultures...).WithDerivedFallbacks(),
		LookupKeyFallbacks: NewLookupKeyFallbacks(BuiltinLookupKeyFallbacks()),
		Identifiers:        NewIdentifierRegistry(BuiltinIdentifiers()...),
		Converters:         NewConverterRegistry(BuiltinConverters()...),
		Comparers:          NewComparerRegistry(BuiltinComparers()...),
		Formatters:         NewFormatterRegistry(BuiltinFormatters()...),
		Parsers:            NewParserRegistry(BuiltinParsers()...),
		Localizer:          NewTextLocalizer(nil),
		Conditions:         conditions,
	}
}
