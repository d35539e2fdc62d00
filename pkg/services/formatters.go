package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter is a DataTypeFormatter for a set of lookup keys. A nil culture
// set accepts every culture with a well-formed id.
type Formatter struct {
	name     string
	keys     map[string]bool
	cultures map[string]bool
	format   func(value any, lookupKey, cultureID string) (string, error)
}

// NewFormatter creates a formatter for keys. cultures restricts the supported
// cultures; pass nil to support all of them.
func NewFormatter(name string, keys, cultures []string, format func(any, string, string) (string, error)) *Formatter {
	f := &Formatter{name: name, keys: make(map[string]bool, len(keys)), format: format}
	for _, k := range keys {
		f.keys[k] = true
	}
	if cultures != nil {
		f.cultures = make(map[string]bool, len(cultures))
		for _, c := range cultures {
			f.cultures[strings.ToLower(c)] = true
		}
	}
	return f
}

func (f *Formatter) Name() string { return f.name }

func (f *Formatter) Supports(lookupKey, cultureID string) bool {
	if !f.keys[lookupKey] {
		return false
	}
	if f.cultures == nil {
		return ValidateCultureID(cultureID) == nil
	}
	return f.cultures[strings.ToLower(cultureID)]
}

func (f *Formatter) Format(value any, lookupKey, cultureID string) (string, error) {
	if !f.Supports(lookupKey, cultureID) {
		return "", fmt.Errorf("%s does not support %s in culture %s", f.name, lookupKey, cultureID)
	}
	return f.format(value, lookupKey, cultureID)
}

// FormatterRegistry is an in-memory FormatterService returning the first
// formatter that supports a key in a culture.
type FormatterRegistry struct {
	formatters []DataTypeFormatter
}

func NewFormatterRegistry(formatters ...DataTypeFormatter) *FormatterRegistry {
	return &FormatterRegistry{formatters: formatters}
}

func (r *FormatterRegistry) Find(lookupKey, cultureID string) (DataTypeFormatter, error) {
	for _, f := range r.formatters {
		if f.Supports(lookupKey, cultureID) {
			return f, nil
		}
	}
	return nil, nil
}

var booleanWords = map[string][2]string{
	"en": {"yes", "no"},
	"fr": {"oui", "non"},
	"de": {"ja", "nein"},
	"es": {"sí", "no"},
}

var dateLayouts = map[string]string{
	"en":    "2006-01-02",
	"en-us": "01/02/2006",
	"en-gb": "02/01/2006",
	"fr":    "02/01/2006",
	"de":    "02.01.2006",
	"es":    "02/01/2006",
}

var currencyUnits = map[string]currency.Unit{
	"en-us": currency.USD,
	"en-gb": currency.GBP,
	"fr-fr": currency.EUR,
	"de-de": currency.EUR,
	"es-es": currency.EUR,
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// BuiltinFormatters returns formatters for the built-in keys. Number,
// Integer and Percentage support every culture; Boolean, Date and Currency
// only the cultures in their tables, so regional cultures reach them
// through culture fallback.
func BuiltinFormatters() []DataTypeFormatter {
	return []DataTypeFormatter{
		NewFormatter("StringFormatter", []string{LookupKeyString}, nil,
			func(v any, _, _ string) (string, error) {
				return fmt.Sprint(v), nil
			}),
		NewFormatter("UppercaseFormatter", []string{LookupKeyUppercase}, nil,
			func(v any, _, culture string) (string, error) {
				return cases.Upper(cultureTag(culture)).String(fmt.Sprint(v)), nil
			}),
		NewFormatter("NumberFormatter", []string{LookupKeyNumber, LookupKeyInteger}, nil,
			func(v any, key, culture string) (string, error) {
				f, ok := toFloat(v)
				if !ok {
					return "", fmt.Errorf("NumberFormatter: %T is not a number", v)
				}
				p := message.NewPrinter(cultureTag(culture))
				if key == LookupKeyInteger {
					return p.Sprint(number.Decimal(int64(f))), nil
				}
				return p.Sprint(number.Decimal(f)), nil
			}),
		NewFormatter("PercentageFormatter", []string{LookupKeyPercentage}, nil,
			func(v any, _, culture string) (string, error) {
				f, ok := toFloat(v)
				if !ok {
					return "", fmt.Errorf("PercentageFormatter: %T is not a number", v)
				}
				return message.NewPrinter(cultureTag(culture)).Sprint(number.Percent(f)), nil
			}),
		NewFormatter("CurrencyFormatter", []string{LookupKeyCurrency}, mapKeys(currencyUnits),
			func(v any, _, culture string) (string, error) {
				f, ok := toFloat(v)
				if !ok {
					return "", fmt.Errorf("CurrencyFormatter: %T is not a number", v)
				}
				unit := currencyUnits[strings.ToLower(culture)]
				return message.NewPrinter(cultureTag(culture)).Sprint(currency.Symbol(unit.Amount(f))), nil
			}),
		NewFormatter("BooleanFormatter", []string{LookupKeyBoolean}, mapKeys(booleanWords),
			func(v any, _, culture string) (string, error) {
				b, ok := v.(bool)
				if !ok {
					return "", fmt.Errorf("BooleanFormatter: %T is not a bool", v)
				}
				words := booleanWords[strings.ToLower(culture)]
				if b {
					return words[0], nil
				}
				return words[1], nil
			}),
		NewFormatter("DateFormatter", []string{LookupKeyDate}, mapKeys(dateLayouts),
			func(v any, _, culture string) (string, error) {
				t, ok := toTime(v)
				if !ok {
					return "", fmt.Errorf("DateFormatter: %T is not a time", v)
				}
				return t.Format(dateLayouts[strings.ToLower(culture)]), nil
			}),
	}
}
