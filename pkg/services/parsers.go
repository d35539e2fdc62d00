package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parser is a DataTypeParser for a set of lookup keys. A nil culture set
// accepts every culture with a well-formed id.
type Parser struct {
	name     string
	keys     map[string]bool
	cultures map[string]bool
	parse    func(text, lookupKey, cultureID string) (any, error)
}

func NewParser(name string, keys, cultures []string, parse func(string, string, string) (any, error)) *Parser {
	p := &Parser{name: name, keys: make(map[string]bool, len(keys)), parse: parse}
	for _, k := range keys {
		p.keys[k] = true
	}
	if cultures != nil {
		p.cultures = make(map[string]bool, len(cultures))
		for _, c := range cultures {
			p.cultures[strings.ToLower(c)] = true
		}
	}
	return p
}

func (p *Parser) Name() string { return p.name }

func (p *Parser) Supports(lookupKey, cultureID string) bool {
	if !p.keys[lookupKey] {
		return false
	}
	if p.cultures == nil {
		return ValidateCultureID(cultureID) == nil
	}
	return p.cultures[strings.ToLower(cultureID)]
}

func (p *Parser) Parse(text, lookupKey, cultureID string) (any, error) {
	if !p.Supports(lookupKey, cultureID) {
		return nil, fmt.Errorf("%s does not support %s in culture %s", p.name, lookupKey, cultureID)
	}
	return p.parse(strings.TrimSpace(text), lookupKey, cultureID)
}

// ParserRegistry is an in-memory ParserService.
type ParserRegistry struct {
	parsers []DataTypeParser
}

func NewParserRegistry(parsers ...DataTypeParser) *ParserRegistry {
	return &ParserRegistry{parsers: parsers}
}

// Compatible returns every parser supporting the key in the culture, in
// registration order.
func (r *ParserRegistry) Compatible(lookupKey, cultureID string) ([]DataTypeParser, error) {
	var matches []DataTypeParser
	for _, p := range r.parsers {
		if p.Supports(lookupKey, cultureID) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// commaDecimal lists base languages writing decimals with a comma.
var commaDecimal = map[string]bool{"fr": true, "de": true, "es": true}

func parseNumber(text, cultureID string) (float64, error) {
	base, _ := cultureTag(cultureID).Base()
	group, decimal := ",", "."
	if commaDecimal[base.String()] {
		group, decimal = ".", ","
	}
	normalized := strings.NewReplacer(group, "", " ", "", "\u00a0", "", "\u202f", "", decimal, ".").Replace(text)
	return strconv.ParseFloat(normalized, 64)
}

// BuiltinParsers returns parsers for the built-in keys. NumberParser and
// CurrencyParser both accept Currency.
func BuiltinParsers() []DataTypeParser {
	return []DataTypeParser{
		NewParser("StringParser", []string{LookupKeyString}, nil,
			func(text, _, _ string) (any, error) {
				return text, nil
			}),
		NewParser("NumberParser", []string{LookupKeyNumber, LookupKeyCurrency}, nil,
			func(text, _, culture string) (any, error) {
				return parseNumber(text, culture)
			}),
		NewParser("IntegerParser", []string{LookupKeyInteger}, nil,
			func(text, _, culture string) (any, error) {
				f, err := parseNumber(text, culture)
				if err != nil {
					return nil, err
				}
				if !isInteger(f) {
					return nil, fmt.Errorf("%q is not a whole number", text)
				}
				return int64(f), nil
			}),
		NewParser("CurrencyParser", []string{LookupKeyCurrency}, mapKeys(currencyUnits),
			func(text, _, culture string) (any, error) {
				return parseNumber(strings.Trim(text, "$£€ "), culture)
			}),
		NewParser("PercentageParser", []string{LookupKeyPercentage}, nil,
			func(text, _, culture string) (any, error) {
				f, err := parseNumber(strings.TrimSuffix(text, "%"), culture)
				if err != nil {
					return nil, err
				}
				return f / 100, nil
			}),
		NewParser("BooleanParser", []string{LookupKeyBoolean}, mapKeys(booleanWords),
			func(text, _, culture string) (any, error) {
				words := booleanWords[strings.ToLower(culture)]
				switch strings.ToLower(text) {
				case words[0], "true":
					return true, nil
				case words[1], "false":
					return false, nil
				}
				return nil, fmt.Errorf("%q is not a boolean in culture %s", text, culture)
			}),
		NewParser("DateParser", []string{LookupKeyDate}, mapKeys(dateLayouts),
			func(text, _, culture string) (any, error) {
				return time.Parse(dateLayouts[strings.ToLower(culture)], text)
			}),
	}
}
