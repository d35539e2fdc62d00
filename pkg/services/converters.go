package services

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/cases"
)

// Converter is a DataTypeConverter between fixed key pairs.
type Converter struct {
	name    string
	pairs   map[[2]string]bool
	accepts func(value any) bool
	convert func(value any) (any, error)
}

// NewConverter creates a converter for the source to target pairs.
func NewConverter(name string, pairs [][2]string, accepts func(any) bool, convert func(any) (any, error)) *Converter {
	c := &Converter{name: name, pairs: make(map[[2]string]bool, len(pairs)), accepts: accepts, convert: convert}
	for _, p := range pairs {
		c.pairs[p] = true
	}
	return c
}

func (c *Converter) Name() string { return c.name }

func (c *Converter) SupportsValue(value any, sourceLookupKey, targetLookupKey string) bool {
	return c.pairs[[2]string{sourceLookupKey, targetLookupKey}] && value != nil && c.accepts(value)
}

func (c *Converter) Convert(value any, sourceLookupKey, targetLookupKey string) (any, error) {
	if !c.SupportsValue(value, sourceLookupKey, targetLookupKey) {
		return nil, fmt.Errorf("%s cannot convert %T from %s to %s", c.name, value, sourceLookupKey, targetLookupKey)
	}
	return c.convert(value)
}

// ConverterRegistry is an in-memory ConverterService returning the first
// converter supporting a request.
type ConverterRegistry struct {
	converters []DataTypeConverter
}

func NewConverterRegistry(converters ...DataTypeConverter) *ConverterRegistry {
	return &ConverterRegistry{converters: converters}
}

func (r *ConverterRegistry) Find(value any, sourceLookupKey, targetLookupKey string) (DataTypeConverter, error) {
	for _, c := range r.converters {
		if c.SupportsValue(value, sourceLookupKey, targetLookupKey) {
			return c, nil
		}
	}
	return nil, nil
}

// BuiltinConverters returns converters between the built-in keys.
func BuiltinConverters() []DataTypeConverter {
	numeric := func(v any) bool {
		_, ok := toFloat(v)
		return ok
	}
	isString := func(v any) bool {
		_, ok := v.(string)
		return ok
	}
	isTime := func(v any) bool {
		_, ok := toTime(v)
		return ok
	}
	fold := cases.Fold()

	return []DataTypeConverter{
		NewConverter("NumberConverter",
			[][2]string{
				{LookupKeyInteger, LookupKeyNumber},
				{LookupKeyCurrency, LookupKeyNumber},
				{LookupKeyPercentage, LookupKeyNumber},
			},
			numeric,
			func(v any) (any, error) {
				f, _ := toFloat(v)
				return f, nil
			}),
		NewConverter("IntegerConverter",
			[][2]string{{LookupKeyNumber, LookupKeyInteger}},
			numeric,
			func(v any) (any, error) {
				f, _ := toFloat(v)
				return int64(math.Trunc(f)), nil
			}),
		NewConverter("CaseInsensitiveConverter",
			[][2]string{{LookupKeyString, LookupKeyCaseInsensitive}},
			isString,
			func(v any) (any, error) {
				return fold.String(v.(string)), nil
			}),
		NewConverter("TotalDaysConverter",
			[][2]string{{LookupKeyDate, LookupKeyTotalDays}},
			isTime,
			func(v any) (any, error) {
				t, _ := toTime(v)
				return int64(t.Sub(time.Unix(0, 0).UTC()).Hours() / 24), nil
			}),
	}
}
