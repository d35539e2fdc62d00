package services

import (
	"cmp"
	"fmt"
	"strings"
)

// Comparer is a DataTypeComparer for one family of Go values.
type Comparer struct {
	name    string
	accepts func(value any) bool
	compare func(a, b any) int
}

func NewComparer(name string, accepts func(any) bool, compare func(a, b any) int) *Comparer {
	return &Comparer{name: name, accepts: accepts, compare: compare}
}

func (c *Comparer) Name() string { return c.name }

func (c *Comparer) SupportsValues(a, b any, lookupKeyA, lookupKeyB string) bool {
	return a != nil && b != nil && c.accepts(a) && c.accepts(b)
}

func (c *Comparer) Compare(a, b any, lookupKeyA, lookupKeyB string) (ComparisonResult, error) {
	if !c.SupportsValues(a, b, lookupKeyA, lookupKeyB) {
		return Undetermined, fmt.Errorf("%s cannot compare %T with %T", c.name, a, b)
	}
	switch c.compare(a, b) {
	case -1:
		return Less, nil
	case 0:
		return Equal, nil
	default:
		return Greater, nil
	}
}

// ComparerRegistry is an in-memory ComparerService returning the first
// comparer supporting both values.
type ComparerRegistry struct {
	comparers []DataTypeComparer
}

func NewComparerRegistry(comparers ...DataTypeComparer) *ComparerRegistry {
	return &ComparerRegistry{comparers: comparers}
}

func (r *ComparerRegistry) Find(a, b any, lookupKeyA, lookupKeyB string) (DataTypeComparer, error) {
	for _, c := range r.comparers {
		if c.SupportsValues(a, b, lookupKeyA, lookupKeyB) {
			return c, nil
		}
	}
	return nil, nil
}

// BuiltinComparers returns comparers for numbers, strings, booleans and dates.
func BuiltinComparers() []DataTypeComparer {
	return []DataTypeComparer{
		NewComparer("NumberComparer",
			func(v any) bool {
				_, ok := toFloat(v)
				return ok
			},
			func(a, b any) int {
				fa, _ := toFloat(a)
				fb, _ := toFloat(b)
				return cmp.Compare(fa, fb)
			}),
		NewComparer("StringComparer",
			func(v any) bool {
				_, ok := v.(string)
				return ok
			},
			func(a, b any) int {
				return strings.Compare(a.(string), b.(string))
			}),
		NewComparer("BooleanComparer",
			func(v any) bool {
				_, ok := v.(bool)
				return ok
			},
			func(a, b any) int {
				if a.(bool) == b.(bool) {
					return 0
				}
				if !a.(bool) {
					return -1
				}
				return 1
			}),
		NewComparer("DateComparer",
			func(v any) bool {
				_, ok := toTime(v)
				return ok
			},
			func(a, b any) int {
				ta, _ := toTime(a)
				tb, _ := toTime(b)
				return ta.Compare(tb)
			}),
	}
}
