package services

import (
	"fmt"
	"sort"
	"sync"
)

// Condition property names shared by the built-in condition types.
const (
	PropValueHostName             = "value_host_name"
	PropSecondValueHostName       = "second_value_host_name"
	PropSecondValue               = "second_value"
	PropMinimum                   = "minimum"
	PropMaximum                   = "maximum"
	PropExpression                = "expression"
	PropIgnoreCase                = "ignore_case"
	PropConversionLookupKey       = "conversion_lookup_key"
	PropSecondConversionLookupKey = "second_conversion_lookup_key"
	PropComparerLookupKey         = "comparer_lookup_key"
)

// ConditionDescriptor describes the properties and nesting a condition type
// accepts.
type ConditionDescriptor struct {
	Type        string
	Description string

	// Composite conditions evaluate child conditions. MaxChildren 0 means
	// unlimited.
	Composite   bool
	MinChildren int
	MaxChildren int

	// Required properties must be present and non-empty.
	Required []string
	// AtLeastOne lists groups in which at least one property must be present.
	AtLeastOne [][]string
	// Exclusive lists property pairs that cannot both be present.
	Exclusive [][2]string
	// Optional properties are accepted without further checks.
	Optional []string
	// ValueHostProperties name other fields of the configuration.
	ValueHostProperties []string
	// ConversionProperties hold lookup keys of converters applied before comparing.
	ConversionProperties []string
	// RegexProperties must compile as regular expressions.
	RegexProperties []string
	// NumericProperties must hold numbers.
	NumericProperties []string
	// CompareProperties hold literal values compared against the field value.
	CompareProperties []string
	// ComparesFields is set when the condition compares against
	// PropSecondValueHostName.
	ComparesFields bool
}

// Properties returns every property name the descriptor mentions, sorted.
func (d *ConditionDescriptor) Properties() []string {
	seen := make(map[string]bool)
	add := func(names ...string) {
		for _, n := range names {
			seen[n] = true
		}
	}
	add(d.Required...)
	for _, group := range d.AtLeastOne {
		add(group...)
	}
	for _, pair := range d.Exclusive {
		add(pair[0], pair[1])
	}
	add(d.Optional...)
	add(d.ValueHostProperties...)
	add(d.ConversionProperties...)
	add(d.RegexProperties...)
	add(d.NumericProperties...)
	add(d.CompareProperties...)

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ConditionRegistry resolves condition types to descriptors.
type ConditionRegistry interface {
	// Find returns the descriptor, or nil for an unregistered type.
	Find(conditionType string) *ConditionDescriptor
	// Types returns the registered type names.
	Types() []string
}

// ConditionTypes is an in-memory ConditionRegistry.
type ConditionTypes struct {
	mu          sync.RWMutex
	descriptors map[string]*ConditionDescriptor
}

// NewConditionTypes creates a registry holding descriptors.
func NewConditionTypes(descriptors ...*ConditionDescriptor) (*ConditionTypes, error) {
	r := &ConditionTypes{descriptors: make(map[string]*ConditionDescriptor, len(descriptors))}
	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a descriptor. Registering a type twice is an error.
func (r *ConditionTypes) Register(d *ConditionDescriptor) error {
	if d == nil || d.Type == "" {
		return fmt.Errorf("condition descriptor must have a type")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.descriptors[d.Type]; exists {
		return fmt.Errorf("condition type %q is already registered", d.Type)
	}
	r.descriptors[d.Type] = d
	return nil
}

func (r *ConditionTypes) Find(conditionType string) *ConditionDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.descriptors[conditionType]
}

func (r *ConditionTypes) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.descriptors))
	for t := range r.descriptors {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func compareToValue(conditionType, description string) *ConditionDescriptor {
	return &ConditionDescriptor{
		Type:                 conditionType,
		Description:          description,
		Required:             []string{PropSecondValue},
		Optional:             []string{PropComparerLookupKey},
		ValueHostProperties:  []string{PropValueHostName},
		ConversionProperties: []string{PropConversionLookupKey},
		CompareProperties:    []string{PropSecondValue},
	}
}

func compareToField(conditionType, description string) *ConditionDescriptor {
	return &ConditionDescriptor{
		Type:                 conditionType,
		Description:          description,
		Required:             []string{PropSecondValueHostName},
		Optional:             []string{PropComparerLookupKey},
		ValueHostProperties:  []string{PropValueHostName, PropSecondValueHostName},
		ConversionProperties: []string{PropConversionLookupKey, PropSecondConversionLookupKey},
		ComparesFields:       true,
	}
}

// BuiltinConditions returns the descriptors of the built-in condition types.
func BuiltinConditions() []*ConditionDescriptor {
	return []*ConditionDescriptor{
		{
			Type:                "requireText",
			Description:         "Value must be non-empty text",
			ValueHostProperties: []string{PropValueHostName},
		},
		{
			Type:                "dataTypeCheck",
			Description:         "Input must parse into the field's data type",
			ValueHostProperties: []string{PropValueHostName},
		},
		{
			Type:                 "regExp",
			Description:          "Value must match a regular expression",
			Required:             []string{PropExpression},
			Optional:             []string{PropIgnoreCase},
			ValueHostProperties:  []string{PropValueHostName},
			ConversionProperties: []string{PropConversionLookupKey},
			RegexProperties:      []string{PropExpression},
		},
		{
			Type:                 "range",
			Description:          "Value must lie between minimum and maximum",
			Required:             []string{PropMinimum, PropMaximum},
			Optional:             []string{PropComparerLookupKey},
			ValueHostProperties:  []string{PropValueHostName},
			ConversionProperties: []string{PropConversionLookupKey},
			CompareProperties:    []string{PropMinimum, PropMaximum},
		},
		{
			Type:                 "stringLength",
			Description:          "Text length must lie within the limits",
			AtLeastOne:           [][]string{{PropMinimum, PropMaximum}},
			ValueHostProperties:  []string{PropValueHostName},
			ConversionProperties: []string{PropConversionLookupKey},
			NumericProperties:    []string{PropMinimum, PropMaximum},
		},
		compareToValue("equalToValue", "Value must equal second_value"),
		compareToValue("notEqualToValue", "Value must differ from second_value"),
		compareToValue("lessThanValue", "Value must be less than second_value"),
		compareToValue("greaterThanValue", "Value must be greater than second_value"),
		compareToField("equalTo", "Value must equal another field"),
		compareToField("notEqualTo", "Value must differ from another field"),
		compareToField("lessThan", "Value must be less than another field"),
		compareToField("greaterThan", "Value must be greater than another field"),
		{
			Type:        "all",
			Description: "Every child condition must succeed",
			Composite:   true,
			MinChildren: 1,
		},
		{
			Type:        "any",
			Description: "At least one child condition must succeed",
			Composite:   true,
			MinChildren: 1,
		},
		{
			Type:        "not",
			Description: "Inverts its single child condition",
			Composite:   true,
			MinChildren: 1,
			MaxChildren: 1,
		},
		{
			Type:              "countMatches",
			Description:       "The number of succeeding children must lie within the limits",
			Composite:         true,
			MinChildren:       1,
			AtLeastOne:        [][]string{{PropMinimum, PropMaximum}},
			NumericProperties: []string{PropMinimum, PropMaximum},
		},
	}
}
