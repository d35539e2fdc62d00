package ast

// FieldKind describes how a field's value is produced.
type FieldKind string

const (
	FieldKindInput  FieldKind = "input"  // Edited by the user, parsed from text
	FieldKindStatic FieldKind = "static" // Supplied by the application
	FieldKindCalc   FieldKind = "calc"   // Computed from other fields
)

// IsValid reports whether k is one of the known field kinds.
func (k FieldKind) IsValid() bool {
	switch k {
	case FieldKindInput, FieldKindStatic, FieldKindCalc:
		return true
	}
	return false
}

// Field is a named data field with an optional data type lookup key and the
// rules that validate it.
type Field struct {
	Name             string     // Unique field name
	Kind             FieldKind  // Field kind (default: input)
	DataType         string     // Data type lookup key (e.g. "Integer")
	Label            string     // Display label, also used by the {Label} token
	LabelL10n        string     // Localization key for Label
	ParserLookupKey  string     // Lookup key used to parse text input (defaults to DataType)
	EnablerCondition *Condition // Condition that must hold for the field to be validated
	Rules            []*Rule    // Validation rules in evaluation order
	Location         Location   // Source location
}

// EffectiveKind returns the field kind, defaulting to input.
func (f *Field) EffectiveKind() FieldKind {
	if f.Kind == "" {
		return FieldKindInput
	}
	return f.Kind
}

// AcceptsInput returns true if the field's value comes from parsed user input.
func (f *Field) AcceptsInput() bool {
	return f.EffectiveKind() == FieldKindInput
}

// HasRules returns true if the field declares at least one rule.
func (f *Field) HasRules() bool {
	return len(f.Rules) > 0
}
