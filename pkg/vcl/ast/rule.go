package ast

// RuleSeverity is the runtime severity a rule reports when its condition fails.
type RuleSeverity string

const (
	RuleSeverityError   RuleSeverity = "error"
	RuleSeveritySevere  RuleSeverity = "severe"
	RuleSeverityWarning RuleSeverity = "warning"
)

// IsValid reports whether s is a known rule severity. The empty value is valid
// and means "error".
func (s RuleSeverity) IsValid() bool {
	switch s {
	case "", RuleSeverityError, RuleSeveritySevere, RuleSeverityWarning:
		return true
	}
	return false
}

// Rule attaches a condition to a field and describes the message shown when
// the condition is not satisfied.
type Rule struct {
	ErrorCode          string       // Identifies the rule; defaults to the condition type
	Severity           RuleSeverity // Runtime severity
	Enabled            *bool        // nil means enabled
	Condition          *Condition   // Condition evaluated by the rule
	ErrorMessage       string       // Message template for the error
	ErrorMessageL10n   string       // Localization key for ErrorMessage
	SummaryMessage     string       // Message template for validation summaries
	SummaryMessageL10n string       // Localization key for SummaryMessage
	Location           Location     // Source location
}

// EffectiveErrorCode returns ErrorCode, or the condition type when ErrorCode is unset.
func (r *Rule) EffectiveErrorCode() string {
	if r.ErrorCode != "" {
		return r.ErrorCode
	}
	if r.Condition != nil {
		return r.Condition.Type
	}
	return ""
}

// IsEnabled returns true unless the rule is explicitly disabled.
func (r *Rule) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}
