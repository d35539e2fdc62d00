package properties

import (
	"strings"

	"mercator-hq/valcheck/pkg/analysis/results"
	"mercator-hq/valcheck/pkg/vcl/ast"
)

// Property names of fields and rules as they appear in configuration files.
const (
	PropName               = "name"
	PropKind               = "kind"
	PropDataType           = "data_type"
	PropLabel              = "label"
	PropLabelL10n          = "label_l10n"
	PropParserLookupKey    = "parser_lookup_key"
	PropRules              = "rules"
	PropSeverity           = "severity"
	PropErrorMessage       = "error_message"
	PropErrorMessageL10n   = "error_message_l10n"
	PropSummaryMessage     = "summary_message"
	PropSummaryMessageL10n = "summary_message_l10n"
	PropCondition          = "condition"
	PropType               = "type"
)

func issueNode(property string, severity results.Severity, format string, args ...any) *results.PropertyResult {
	node := &results.PropertyResult{PropertyName: property}
	node.Report(severity, format, args...)
	return node
}

// CheckField checks the scalar properties of a field.
func CheckField(field *ast.Field) []results.Node {
	var nodes []results.Node

	if strings.TrimSpace(field.Name) == "" {
		nodes = append(nodes, issueNode(PropName, results.SeverityError, "Field name is required."))
	} else if field.Name != strings.TrimSpace(field.Name) {
		nodes = append(nodes, issueNode(PropName, results.SeverityWarning,
			"Field name %q has leading or trailing whitespace.", field.Name))
	}

	if field.Kind != "" && !field.Kind.IsValid() {
		nodes = append(nodes, issueNode(PropKind, results.SeverityError,
			"Field kind %q is not one of input, static or calc.", field.Kind))
	}

	if field.Label != "" && strings.TrimSpace(field.Label) == "" {
		nodes = append(nodes, issueNode(PropLabel, results.SeverityWarning,
			"Label contains only whitespace."))
	}

	if field.HasRules() && !field.AcceptsInput() {
		nodes = append(nodes, issueNode(PropRules, results.SeverityError,
			"Only input fields can have rules; field %q is %s.", field.Name, field.EffectiveKind()))
	}
	return nodes
}

// CheckRule checks the scalar properties of a rule.
func CheckRule(rule *ast.Rule) []results.Node {
	var nodes []results.Node

	if !rule.Severity.IsValid() {
		nodes = append(nodes, issueNode(PropSeverity, results.SeverityError,
			"Rule severity %q is not one of error, severe or warning.", rule.Severity))
	}
	if rule.Condition == nil {
		nodes = append(nodes, issueNode(PropCondition, results.SeverityError,
			"Rule %q has no condition.", rule.EffectiveErrorCode()))
	}
	if strings.TrimSpace(rule.ErrorMessage) == "" && strings.TrimSpace(rule.ErrorMessageL10n) == "" {
		nodes = append(nodes, issueNode(PropErrorMessage, results.SeverityWarning,
			"Rule %q has no error message.", rule.EffectiveErrorCode()))
	}
	return nodes
}
