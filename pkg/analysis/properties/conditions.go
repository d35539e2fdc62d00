package properties

import (
	"fmt"
	"regexp"
	"strings"

	"mercator-hq/valcheck/pkg/analysis/results"
	"mercator-hq/valcheck/pkg/services"
	"mercator-hq/valcheck/pkg/vcl/ast"
	vclerrors "mercator-hq/valcheck/pkg/vcl/errors"
)

// ConditionChecker checks condition properties against their descriptors.
type ConditionChecker struct {
	registry   services.ConditionRegistry
	fieldNames []string
}

// NewConditionChecker creates a checker. fieldNames are the names value-host
// properties may refer to.
func NewConditionChecker(registry services.ConditionRegistry, fieldNames []string) *ConditionChecker {
	return &ConditionChecker{registry: registry, fieldNames: fieldNames}
}

// Descriptor returns the descriptor of cond's type, reporting an error on res
// when the type is missing or unregistered.
func (c *ConditionChecker) Descriptor(res *results.ConditionResult, cond *ast.Condition) *services.ConditionDescriptor {
	if strings.TrimSpace(cond.Type) == "" {
		res.Report(results.SeverityError, "Condition type is required.")
		return nil
	}
	desc := c.registry.Find(cond.Type)
	if desc == nil {
		res.Report(results.SeverityError, "Condition type %q is not registered. %s",
			cond.Type, vclerrors.SuggestConditionType(cond.Type, c.registry.Types()))
	}
	return desc
}

// Check appends property problems of cond to res and reports nesting
// problems on res itself.
func (c *ConditionChecker) Check(res *results.ConditionResult, desc *services.ConditionDescriptor, cond *ast.Condition) {
	c.checkChildren(res, desc, cond)

	for _, name := range desc.Required {
		if isBlank(cond.Properties[name]) {
			res.Properties = append(res.Properties, issueNode(name, results.SeverityError,
				"Property %q is required by condition type %q. %s",
				name, desc.Type, vclerrors.SuggestMissingField(name, "")))
		}
	}

	for _, group := range desc.AtLeastOne {
		present := false
		for _, name := range group {
			present = present || !isBlank(cond.Properties[name])
		}
		if !present {
			res.Properties = append(res.Properties, issueNode(group[0], results.SeverityError,
				"Condition type %q requires at least one of %s.", desc.Type, strings.Join(group, ", ")))
		}
	}

	for _, pair := range desc.Exclusive {
		if cond.HasProperty(pair[0]) && cond.HasProperty(pair[1]) {
			res.Properties = append(res.Properties, issueNode(pair[1], results.SeverityError,
				"Properties %q and %q cannot be used together.", pair[0], pair[1]))
		}
	}

	known := desc.Properties()
	for _, name := range cond.PropertyNames() {
		if containsFold(known, name) {
			continue
		}
		msg := fmt.Sprintf("Property %q is not used by condition type %q.", name, desc.Type)
		if hint := vclerrors.SuggestName(name, known); hint != "" {
			msg += " " + hint
		}
		res.Properties = append(res.Properties, issueNode(name, results.SeverityWarning, "%s", msg))
	}

	for _, name := range desc.ValueHostProperties {
		if node := c.checkValueHost(cond, name); node != nil {
			res.Properties = append(res.Properties, node)
		}
	}

	for _, name := range desc.RegexProperties {
		pattern, ok := cond.Properties[name].(string)
		if !ok || pattern == "" {
			continue
		}
		if _, err := regexp.Compile(pattern); err != nil {
			node := issueNode(name, results.SeverityError, "Property %q is not a valid regular expression: %v", name, err)
			node.Value = pattern
			res.Properties = append(res.Properties, node)
		}
	}

	for _, name := range desc.NumericProperties {
		v, ok := cond.Properties[name]
		if !ok || isNumber(v) {
			continue
		}
		node := issueNode(name, results.SeverityError, "Property %q must be a number, got %T.", name, v)
		node.Value = v
		res.Properties = append(res.Properties, node)
	}
}

func (c *ConditionChecker) checkChildren(res *results.ConditionResult, desc *services.ConditionDescriptor, cond *ast.Condition) {
	n := len(cond.Children)
	switch {
	case !desc.Composite && n > 0:
		res.Report(results.SeverityError, "Condition type %q does not accept child conditions.", desc.Type)
	case desc.Composite && n < desc.MinChildren:
		res.Report(results.SeverityError, "Condition type %q needs at least %d child condition(s), found %d.",
			desc.Type, desc.MinChildren, n)
	case desc.Composite && desc.MaxChildren > 0 && n > desc.MaxChildren:
		res.Report(results.SeverityError, "Condition type %q accepts at most %d child condition(s), found %d.",
			desc.Type, desc.MaxChildren, n)
	}
}

func (c *ConditionChecker) checkValueHost(cond *ast.Condition, name string) *results.PropertyResult {
	v, ok := cond.Properties[name]
	if !ok {
		return nil
	}
	host, isString := v.(string)
	if !isString || strings.TrimSpace(host) == "" {
		return issueNode(name, results.SeverityError, "Property %q must name a field.", name)
	}
	for _, f := range c.fieldNames {
		if f == host {
			return nil
		}
	}

	msg := fmt.Sprintf("Property %q refers to unknown field %q.", name, host)
	if hint := vclerrors.SuggestName(host, c.fieldNames); hint != "" {
		msg += " " + hint
	}
	node := issueNode(name, results.SeverityError, "%s", msg)
	node.Value = host
	return node
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}
