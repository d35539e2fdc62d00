package search

import (
	"fmt"

	"mercator-hq/valcheck/pkg/analysis/results"
)

// Criteria selects nodes. Each non-empty list is one criterion; string values
// compare case-insensitively.
type Criteria struct {
	Kinds          []results.Kind     `yaml:"kinds,omitempty" json:"kinds,omitempty"`
	Severities     []results.Severity `yaml:"severities,omitempty" json:"severities,omitempty"`
	FieldNames     []string           `yaml:"field_names,omitempty" json:"fieldNames,omitempty"`
	ErrorCodes     []string           `yaml:"error_codes,omitempty" json:"errorCodes,omitempty"`
	ConditionTypes []string           `yaml:"condition_types,omitempty" json:"conditionTypes,omitempty"`
	PropertyNames  []string           `yaml:"property_names,omitempty" json:"propertyNames,omitempty"`
	LookupKeys     []string           `yaml:"lookup_keys,omitempty" json:"lookupKeys,omitempty"`
	CultureIDs     []string           `yaml:"culture_ids,omitempty" json:"cultureIds,omitempty"`
	ServiceNames   []string           `yaml:"service_names,omitempty" json:"serviceNames,omitempty"`

	// SkipChildrenIfParentMismatch prunes the subtree of a node whose match is
	// Mismatch. NotApplicable never prunes.
	SkipChildrenIfParentMismatch bool `yaml:"skip_children_if_parent_mismatch,omitempty" json:"skipChildrenIfParentMismatch,omitempty"`
}

// IsEmpty reports whether no criterion is specified.
func (c *Criteria) IsEmpty() bool {
	return len(c.Kinds) == 0 && len(c.Severities) == 0 && len(c.FieldNames) == 0 &&
		len(c.ErrorCodes) == 0 && len(c.ConditionTypes) == 0 && len(c.PropertyNames) == 0 &&
		len(c.LookupKeys) == 0 && len(c.CultureIDs) == 0 && len(c.ServiceNames) == 0
}

// Validate rejects unknown kinds and severities.
func (c *Criteria) Validate() error {
	for _, k := range c.Kinds {
		if !isKnownKind(k) {
			return fmt.Errorf("unknown node kind %q", k)
		}
	}
	for _, s := range c.Severities {
		if s == results.SeverityNone || !s.IsValid() {
			return fmt.Errorf("unknown severity %q", s)
		}
	}
	return nil
}

func isKnownKind(kind results.Kind) bool {
	for _, k := range results.AllKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Criterion evaluates one criterion of c against a node.
type Criterion func(node results.Node, c *Criteria) Match

// MatchKind applies to every node.
func MatchKind(node results.Node, c *Criteria) Match {
	if len(c.Kinds) == 0 {
		return NotApplicable
	}
	for _, k := range c.Kinds {
		if k == node.Kind() {
			return Matched
		}
	}
	return Mismatch
}

// MatchSeverity applies to every node. A node without an issue has no
// severity and never satisfies a severity filter.
func MatchSeverity(node results.Node, c *Criteria) Match {
	if len(c.Severities) == 0 {
		return NotApplicable
	}
	severity := node.GetIssue().Severity
	for _, s := range c.Severities {
		if s == severity {
			return Matched
		}
	}
	return Mismatch
}
