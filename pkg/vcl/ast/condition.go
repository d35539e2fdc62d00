package ast

import (
	"sort"
	"strings"
)

// Condition is a node in a rule's condition tree. Composite condition types
// (all, any, not, countMatches) hold nested conditions in Children; every other
// type is described entirely by its Properties.
type Condition struct {
	Type       string         // Condition type registered with the condition registry
	Properties map[string]any // Type-specific properties
	Children   []*Condition   // Nested conditions for composite types
	Location   Location       // Source location
}

// HasProperty returns true if the property is present with a non-nil value.
func (c *Condition) HasProperty(name string) bool {
	v, ok := c.Properties[name]
	return ok && v != nil
}

// GetProperty returns the raw property value, or nil if not present.
func (c *Condition) GetProperty(name string) any {
	return c.Properties[name]
}

// GetStringProperty returns the property as a trimmed string.
// Returns empty string if the property is missing or not a string.
func (c *Condition) GetStringProperty(name string) string {
	if s, ok := c.Properties[name].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// PropertyNames returns the property names present on the condition, sorted.
func (c *Condition) PropertyNames() []string {
	names := make([]string, 0, len(c.Properties))
	for name := range c.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Depth returns the number of condition levels rooted at c.
func (c *Condition) Depth() int {
	deepest := 0
	for _, child := range c.Children {
		if d := child.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
