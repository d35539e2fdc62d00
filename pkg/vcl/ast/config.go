package ast

// Config is the root of a validation configuration: a named list of fields.
// It is a snapshot; the analyzer copies it before inspecting it.
type Config struct {
	SchemaVersion string   // Configuration schema version (semver)
	Name          string   // Human-readable configuration name
	Description   string   // Optional description
	Fields        []*Field // Fields in declaration order

	SourceFile string   // Path the configuration was loaded from
	Location   Location // Source location
}

// GetField returns the first field with the given name, or nil if not found.
func (c *Config) GetField(name string) *Field {
	for _, field := range c.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// HasField returns true if the configuration declares a field with the given name.
func (c *Config) HasField(name string) bool {
	return c.GetField(name) != nil
}

// FieldNames returns the declared field names in order, skipping unnamed fields.
func (c *Config) FieldNames() []string {
	names := make([]string, 0, len(c.Fields))
	for _, field := range c.Fields {
		if field.Name != "" {
			names = append(names, field.Name)
		}
	}
	return names
}

// RuleCount returns the number of rules across all fields.
func (c *Config) RuleCount() int {
	count := 0
	for _, field := range c.Fields {
		count += len(field.Rules)
	}
	return count
}
