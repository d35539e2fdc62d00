package parser

import (
	"fmt"

	"mercator-hq/valcheck/pkg/vcl/ast"
	vclErrors "mercator-hq/valcheck/pkg/vcl/errors"
)

// builder assembles ast nodes from decoded documents and collects structural
// errors with their source locations.
type builder struct {
	sourcePath string
	errors     *vclErrors.ErrorList
}

// newBuilder creates a builder for the given source file.
func newBuilder(sourcePath string) *builder {
	return &builder{
		sourcePath: sourcePath,
		errors:     vclErrors.NewErrorList(),
	}
}

// location builds an ast.Location for a line and column in the source file.
func (b *builder) location(line, column int) ast.Location {
	return ast.Location{File: b.sourcePath, Line: line, Column: column}
}

// newConfig creates the root node shared by both document formats.
func (b *builder) newConfig(schemaVersion, name, description string, fieldCount int) *ast.Config {
	return &ast.Config{
		SchemaVersion: schemaVersion,
		Name:          name,
		Description:   description,
		Fields:        make([]*ast.Field, 0, fieldCount),
		SourceFile:    b.sourcePath,
		Location:      b.location(1, 1),
	}
}

// conditionFromMap builds a condition from a generic map, as produced by
// decoders that do not expose source positions.
func (b *builder) conditionFromMap(m map[string]any, loc ast.Location) *ast.Condition {
	cond := &ast.Condition{
		Properties: make(map[string]any),
		Location:   loc,
	}

	for key, value := range m {
		switch key {
		case "type":
			s, ok := value.(string)
			if !ok {
				b.errors.AddError(vclErrors.ErrorTypeStructural,
					fmt.Sprintf("Condition 'type' must be a string, got %T", value), loc)
				continue
			}
			cond.Type = s

		case "children":
			children, ok := asMapSlice(value)
			if !ok {
				b.errors.AddError(vclErrors.ErrorTypeStructural,
					"Condition 'children' must be a list of conditions", loc)
				continue
			}
			for _, child := range children {
				if built := b.conditionFromMap(child, loc); built != nil {
					cond.Children = append(cond.Children, built)
				}
			}

		default:
			cond.Properties[key] = value
		}
	}

	return cond
}

// asMapSlice converts the list shapes produced by decoders into []map[string]any.
func asMapSlice(value any) ([]map[string]any, bool) {
	switch v := value.(type) {
	case []map[string]any:
		return v, true
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, false
			}
			out = append(out, m)
		}
		return out, true
	default:
		return nil, false
	}
}
