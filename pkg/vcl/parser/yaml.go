package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"mercator-hq/valcheck/pkg/vcl/ast"
	vclErrors "mercator-hq/valcheck/pkg/vcl/errors"
)

// yamlConfig is the intermediate shape of a YAML configuration. Fields are kept
// as nodes so every field, rule and condition can report its own line.
type yamlConfig struct {
	SchemaVersion string      `yaml:"schema_version"`
	Name          string      `yaml:"name"`
	Description   string      `yaml:"description"`
	Fields        []yaml.Node `yaml:"fields"`
}

// yamlField is the intermediate shape of one field.
type yamlField struct {
	Name            string      `yaml:"name"`
	Kind            string      `yaml:"kind"`
	DataType        string      `yaml:"data_type"`
	Label           string      `yaml:"label"`
	LabelL10n       string      `yaml:"label_l10n"`
	ParserLookupKey string      `yaml:"parser_lookup_key"`
	Enabler         yaml.Node   `yaml:"enabler"`
	Rules           []yaml.Node `yaml:"rules"`
}

// yamlRule is the intermediate shape of one rule.
type yamlRule struct {
	ErrorCode          string    `yaml:"error_code"`
	Severity           string    `yaml:"severity"`
	Enabled            *bool     `yaml:"enabled"` // Pointer to distinguish unset vs false
	Condition          yaml.Node `yaml:"condition"`
	ErrorMessage       string    `yaml:"error_message"`
	ErrorMessageL10n   string    `yaml:"error_message_l10n"`
	SummaryMessage     string    `yaml:"summary_message"`
	SummaryMessageL10n string    `yaml:"summary_message_l10n"`
}

// buildFromYAML decodes YAML data into an ast.Config.
func (b *builder) buildFromYAML(data []byte) (*ast.Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &vclErrors.Error{
			Type:       vclErrors.ErrorTypeSyntax,
			Message:    fmt.Sprintf("YAML parsing failed: %v", err),
			Location:   b.location(1, 1),
			Suggestion: "Check YAML syntax (indentation, colons, quotes)",
		}
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, &vclErrors.Error{
			Type:       vclErrors.ErrorTypeStructural,
			Message:    "Configuration must be a YAML mapping",
			Location:   b.location(1, 1),
			Suggestion: vclErrors.SuggestMissingField("fields", "[...]"),
		}
	}

	var yc yamlConfig
	if err := doc.Content[0].Decode(&yc); err != nil {
		return nil, &vclErrors.Error{
			Type:     vclErrors.ErrorTypeStructural,
			Message:  fmt.Sprintf("Invalid configuration document: %v", err),
			Location: b.location(1, 1),
		}
	}

	cfg := b.newConfig(yc.SchemaVersion, yc.Name, yc.Description, len(yc.Fields))
	for i := range yc.Fields {
		if field := b.buildYAMLField(&yc.Fields[i], i); field != nil {
			cfg.Fields = append(cfg.Fields, field)
		}
	}

	return cfg, nil
}

// buildYAMLField transforms one field node.
func (b *builder) buildYAMLField(node *yaml.Node, index int) *ast.Field {
	loc := b.location(node.Line, node.Column)

	var yf yamlField
	if err := node.Decode(&yf); err != nil {
		b.errors.AddError(vclErrors.ErrorTypeStructural,
			fmt.Sprintf("Invalid field at index %d: %v", index, err), loc)
		return nil
	}

	field := &ast.Field{
		Name:            yf.Name,
		Kind:            ast.FieldKind(yf.Kind),
		DataType:        yf.DataType,
		Label:           yf.Label,
		LabelL10n:       yf.LabelL10n,
		ParserLookupKey: yf.ParserLookupKey,
		Rules:           make([]*ast.Rule, 0, len(yf.Rules)),
		Location:        loc,
	}

	if !isEmptyNode(&yf.Enabler) {
		field.EnablerCondition = b.buildYAMLCondition(&yf.Enabler)
	}

	for i := range yf.Rules {
		if rule := b.buildYAMLRule(&yf.Rules[i], yf.Name, i); rule != nil {
			field.Rules = append(field.Rules, rule)
		}
	}

	return field
}

// buildYAMLRule transforms one rule node.
func (b *builder) buildYAMLRule(node *yaml.Node, fieldName string, index int) *ast.Rule {
	loc := b.location(node.Line, node.Column)

	var yr yamlRule
	if err := node.Decode(&yr); err != nil {
		b.errors.AddError(vclErrors.ErrorTypeStructural,
			fmt.Sprintf("Invalid rule at index %d of field %q: %v", index, fieldName, err), loc)
		return nil
	}

	rule := &ast.Rule{
		ErrorCode:          yr.ErrorCode,
		Severity:           ast.RuleSeverity(yr.Severity),
		Enabled:            yr.Enabled,
		ErrorMessage:       yr.ErrorMessage,
		ErrorMessageL10n:   yr.ErrorMessageL10n,
		SummaryMessage:     yr.SummaryMessage,
		SummaryMessageL10n: yr.SummaryMessageL10n,
		Location:           loc,
	}

	if !isEmptyNode(&yr.Condition) {
		rule.Condition = b.buildYAMLCondition(&yr.Condition)
	}

	return rule
}

// buildYAMLCondition transforms a condition mapping. Keys other than "type"
// and "children" become condition properties.
func (b *builder) buildYAMLCondition(node *yaml.Node) *ast.Condition {
	loc := b.location(node.Line, node.Column)

	if node.Kind != yaml.MappingNode {
		b.errors.AddError(vclErrors.ErrorTypeStructural, "Condition must be a mapping", loc)
		return nil
	}

	cond := &ast.Condition{
		Properties: make(map[string]any),
		Location:   loc,
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		switch key.Value {
		case "type":
			if value.Kind != yaml.ScalarNode {
				b.errors.AddError(vclErrors.ErrorTypeStructural,
					"Condition 'type' must be a string", b.location(value.Line, value.Column))
				continue
			}
			cond.Type = value.Value

		case "children":
			if value.Kind != yaml.SequenceNode {
				b.errors.AddError(vclErrors.ErrorTypeStructural,
					"Condition 'children' must be a list of conditions", b.location(value.Line, value.Column))
				continue
			}
			for _, childNode := range value.Content {
				if child := b.buildYAMLCondition(childNode); child != nil {
					cond.Children = append(cond.Children, child)
				}
			}

		default:
			var v any
			if err := value.Decode(&v); err != nil {
				b.errors.AddError(vclErrors.ErrorTypeStructural,
					fmt.Sprintf("Invalid value for condition property %q: %v", key.Value, err),
					b.location(value.Line, value.Column))
				continue
			}
			cond.Properties[key.Value] = v
		}
	}

	return cond
}

// isEmptyNode reports whether an optional node was absent or explicitly null.
func isEmptyNode(node *yaml.Node) bool {
	return node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}
