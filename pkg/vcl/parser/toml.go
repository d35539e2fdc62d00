package parser

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"mercator-hq/valcheck/pkg/vcl/ast"
	vclErrors "mercator-hq/valcheck/pkg/vcl/errors"
)

// tomlConfig is the intermediate shape of a TOML configuration. TOML decoding
// does not expose positions below the document, so nodes only carry the file.
type tomlConfig struct {
	SchemaVersion string      `toml:"schema_version"`
	Name          string      `toml:"name"`
	Description   string      `toml:"description"`
	Fields        []tomlField `toml:"fields"`
}

type tomlField struct {
	Name            string         `toml:"name"`
	Kind            string         `toml:"kind"`
	DataType        string         `toml:"data_type"`
	Label           string         `toml:"label"`
	LabelL10n       string         `toml:"label_l10n"`
	ParserLookupKey string         `toml:"parser_lookup_key"`
	Enabler         map[string]any `toml:"enabler"`
	Rules           []tomlRule     `toml:"rules"`
}

type tomlRule struct {
	ErrorCode          string         `toml:"error_code"`
	Severity           string         `toml:"severity"`
	Enabled            *bool          `toml:"enabled"`
	Condition          map[string]any `toml:"condition"`
	ErrorMessage       string         `toml:"error_message"`
	ErrorMessageL10n   string         `toml:"error_message_l10n"`
	SummaryMessage     string         `toml:"summary_message"`
	SummaryMessageL10n string         `toml:"summary_message_l10n"`
}

// buildFromTOML decodes TOML data into an ast.Config.
func (b *builder) buildFromTOML(data []byte) (*ast.Config, error) {
	var tc tomlConfig
	if _, err := toml.Decode(string(data), &tc); err != nil {
		loc := b.location(1, 1)
		var perr toml.ParseError
		if errors.As(err, &perr) {
			loc = b.location(perr.Position.Line, 0)
		}
		return nil, &vclErrors.Error{
			Type:       vclErrors.ErrorTypeSyntax,
			Message:    fmt.Sprintf("TOML parsing failed: %v", err),
			Location:   loc,
			Suggestion: "Check TOML syntax (tables, quoting, array of tables)",
		}
	}

	cfg := b.newConfig(tc.SchemaVersion, tc.Name, tc.Description, len(tc.Fields))
	fileLoc := ast.Location{File: b.sourcePath}

	for _, tf := range tc.Fields {
		field := &ast.Field{
			Name:            tf.Name,
			Kind:            ast.FieldKind(tf.Kind),
			DataType:        tf.DataType,
			Label:           tf.Label,
			LabelL10n:       tf.LabelL10n,
			ParserLookupKey: tf.ParserLookupKey,
			Rules:           make([]*ast.Rule, 0, len(tf.Rules)),
			Location:        fileLoc,
		}

		if len(tf.Enabler) > 0 {
			field.EnablerCondition = b.conditionFromMap(tf.Enabler, fileLoc)
		}

		for _, tr := range tf.Rules {
			rule := &ast.Rule{
				ErrorCode:          tr.ErrorCode,
				Severity:           ast.RuleSeverity(tr.Severity),
				Enabled:            tr.Enabled,
				ErrorMessage:       tr.ErrorMessage,
				ErrorMessageL10n:   tr.ErrorMessageL10n,
				SummaryMessage:     tr.SummaryMessage,
				SummaryMessageL10n: tr.SummaryMessageL10n,
				Location:           fileLoc,
			}
			if len(tr.Condition) > 0 {
				rule.Condition = b.conditionFromMap(tr.Condition, fileLoc)
			}
			field.Rules = append(field.Rules, rule)
		}

		cfg.Fields = append(cfg.Fields, field)
	}

	return cfg, nil
}
