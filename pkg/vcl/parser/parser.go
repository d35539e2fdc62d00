package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"mercator-hq/valcheck/pkg/vcl/ast"
	vclErrors "mercator-hq/valcheck/pkg/vcl/errors"
)

// SupportedSchemaVersions is the semver constraint a configuration's
// schema_version must satisfy.
const SupportedSchemaVersions = ">= 1.0.0, < 2.0.0"

// Format identifies the document syntax of a configuration file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the document format from a file extension.
// Anything that is not .toml is treated as YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parser loads validation configuration files into ast.Config snapshots.
type Parser struct {
	maxFileSize int64
	versions    *semver.Constraints
}

// NewParser creates a parser with default limits.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: 10 * 1024 * 1024, // 10MB
		versions:    mustConstraint(SupportedSchemaVersions),
	}
}

func mustConstraint(constraint string) *semver.Constraints {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		panic(fmt.Sprintf("invalid schema constraint %q: %v", constraint, err))
	}
	return c
}

// WithMaxFileSize sets the maximum accepted file size in bytes.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithSchemaConstraint replaces the accepted schema version range.
func (p *Parser) WithSchemaConstraint(constraint string) (*Parser, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid schema constraint %q: %w", constraint, err)
	}
	p.versions = c
	return p, nil
}

// Parse reads the configuration file at path.
func (p *Parser) Parse(path string) (*ast.Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &vclErrors.Error{
			Type:     vclErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to access file: %v", err),
			Location: ast.Location{File: path},
		}
	}

	if info.Size() > p.maxFileSize {
		return nil, &vclErrors.Error{
			Type:     vclErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("File size %d exceeds maximum %d bytes", info.Size(), p.maxFileSize),
			Location: ast.Location{File: path},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &vclErrors.Error{
			Type:     vclErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to read file: %v", err),
			Location: ast.Location{File: path},
		}
	}

	cfg, err := p.ParseBytes(data, path)
	if err != nil {
		if errList, ok := err.(*vclErrors.ErrorList); ok {
			for i, e := range errList.Errors {
				errList.Errors[i] = vclErrors.AddContextToError(e)
			}
		}
		return nil, err
	}
	return cfg, nil
}

// ParseBytes parses configuration data held in memory. sourcePath is used for
// locations and to choose between YAML and TOML.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*ast.Config, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, &vclErrors.Error{
			Type:     vclErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: ast.Location{File: sourcePath},
		}
	}

	b := newBuilder(sourcePath)

	var cfg *ast.Config
	var err error
	switch FormatForPath(sourcePath) {
	case FormatTOML:
		cfg, err = b.buildFromTOML(data)
	default:
		cfg, err = b.buildFromYAML(data)
	}
	if err != nil {
		return nil, err
	}

	p.checkSchemaVersion(cfg, b.errors)

	if b.errors.HasErrors() {
		return nil, b.errors
	}
	return cfg, nil
}

// checkSchemaVersion validates schema_version against the supported range.
func (p *Parser) checkSchemaVersion(cfg *ast.Config, errs *vclErrors.ErrorList) {
	if cfg.SchemaVersion == "" {
		errs.AddErrorWithSuggestion(
			vclErrors.ErrorTypeVersion,
			"Missing required field 'schema_version'",
			cfg.Location,
			vclErrors.SuggestMissingField("schema_version", `"1.0.0"`),
		)
		return
	}

	version, err := semver.NewVersion(cfg.SchemaVersion)
	if err != nil {
		errs.AddErrorWithSuggestion(
			vclErrors.ErrorTypeVersion,
			fmt.Sprintf("Schema version %q is not a semantic version", cfg.SchemaVersion),
			cfg.Location,
			"Example: '1.0.0'",
		)
		return
	}

	if !p.versions.Check(version) {
		errs.AddErrorWithSuggestion(
			vclErrors.ErrorTypeVersion,
			fmt.Sprintf("Unsupported schema version %q", cfg.SchemaVersion),
			cfg.Location,
			fmt.Sprintf("Supported versions: %s", p.versions.String()),
		)
	}
}
