package report

import (
	"fmt"
	"io"
	"strings"
)

// Format names an output format.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatSARIF}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or sarif)", s)
}

// Renderer writes reports in one format.
type Renderer interface {
	Render(w io.Writer, reports ...*Report) error
}

// RenderOptions tune the renderers.
type RenderOptions struct {
	// Color enables ANSI colors in text output.
	Color bool
	// Indent pretty-prints JSON and SARIF output.
	Indent bool
	// ToolVersion is recorded in SARIF output.
	ToolVersion string
}

// NewRenderer creates the renderer for format.
func NewRenderer(format Format, opts RenderOptions) (Renderer, error) {
	switch format {
	case FormatText, "":
		return NewTextRenderer(opts.Color), nil
	case FormatJSON:
		return &JSONRenderer{Indent: opts.Indent}, nil
	case FormatSARIF:
		return &SARIFRenderer{Indent: opts.Indent, ToolVersion: opts.ToolVersion}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
