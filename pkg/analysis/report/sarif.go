package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"mercator-hq/valcheck/pkg/analysis/results"
)

const (
	toolName = "valcheck"
	toolURI  = "https://github.com/mercator-hq/valcheck"
)

// SARIFRenderer writes SARIF 2.1.0 with one run for all reports. Only
// warnings and errors become results; each kind of node is a rule.
type SARIFRenderer struct {
	Indent      bool
	ToolVersion string
}

// Render writes the reports to w.
func (r *SARIFRenderer) Render(w io.Writer, reports ...*Report) error {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("create sarif report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	if r.ToolVersion != "" {
		version := r.ToolVersion
		run.Tool.Driver.Version = &version
	}

	rules := make(map[results.Kind]bool)
	for _, rep := range reports {
		for _, d := range rep.Diagnostics {
			if !d.Severity.AtLeast(results.SeverityWarning) {
				continue
			}
			ruleID := toolName + "/" + string(d.Kind)
			if !rules[d.Kind] {
				rules[d.Kind] = true
				run.AddRule(ruleID).WithDescription(fmt.Sprintf("Problems reported on %s nodes.", d.Kind))
			}
			run.AddResult(sarif.NewRuleResult(ruleID).
				WithMessage(sarif.NewTextMessage(d.Message)).
				WithLevel(sarifLevel(d.Severity)).
				WithLocations([]*sarif.Location{sarifLocation(rep, d)}))
		}
	}
	doc.AddRun(run)

	if r.Indent {
		err = doc.PrettyWrite(w)
	} else {
		err = doc.Write(w)
	}
	if err != nil {
		return fmt.Errorf("write sarif report: %w", err)
	}
	return nil
}

func sarifLocation(rep *Report, d Diagnostic) *sarif.Location {
	loc := sarif.NewLocation().WithLogicalLocations([]*sarif.LogicalLocation{
		sarif.NewLogicalLocation().
			WithFullyQualifiedName(d.Path.String()).
			WithKind(string(d.Kind)),
	})

	file := rep.SourceFile
	region := sarif.NewRegion()
	hasRegion := false
	if d.Location != nil {
		if d.Location.File != "" {
			file = d.Location.File
		}
		if d.Location.Line > 0 {
			region.WithStartLine(d.Location.Line)
			hasRegion = true
			if d.Location.Column > 0 {
				region.WithStartColumn(d.Location.Column)
			}
		}
	}
	if file == "" {
		return loc
	}

	physical := sarif.NewPhysicalLocation().WithArtifactLocation(sarif.NewArtifactLocation().WithUri(file))
	if hasRegion {
		physical.WithRegion(region)
	}
	return loc.WithPhysicalLocation(physical)
}

func sarifLevel(sev results.Severity) string {
	switch sev {
	case results.SeverityError:
		return "error"
	case results.SeverityWarning:
		return "warning"
	case results.SeverityInfo:
		return "note"
	default:
		return "none"
	}
}
