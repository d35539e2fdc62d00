package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mercator-hq/valcheck/pkg/analysis/results"
	"mercator-hq/valcheck/pkg/analysis/search"
	"mercator-hq/valcheck/pkg/vcl/ast"
)

// Report is the rendered outcome of one analysis.
type Report struct {
	RunID       string        `json:"runId"`
	SourceFile  string        `json:"sourceFile,omitempty"`
	ConfigName  string        `json:"configName,omitempty"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Cultures    []string      `json:"cultures"`
	Summary     Summary       `json:"summary"`
	Diagnostics []Diagnostic  `json:"diagnostics"`
	Queries     []QueryResult `json:"queries,omitempty"`
	Tree        *results.Tree `json:"tree,omitempty"`
}

// Summary counts the nodes of a tree by severity.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Total returns the number of nodes carrying an issue.
func (s Summary) Total() int { return s.Errors + s.Warnings + s.Info }

// Failed reports whether the summary fails a run. Warnings fail only in
// strict mode.
func (s Summary) Failed(strict bool) bool {
	return s.Errors > 0 || (strict && s.Warnings > 0)
}

func (s *Summary) add(sev results.Severity) {
	switch sev {
	case results.SeverityError:
		s.Errors++
	case results.SeverityWarning:
		s.Warnings++
	case results.SeverityInfo:
		s.Info++
	}
}

// Diagnostic is one node carrying an issue.
type Diagnostic struct {
	Severity results.Severity `json:"severity"`
	Kind     results.Kind     `json:"kind"`
	Message  string           `json:"message"`
	Path     search.Path      `json:"path"`
	// Location is the source location of the node or of its nearest
	// ancestor that has one.
	Location *ast.Location `json:"location,omitempty"`
}

// Query is a named search run against every analyzed tree.
type Query struct {
	Name     string          `yaml:"name" json:"name"`
	Criteria search.Criteria `yaml:"criteria" json:"criteria"`
}

// QueryResult holds the matches of one query.
type QueryResult struct {
	Name    string       `json:"name"`
	Count   int          `json:"count"`
	Matches []Diagnostic `json:"matches"`
}

// Options control what Build includes.
type Options struct {
	// SourceFile is the file the configuration was loaded from.
	SourceFile string
	ConfigName string
	// MinSeverity drops diagnostics below it. Summary counts are unaffected.
	MinSeverity results.Severity
	Queries     []Query
	// IncludeTree attaches the raw diagnostic tree.
	IncludeTree bool
	// Now overrides the generation time.
	Now func() time.Time
}

var severities = []results.Severity{results.SeverityInfo, results.SeverityWarning, results.SeverityError}

// Build assembles a report from a diagnostic tree.
func Build(tree *results.Tree, opts Options) (*Report, error) {
	if tree == nil {
		return nil, errors.New("report: tree is nil")
	}
	for _, q := range opts.Queries {
		if err := q.Criteria.Validate(); err != nil {
			return nil, fmt.Errorf("report: query %q: %w", q.Name, err)
		}
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	r := &Report{
		RunID:       uuid.NewString(),
		SourceFile:  opts.SourceFile,
		ConfigName:  opts.ConfigName,
		GeneratedAt: now().UTC(),
		Cultures:    tree.Cultures,
		Diagnostics: []Diagnostic{},
	}
	if r.Cultures == nil {
		r.Cultures = []string{}
	}

	for _, res := range search.Collect(tree, search.Criteria{Severities: severities}) {
		issue := res.Node.GetIssue()
		r.Summary.add(issue.Severity)
		if opts.MinSeverity != "" && !issue.Severity.AtLeast(opts.MinSeverity) {
			continue
		}
		r.Diagnostics = append(r.Diagnostics, newDiagnostic(res))
	}

	for _, q := range opts.Queries {
		matches := search.Collect(tree, q.Criteria)
		qr := QueryResult{Name: q.Name, Count: len(matches), Matches: make([]Diagnostic, len(matches))}
		for i, m := range matches {
			qr.Matches[i] = newDiagnostic(m)
		}
		r.Queries = append(r.Queries, qr)
	}

	if opts.IncludeTree {
		r.Tree = tree
	}
	return r, nil
}

func newDiagnostic(res search.Result) Diagnostic {
	issue := res.Node.GetIssue()
	d := Diagnostic{
		Severity: issue.Severity,
		Kind:     res.Node.Kind(),
		Message:  issue.Message,
		Path:     res.Path,
	}
	if loc, ok := nearestLocation(res.Path); ok {
		d.Location = &loc
	}
	return d
}

// nearestLocation returns the location of the deepest node on path that has
// a non-zero one.
func nearestLocation(path search.Path) (ast.Location, bool) {
	for i := len(path) - 1; i >= 0; i-- {
		l, ok := path[i].Node.(results.Locatable)
		if !ok {
			continue
		}
		if loc := l.SourceLocation(); loc.File != "" || loc.Line > 0 {
			return loc, true
		}
	}
	return ast.Location{}, false
}
