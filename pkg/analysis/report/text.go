package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"mercator-hq/valcheck/pkg/analysis/results"
)

// TextRenderer writes one line per diagnostic followed by a summary.
type TextRenderer struct {
	errorColor   *color.Color
	warningColor *color.Color
	infoColor    *color.Color
	dimColor     *color.Color
	titleColor   *color.Color
}

// NewTextRenderer creates a text renderer. Colors are only emitted when
// enabled.
func NewTextRenderer(enabled bool) *TextRenderer {
	r := &TextRenderer{
		errorColor:   color.New(color.FgRed, color.Bold),
		warningColor: color.New(color.FgYellow, color.Bold),
		infoColor:    color.New(color.FgCyan),
		dimColor:     color.New(color.Faint),
		titleColor:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{r.errorColor, r.warningColor, r.infoColor, r.dimColor, r.titleColor} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Render writes the reports to w.
func (r *TextRenderer) Render(w io.Writer, reports ...*Report) error {
	for i, rep := range reports {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := r.render(w, rep); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) render(w io.Writer, rep *Report) error {
	title := rep.SourceFile
	if title == "" {
		title = rep.ConfigName
	}
	if title == "" {
		title = "<memory>"
	}
	if _, err := fmt.Fprintf(w, "%s %s\n", r.titleColor.Sprint(title), r.dimColor.Sprintf("(run %s)", rep.RunID)); err != nil {
		return err
	}

	for _, d := range rep.Diagnostics {
		if err := r.diagnostic(w, "  ", d); err != nil {
			return err
		}
	}

	for _, q := range rep.Queries {
		if _, err := fmt.Fprintf(w, "  query %s: %d match(es)\n", r.titleColor.Sprint(q.Name), q.Count); err != nil {
			return err
		}
		for _, d := range q.Matches {
			if err := r.diagnostic(w, "    ", d); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(w, "  %s, %s, %s\n",
		r.errorColor.Sprintf("%d error(s)", rep.Summary.Errors),
		r.warningColor.Sprintf("%d warning(s)", rep.Summary.Warnings),
		r.infoColor.Sprintf("%d info", rep.Summary.Info),
	)
	return err
}

func (r *TextRenderer) diagnostic(w io.Writer, indent string, d Diagnostic) error {
	loc := ""
	if d.Location != nil {
		loc = " " + d.Location.String()
	}
	msg := d.Message
	if msg == "" {
		msg = string(d.Kind)
	}
	_, err := fmt.Fprintf(w, "%s%s %s%s\n%s    %s\n",
		indent, r.severity(d.Severity), d.Path, r.dimColor.Sprint(loc), indent, msg)
	return err
}

func (r *TextRenderer) severity(sev results.Severity) string {
	label := fmt.Sprintf("%-7s", sev)
	switch sev {
	case results.SeverityError:
		return r.errorColor.Sprint(label)
	case results.SeverityWarning:
		return r.warningColor.Sprint(label)
	case results.SeverityInfo:
		return r.infoColor.Sprint(label)
	}
	return label
}
