package report

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// JSONRenderer writes a single report as an object and several reports as
// an array.
type JSONRenderer struct {
	Indent bool
}

// Render writes the reports to w.
func (r *JSONRenderer) Render(w io.Writer, reports ...*Report) error {
	enc := json.NewEncoder(w)
	if r.Indent {
		enc.SetIndent("", "  ")
	}

	var v any = reports
	if len(reports) == 1 {
		v = reports[0]
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return nil
}
