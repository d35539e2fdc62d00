package ast

import "fmt"

// Location points at the place in a configuration file where a node was declared.
// Configurations built in memory carry a zero Location.
type Location struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// String formats the location as "file:line:column".
func (l Location) String() string {
	if l.File == "" {
		return "<memory>"
	}
	if l.Line == 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid reports whether the location names a file and a line.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}
