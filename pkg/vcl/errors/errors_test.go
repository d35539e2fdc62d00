package errors

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/valcheck/pkg/vcl/ast"
)

func TestErrorList(t *testing.T) {
	el := NewErrorList()
	if el.ToError() != nil {
		t.Fatal("empty list should convert to nil error")
	}

	el.AddError(ErrorTypeStructural, "field has no name", ast.Location{File: "a.yaml", Line: 3, Column: 5})
	el.AddErrorWithSuggestion(ErrorTypeVersion, "bad version", ast.Location{}, "use 1.0.0")

	if el.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", el.Count())
	}
	if !el.HasErrorType(ErrorTypeVersion) || el.HasErrorType(ErrorTypeIO) {
		t.Error("HasErrorType returned unexpected result")
	}

	msg := el.ToError().Error()
	for _, want := range []string{"Found 2 error(s)", "a.yaml:3:5", "suggestion: use 1.0.0"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error text missing %q:\n%s", want, msg)
		}
	}
}

func TestClosestMatch(t *testing.T) {
	candidates := []string{"Integer", "Number", "String", "Boolean"}

	tests := []struct {
		unknown string
		want    string
		ok      bool
	}{
		{"Intger", "Integer", true},
		{"integer", "Integer", true},
		{"Strng", "String", true},
		{"Completely", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.unknown, func(t *testing.T) {
			got, ok := ClosestMatch(tt.unknown, candidates)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ClosestMatch(%q) = (%q, %v), want (%q, %v)", tt.unknown, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"été", "ete", 2},
	}

	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestExtractContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	content := "line1\nline2\nline3\nline4\nline5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := ExtractContext(ast.Location{File: path, Line: 3, Column: 2}, 1)
	if !strings.Contains(ctx, "-> 3 | line3") {
		t.Errorf("context does not mark line 3:\n%s", ctx)
	}
	if strings.Contains(ctx, "line1") || strings.Contains(ctx, "line5") {
		t.Errorf("context includes lines outside the window:\n%s", ctx)
	}

	if got := ExtractContext(ast.Location{File: path, Line: 99}, 1); got != "" {
		t.Errorf("expected empty context past EOF, got %q", got)
	}
}
