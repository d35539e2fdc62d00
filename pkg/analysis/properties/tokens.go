package properties

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var tokenNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Token is a {Name} or {Name:formatterKey} placeholder in a message.
type Token struct {
	Name         string
	FormatterKey string
	Offset       int
}

// TokenError is a syntax problem in a message.
type TokenError struct {
	Offset  int
	Message string
}

func (e TokenError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

// ParseTokens extracts the tokens of a message. "{{" and "}}" are literal
// braces.
func ParseTokens(text string) ([]Token, []TokenError) {
	var tokens []Token
	var problems []TokenError

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				i++
				continue
			}
			end := strings.IndexAny(text[i+1:], "{}")
			if end < 0 || text[i+1+end] == '{' {
				problems = append(problems, TokenError{Offset: i, Message: "unbalanced '{'"})
				continue
			}
			body := text[i+1 : i+1+end]
			if tok, problem, ok := parseTokenBody(body, i); ok {
				tokens = append(tokens, tok)
			} else {
				problems = append(problems, problem)
			}
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				i++
				continue
			}
			problems = append(problems, TokenError{Offset: i, Message: "unbalanced '}'"})
		}
	}
	return tokens, problems
}

func parseTokenBody(body string, offset int) (Token, TokenError, bool) {
	name, formatterKey, hasFormatter := strings.Cut(body, ":")
	name = strings.TrimSpace(name)
	formatterKey = strings.TrimSpace(formatterKey)

	switch {
	case name == "":
		return Token{}, TokenError{Offset: offset, Message: "empty token name"}, false
	case !tokenNamePattern.MatchString(name):
		return Token{}, TokenError{Offset: offset, Message: fmt.Sprintf("invalid token name %q", name)}, false
	case hasFormatter && formatterKey == "":
		return Token{}, TokenError{Offset: offset, Message: fmt.Sprintf("empty formatter key in token {%s:}", name)}, false
	}
	return Token{Name: name, FormatterKey: formatterKey, Offset: offset}, TokenError{}, true
}

// Base tokens available in every rule message.
var BaseTokens = []string{"Label", "Value", "DataType", "ErrorCode"}

// TokenName converts a snake_case property name to its PascalCase token name.
func TokenName(property string) string {
	var b strings.Builder
	upper := true
	for _, r := range property {
		if r == '_' || r == '-' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// KnownTokens returns the base tokens plus one token per condition property.
func KnownTokens(properties ...string) []string {
	known := append([]string(nil), BaseTokens...)
	for _, p := range properties {
		known = append(known, TokenName(p))
	}
	return known
}
