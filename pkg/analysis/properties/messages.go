package properties

import (
	"fmt"
	"strings"

	"mercator-hq/valcheck/pkg/analysis/results"
	vclerrors "mercator-hq/valcheck/pkg/vcl/errors"
)

// MessageCheck is the outcome of checking one message property.
type MessageCheck struct {
	// PropertyName is the property the message belongs to.
	PropertyName string
	// Nodes holds one property node per problem.
	Nodes []results.Node
	// FormatterKeys lists the formatter keys named by tokens, in order of
	// first appearance.
	FormatterKeys []string
}

// CheckMessage checks the token syntax of a message. Syntax problems are
// errors; token names outside known are warnings.
func CheckMessage(propertyName, text string, known []string) MessageCheck {
	check := MessageCheck{PropertyName: propertyName}
	if text == "" {
		return check
	}

	tokens, problems := ParseTokens(text)
	for _, p := range problems {
		node := &results.PropertyResult{PropertyName: propertyName, Value: text}
		node.Report(results.SeverityError, "Invalid message token at offset %d: %s.", p.Offset, p.Message)
		check.Nodes = append(check.Nodes, node)
	}

	seenKeys := make(map[string]bool)
	for _, tok := range tokens {
		if !containsFold(known, tok.Name) {
			node := &results.PropertyResult{PropertyName: propertyName, Value: text}
			msg := fmt.Sprintf("Token {%s} is not recognized.", tok.Name)
			if hint := vclerrors.SuggestName(tok.Name, known); hint != "" {
				msg += " " + hint
			}
			node.Report(results.SeverityWarning, "%s", msg)
			check.Nodes = append(check.Nodes, node)
		}
		if tok.FormatterKey != "" && !seenKeys[strings.ToLower(tok.FormatterKey)] {
			seenKeys[strings.ToLower(tok.FormatterKey)] = true
			check.FormatterKeys = append(check.FormatterKeys, tok.FormatterKey)
		}
	}
	return check
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
