package search

import "strings"

// Match is the three-valued outcome of comparing a node with criteria.
type Match int

const (
	// NotApplicable means no specified criterion pertains to the node.
	NotApplicable Match = iota
	// Mismatch means at least one applicable criterion failed.
	Mismatch
	// Matched means every applicable criterion succeeded and at least one applied.
	Matched
)

func (m Match) String() string {
	switch m {
	case Mismatch:
		return "mismatch"
	case Matched:
		return "matched"
	}
	return "not-applicable"
}

// Combine folds per-criterion outcomes: Mismatch if any is Mismatch,
// otherwise Matched if any is Matched, otherwise NotApplicable.
func Combine(matches ...Match) Match {
	result := NotApplicable
	for _, m := range matches {
		switch m {
		case Mismatch:
			return Mismatch
		case Matched:
			result = Matched
		}
	}
	return result
}

// matchString compares actual against the accepted values case-insensitively.
// No accepted values means the criterion was not specified.
func matchString(accepted []string, actual string) Match {
	if len(accepted) == 0 {
		return NotApplicable
	}
	for _, v := range accepted {
		if strings.EqualFold(strings.TrimSpace(v), actual) {
			return Matched
		}
	}
	return Mismatch
}

// matchAny is matchString over several candidate values of one node.
// Any candidate matching is enough.
func matchAny(accepted []string, actuals ...string) Match {
	if len(accepted) == 0 {
		return NotApplicable
	}
	for _, actual := range actuals {
		if actual == "" {
			continue
		}
		if matchString(accepted, actual) == Matched {
			return Matched
		}
	}
	return Mismatch
}
