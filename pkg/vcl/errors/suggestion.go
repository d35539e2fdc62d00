package errors

import (
	"fmt"
	"strings"
)

// maxSuggestionDistance is the largest edit distance still offered as a
// "did you mean" suggestion.
const maxSuggestionDistance = 3

// ClosestMatch returns the candidate closest to unknown by case-insensitive
// edit distance, and whether it is close enough to suggest.
func ClosestMatch(unknown string, candidates []string) (string, bool) {
	best := ""
	bestDistance := -1
	lowered := strings.ToLower(unknown)

	for _, candidate := range candidates {
		dist := levenshteinDistance(lowered, strings.ToLower(candidate))
		if bestDistance < 0 || dist < bestDistance {
			bestDistance = dist
			best = candidate
		}
	}

	if bestDistance < 0 || bestDistance > maxSuggestionDistance {
		return "", false
	}
	return best, true
}

// SuggestName builds a "did you mean" hint for an unknown name.
// It returns an empty string when nothing is close enough.
func SuggestName(unknown string, candidates []string) string {
	if match, ok := ClosestMatch(unknown, candidates); ok {
		return fmt.Sprintf("Did you mean '%s'?", match)
	}
	return ""
}

// SuggestConditionType suggests a registered condition type for an unknown one.
func SuggestConditionType(unknown string, registered []string) string {
	if hint := SuggestName(unknown, registered); hint != "" {
		return hint
	}
	if len(registered) > 8 {
		return fmt.Sprintf("Registered condition types include: %s, ...", strings.Join(registered[:8], ", "))
	}
	return fmt.Sprintf("Registered condition types: %s", strings.Join(registered, ", "))
}

// SuggestMissingField suggests adding a required document field.
func SuggestMissingField(fieldName string, exampleValue string) string {
	if exampleValue != "" {
		return fmt.Sprintf("Add '%s: %s' to the configuration", fieldName, exampleValue)
	}
	return fmt.Sprintf("Add '%s' to the configuration", fieldName)
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	r1 := []rune(s1)
	r2 := []rune(s2)

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // Deletion
				curr[j-1]+1,    // Insertion
				prev[j-1]+cost, // Substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
