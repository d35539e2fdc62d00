package services

import "strings"

// TextLocalizer is an in-memory TextLocalizerService keyed by culture then
// localization key. Culture ids are matched case-insensitively.
type TextLocalizer struct {
	texts map[string]map[string]string
}

// NewTextLocalizer copies texts, a map of culture id to key to text.
func NewTextLocalizer(texts map[string]map[string]string) *TextLocalizer {
	l := &TextLocalizer{texts: make(map[string]map[string]string, len(texts))}
	for culture, entries := range texts {
		target := l.texts[strings.ToLower(culture)]
		if target == nil {
			target = make(map[string]string, len(entries))
			l.texts[strings.ToLower(culture)] = target
		}
		for key, text := range entries {
			target[key] = text
		}
	}
	return l
}

// Localize returns the text for key in exactly cultureID.
func (l *TextLocalizer) Localize(cultureID, l10nKey string) (string, bool, error) {
	text, ok := l.texts[strings.ToLower(cultureID)][l10nKey]
	return text, ok, nil
}
