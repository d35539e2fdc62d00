package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// CultureRegistry is an in-memory CultureService. Culture ids are matched
// case-insensitively. It is immutable after construction.
type CultureRegistry struct {
	cultures map[string]CultureConfig
	order    []string
}

// NewCultureRegistry creates a registry in the given order; the order is the
// active culture order. Later duplicates replace earlier ones.
func NewCultureRegistry(cultures ...CultureConfig) *CultureRegistry {
	r := &CultureRegistry{cultures: make(map[string]CultureConfig, len(cultures))}
	for _, c := range cultures {
		key := strings.ToLower(c.CultureID)
		if _, exists := r.cultures[key]; !exists {
			r.order = append(r.order, c.CultureID)
		}
		r.cultures[key] = c
	}
	return r
}

// Find returns the culture, or nil when it is not registered.
func (r *CultureRegistry) Find(cultureID string) (*CultureConfig, error) {
	c, ok := r.cultures[strings.ToLower(cultureID)]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// ActiveCultures returns the registered culture ids in registration order.
func (r *CultureRegistry) ActiveCultures() []string {
	return append([]string(nil), r.order...)
}

// WithDerivedFallbacks returns a copy in which every culture lacking a fallback
// falls back to its CLDR parent or base language, when that culture is registered.
// "en-GB" gets "en" once "en" is registered.
func (r *CultureRegistry) WithDerivedFallbacks() *CultureRegistry {
	derived := make([]CultureConfig, 0, len(r.order))
	for _, id := range r.order {
		c := r.cultures[strings.ToLower(id)]
		if c.FallbackCultureID == "" {
			c.FallbackCultureID = r.parentOf(c.CultureID)
		}
		derived = append(derived, c)
	}
	return NewCultureRegistry(derived...)
}

// parentOf finds a registered ancestor of cultureID.
func (r *CultureRegistry) parentOf(cultureID string) string {
	tag, err := language.Parse(cultureID)
	if err != nil {
		return ""
	}

	candidates := []language.Tag{tag.Parent()}
	if base, conf := tag.Base(); conf != language.No {
		candidates = append(candidates, language.Make(base.String()))
	}

	for _, candidate := range candidates {
		if candidate == language.Und || candidate == tag {
			continue
		}
		if c, ok := r.cultures[strings.ToLower(candidate.String())]; ok {
			return c.CultureID
		}
	}
	return ""
}

// ValidateCultureID checks that id is a well-formed BCP 47 tag.
func ValidateCultureID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("culture id is empty")
	}
	if _, err := language.Parse(id); err != nil {
		return fmt.Errorf("culture id %q is not a valid language tag: %w", id, err)
	}
	return nil
}

// cultureTag parses a culture id, defaulting to undetermined.
func cultureTag(cultureID string) language.Tag {
	tag, err := language.Parse(cultureID)
	if err != nil {
		return language.Und
	}
	return tag
}
