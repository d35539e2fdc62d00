package services

import "strings"

// LookupKeyFallbacks is an in-memory LookupKeyFallbackService.
type LookupKeyFallbacks struct {
	related map[string]string
}

// NewLookupKeyFallbacks creates a fallback map from key to related key.
func NewLookupKeyFallbacks(related map[string]string) *LookupKeyFallbacks {
	f := &LookupKeyFallbacks{related: make(map[string]string, len(related))}
	for key, value := range related {
		f.related[key] = value
	}
	return f
}

// Find returns the related key. An exact match wins over a case-insensitive one.
func (f *LookupKeyFallbacks) Find(lookupKey string) (string, error) {
	if related, ok := f.related[lookupKey]; ok {
		return related, nil
	}
	for key, related := range f.related {
		if strings.EqualFold(key, lookupKey) {
			return related, nil
		}
	}
	return "", nil
}

// LookupKeys returns both sides of every mapping.
func (f *LookupKeyFallbacks) LookupKeys() []string {
	keys := make([]string, 0, len(f.related)*2)
	for key, related := range f.related {
		keys = append(keys, key, related)
	}
	return keys
}

// With returns a copy including the extra mappings.
func (f *LookupKeyFallbacks) With(extra map[string]string) *LookupKeyFallbacks {
	merged := NewLookupKeyFallbacks(f.related)
	for key, value := range extra {
		merged.related[key] = value
	}
	return merged
}
