package services

import (
	"sync"
	"time"
)

// Identifier is a DataTypeIdentifier built from a predicate.
type Identifier struct {
	key      string
	sample   any
	supports func(value any) bool
}

// NewIdentifier creates an identifier for key. sample may be nil.
func NewIdentifier(key string, sample any, supports func(value any) bool) *Identifier {
	return &Identifier{key: key, sample: sample, supports: supports}
}

func (i *Identifier) LookupKey() string { return i.key }

func (i *Identifier) SupportsValue(value any) bool {
	return value != nil && i.supports(value)
}

func (i *Identifier) SampleValue() any { return i.sample }

// Name returns "<Key>Identifier".
func (i *Identifier) Name() string { return i.key + "Identifier" }

// IdentifierRegistry is an in-memory IdentifierService. Identify consults
// identifiers in registration order, so specific keys go first.
type IdentifierRegistry struct {
	mu          sync.RWMutex
	identifiers []DataTypeIdentifier
	byKey       map[string]DataTypeIdentifier
}

// NewIdentifierRegistry creates a registry holding ids.
func NewIdentifierRegistry(ids ...DataTypeIdentifier) *IdentifierRegistry {
	r := &IdentifierRegistry{byKey: make(map[string]DataTypeIdentifier)}
	for _, id := range ids {
		r.Register(id)
	}
	return r
}

// Register adds an identifier, replacing one with the same lookup key.
func (r *IdentifierRegistry) Register(id DataTypeIdentifier) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[id.LookupKey()]; exists {
		for i, existing := range r.identifiers {
			if existing.LookupKey() == id.LookupKey() {
				r.identifiers[i] = id
			}
		}
	} else {
		r.identifiers = append(r.identifiers, id)
	}
	r.byKey[id.LookupKey()] = id
}

func (r *IdentifierRegistry) Find(lookupKey string) (DataTypeIdentifier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byKey[lookupKey], nil
}

func (r *IdentifierRegistry) Identify(value any) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.identifiers {
		if id.SupportsValue(value) {
			return id.LookupKey(), nil
		}
	}
	return "", nil
}

// LookupKeys returns the registered keys in registration order.
func (r *IdentifierRegistry) LookupKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.identifiers))
	for _, id := range r.identifiers {
		keys = append(keys, id.LookupKey())
	}
	return keys
}

// BuiltinIdentifiers returns the identifiers for the built-in lookup keys.
// Integer precedes Number so that Go integers identify as Integer.
func BuiltinIdentifiers() []DataTypeIdentifier {
	return []DataTypeIdentifier{
		NewIdentifier(LookupKeyString, "sample", func(v any) bool {
			_, ok := v.(string)
			return ok
		}),
		NewIdentifier(LookupKeyBoolean, true, func(v any) bool {
			_, ok := v.(bool)
			return ok
		}),
		NewIdentifier(LookupKeyInteger, 10, isIntegerType),
		NewIdentifier(LookupKeyNumber, 1.5, func(v any) bool {
			_, ok := toFloat(v)
			return ok
		}),
		NewIdentifier(LookupKeyDate, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), func(v any) bool {
			_, ok := toTime(v)
			return ok
		}),
	}
}
