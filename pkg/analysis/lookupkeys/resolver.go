package lookupkeys

import (
	"fmt"
	"strings"

	"mercator-hq/valcheck/pkg/services"
)

// FieldContext identifies the field on whose behalf a sample is requested.
type FieldContext struct {
	FieldName string
	DataType  string
}

// SampleValues are sample values supplied by the caller, keyed by field name
// or by lookup key. Lookup keys compare case-insensitively.
type SampleValues struct {
	ByField     map[string]any `yaml:"by_field,omitempty"`
	ByLookupKey map[string]any `yaml:"by_lookup_key,omitempty"`
}

// SampleResolver finds a representative value for a lookup key so converter
// and comparer lookups have something to test with. It memoizes what it finds
// and is meant for a single analysis run.
type SampleResolver struct {
	identifiers services.IdentifierService
	fallbacks   services.LookupKeyFallbackService
	explicit    SampleValues
	memo        map[string]any
}

// NewSampleResolver creates a resolver over the registry's identifier and
// fallback services.
func NewSampleResolver(reg *services.Registry, explicit SampleValues) *SampleResolver {
	return &SampleResolver{
		identifiers: reg.Identifiers,
		fallbacks:   reg.LookupKeyFallbacks,
		explicit:    explicit,
		memo:        make(map[string]any),
	}
}

// Resolve returns a sample for lookupKey. It tries, in order: the explicit
// value for the field, the explicit value for the key, earlier results, the
// key's identifier, the key's remap and finally the field's declared data type.
// A failing identifier or fallback service stops the search with its error.
func (r *SampleResolver) Resolve(lookupKey string, field *FieldContext) (any, bool, error) {
	return r.resolve(strings.TrimSpace(lookupKey), field, make(map[string]bool))
}

func (r *SampleResolver) resolve(key string, field *FieldContext, visited map[string]bool) (any, bool, error) {
	if field != nil {
		if v, ok := r.explicit.ByField[field.FieldName]; ok && v != nil {
			return v, true, nil
		}
	}

	if key != "" {
		lower := strings.ToLower(key)
		if visited[lower] {
			return nil, false, nil
		}
		visited[lower] = true

		if v, ok := lookupFold(r.explicit.ByLookupKey, key); ok && v != nil {
			return v, true, nil
		}
		if v, ok := r.memo[lower]; ok {
			return v, true, nil
		}
		v, err := r.identifierSample(key)
		if err != nil {
			return nil, false, err
		}
		if v != nil {
			r.memo[lower] = v
			return v, true, nil
		}
		remap, err := r.remap(key)
		if err != nil {
			return nil, false, err
		}
		if remap != "" {
			v, ok, err := r.resolve(remap, nil, visited)
			if err != nil {
				return nil, false, err
			}
			if ok {
				r.memo[lower] = v
				return v, true, nil
			}
		}
	}

	if field != nil && field.DataType != "" && !strings.EqualFold(field.DataType, key) {
		return r.resolve(strings.TrimSpace(field.DataType), nil, visited)
	}
	return nil, false, nil
}

func (r *SampleResolver) identifierSample(key string) (sample any, err error) {
	if r.identifiers == nil {
		return nil, nil
	}
	defer recoverInto(&err)
	id, err := r.identifiers.Find(key)
	if err != nil || id == nil {
		return nil, err
	}
	return id.SampleValue(), nil
}

func (r *SampleResolver) remap(key string) (related string, err error) {
	if r.fallbacks == nil {
		return "", nil
	}
	defer recoverInto(&err)
	related, err = r.fallbacks.Find(key)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(related), nil
}

// recoverInto turns a panic of the deferring function into *err.
func recoverInto(err *error) {
	if p := recover(); p != nil {
		*err = fmt.Errorf("%v", p)
	}
}

func lookupFold(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}
