package results

import "strings"

// Tree is the diagnostic tree produced by one analysis. It is not modified
// after the analyzer returns it.
type Tree struct {
	Fields     []*FieldResult     `json:"fields"`
	LookupKeys []*LookupKeyResult `json:"lookupKeys"`
	Cultures   []string           `json:"cultures"`
}

// Roots returns the top-level nodes: fields first, then lookup-key records.
func (t *Tree) Roots() []Node {
	roots := make([]Node, 0, len(t.Fields)+len(t.LookupKeys))
	for _, f := range t.Fields {
		roots = append(roots, f)
	}
	for _, lk := range t.LookupKeys {
		roots = append(roots, lk)
	}
	return roots
}

// Field returns the first field result with the given name.
func (t *Tree) Field(name string) *FieldResult {
	for _, f := range t.Fields {
		if f.FieldName == name {
			return f
		}
	}
	return nil
}

// LookupKey returns the record for key, compared case-insensitively after
// trimming.
func (t *Tree) LookupKey(key string) *LookupKeyResult {
	key = strings.TrimSpace(key)
	for _, lk := range t.LookupKeys {
		if strings.EqualFold(lk.LookupKey, key) {
			return lk
		}
	}
	return nil
}

// FormatterService returns the formatter outcome of a lookup-key record.
func (r *LookupKeyResult) FormatterService() *FormatterServiceResult {
	for _, s := range r.Services {
		if f, ok := s.(*FormatterServiceResult); ok {
			return f
		}
	}
	return nil
}

// ParserService returns the parser outcome of a lookup-key record.
func (r *LookupKeyResult) ParserService() *ParserServiceResult {
	for _, s := range r.Services {
		if p, ok := s.(*ParserServiceResult); ok {
			return p
		}
	}
	return nil
}

// IdentifierService returns the identifier outcome of a lookup-key record.
func (r *LookupKeyResult) IdentifierService() *IdentifierServiceResult {
	for _, s := range r.Services {
		if id, ok := s.(*IdentifierServiceResult); ok {
			return id
		}
	}
	return nil
}

// Culture returns the per-culture outcome for the requested culture.
func (r *FormatterServiceResult) Culture(cultureID string) *FormatterForCultureResult {
	for _, c := range r.Cultures {
		if strings.EqualFold(c.RequestedCultureID, cultureID) {
			return c
		}
	}
	return nil
}

// Culture returns the per-culture outcome for the requested culture.
func (r *ParserServiceResult) Culture(cultureID string) *ParserForCultureResult {
	for _, c := range r.Cultures {
		if strings.EqualFold(c.RequestedCultureID, cultureID) {
			return c
		}
	}
	return nil
}
