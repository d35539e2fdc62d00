package analysis

import (
	"strings"

	"mercator-hq/valcheck/pkg/analysis/results"
	"mercator-hq/valcheck/pkg/vcl/ast"
)

// keyTable canonicalizes lookup keys and owns the lookup-key records of one
// run. Keys compare case-insensitively after trimming. A registered key's
// spelling wins; otherwise the first spelling seen wins.
type keyTable struct {
	registered map[string]string
	records    map[string]*results.LookupKeyResult
	order      []*results.LookupKeyResult
	services   map[string]results.Node
}

func newKeyTable(registered []string) *keyTable {
	t := &keyTable{
		registered: make(map[string]string, len(registered)),
		records:    make(map[string]*results.LookupKeyResult),
		services:   make(map[string]results.Node),
	}
	for _, k := range registered {
		k = strings.TrimSpace(k)
		lower := strings.ToLower(k)
		if _, exists := t.registered[lower]; !exists && k != "" {
			t.registered[lower] = k
		}
	}
	return t
}

// canonical returns the key to use for raw and whether it differs from raw
// by more than surrounding whitespace or case.
func (t *keyTable) canonical(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	lower := strings.ToLower(trimmed)
	if k, ok := t.registered[lower]; ok {
		return k, k != raw
	}
	if rec, ok := t.records[lower]; ok {
		return rec.LookupKey, rec.LookupKey != raw
	}
	return trimmed, trimmed != raw
}

// record returns the record for a canonical key, creating it on first use.
func (t *keyTable) record(key string, loc ast.Location) *results.LookupKeyResult {
	lower := strings.ToLower(key)
	if rec, ok := t.records[lower]; ok {
		return rec
	}
	rec := &results.LookupKeyResult{LookupKey: key, Location: loc}
	t.records[lower] = rec
	t.order = append(t.order, rec)
	return rec
}

// service returns the service node of rec identified by parts, building and
// attaching it on first use so each lookup runs once per run. created is true
// when build ran.
func (t *keyTable) service(rec *results.LookupKeyResult, build func() results.Node, parts ...string) (n results.Node, created bool) {
	id := strings.ToLower(rec.LookupKey + "\x00" + strings.Join(parts, "\x00"))
	if existing, ok := t.services[id]; ok {
		return existing, false
	}
	n = build()
	t.services[id] = n
	rec.Services = append(rec.Services, n)
	return n, true
}
