package search

import (
	"fmt"
	"sync"

	"mercator-hq/valcheck/pkg/analysis/results"
)

// NodeType is the strategy for one kind of node: how to name it, how to
// reach its children and which criteria pertain to it. Kind and severity
// criteria apply to every node and need not be listed.
type NodeType struct {
	Kind       results.Kind
	Identifier func(node results.Node) string
	Children   func(node results.Node) []results.Node
	Criteria   []Criterion
}

// UnregisteredKindError is the panic value raised when a node's kind has no
// registered NodeType. It indicates a wiring defect, not a bad configuration.
type UnregisteredKindError struct {
	Kind results.Kind
}

func (e *UnregisteredKindError) Error() string {
	return fmt.Sprintf("search: no node type registered for kind %q", e.Kind)
}

// Registry maps kinds to node types.
type Registry struct {
	mu    sync.RWMutex
	types map[results.Kind]*NodeType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[results.Kind]*NodeType)}
}

// Register adds or replaces the strategy for nt.Kind.
func (r *Registry) Register(nt *NodeType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[nt.Kind] = nt
}

// Get returns the strategy for kind. It panics with *UnregisteredKindError
// when none is registered.
func (r *Registry) Get(kind results.Kind) *NodeType {
	r.mu.RLock()
	nt, ok := r.types[kind]
	r.mu.RUnlock()
	if !ok {
		panic(&UnregisteredKindError{Kind: kind})
	}
	return nt
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind results.Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[kind]
	return ok
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the registry covering every kind in package results.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		r := NewRegistry()
		for _, nt := range builtinNodeTypes() {
			r.Register(nt)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
