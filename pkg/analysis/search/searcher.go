package search

import (
	"log/slog"

	"mercator-hq/valcheck/pkg/analysis/results"
)

// Result is a node matched by a search together with its path.
type Result struct {
	Node results.Node `json:"node"`
	Path Path         `json:"path"`
}

// TraceFunc observes every node evaluation in traversal order.
type TraceFunc func(node results.Node, path Path, match Match)

// Searcher queries diagnostic trees with one set of criteria. It never
// modifies the tree and is safe for concurrent use once configured.
type Searcher struct {
	criteria Criteria
	registry *Registry
	trace    TraceFunc
	logger   *slog.Logger
}

// NewSearcher creates a searcher over the default node types.
func NewSearcher(criteria Criteria) *Searcher {
	return &Searcher{
		criteria: criteria,
		registry: DefaultRegistry(),
	}
}

// WithRegistry replaces the node-type registry.
func (s *Searcher) WithRegistry(r *Registry) *Searcher {
	s.registry = r
	return s
}

// WithTrace installs a hook called for every evaluated node.
func (s *Searcher) WithTrace(fn TraceFunc) *Searcher {
	s.trace = fn
	return s
}

// WithLogger enables debug logging of evaluations.
func (s *Searcher) WithLogger(logger *slog.Logger) *Searcher {
	s.logger = logger
	return s
}

// Criteria returns a copy of the searcher's criteria.
func (s *Searcher) Criteria() Criteria {
	return s.criteria
}

// Evaluate matches a single node against the criteria.
func (s *Searcher) Evaluate(node results.Node) Match {
	nt := s.registry.Get(node.Kind())
	matches := make([]Match, 0, len(nt.Criteria)+2)
	matches = append(matches, MatchKind(node, &s.criteria), MatchSeverity(node, &s.criteria))
	for _, criterion := range nt.Criteria {
		matches = append(matches, criterion(node, &s.criteria))
	}
	return Combine(matches...)
}

// Collect returns every node matching exactly, depth-first in pre-order.
func (s *Searcher) Collect(roots ...results.Node) []Result {
	var found []Result
	b := newPathBuilder()
	for _, root := range roots {
		s.walk(root, b, func(r Result) bool {
			found = append(found, r)
			return true
		})
	}
	return found
}

// FindOne returns the first matching node in document order, or nil.
// Traversal stops at the first match.
func (s *Searcher) FindOne(roots ...results.Node) *Result {
	var found *Result
	b := newPathBuilder()
	for _, root := range roots {
		if !s.walk(root, b, func(r Result) bool {
			found = &r
			return false
		}) {
			break
		}
	}
	return found
}

// HasMatch reports whether any node matches.
func (s *Searcher) HasMatch(roots ...results.Node) bool {
	return s.FindOne(roots...) != nil
}

// Count returns the number of matching nodes.
func (s *Searcher) Count(roots ...results.Node) int {
	return len(s.Collect(roots...))
}

// walk visits node and its subtree. emit returns false to stop the whole
// traversal; walk then returns false too.
func (s *Searcher) walk(node results.Node, b *pathBuilder, emit func(Result) bool) bool {
	nt := s.registry.Get(node.Kind())
	b.push(node, nt.Identifier(node))
	defer b.pop()

	match := s.Evaluate(node)
	if s.trace != nil {
		s.trace(node, b.snapshot(), match)
	}
	if s.logger != nil {
		s.logger.Debug("search node evaluated",
			"path", b.segments.String(),
			"match", match.String(),
		)
	}

	if match == Matched && !emit(Result{Node: node, Path: b.snapshot()}) {
		return false
	}

	if match == Mismatch && s.criteria.SkipChildrenIfParentMismatch {
		return true
	}

	for _, child := range nt.Children(node) {
		if !s.walk(child, b, emit) {
			return false
		}
	}
	return true
}

// Collect searches tree with criteria using the default node types.
func Collect(tree *results.Tree, criteria Criteria) []Result {
	return NewSearcher(criteria).Collect(tree.Roots()...)
}

// FindOne returns the first node of tree matching criteria, or nil.
func FindOne(tree *results.Tree, criteria Criteria) *Result {
	return NewSearcher(criteria).FindOne(tree.Roots()...)
}

// HasMatch reports whether any node of tree matches criteria.
func HasMatch(tree *results.Tree, criteria Criteria) bool {
	return NewSearcher(criteria).HasMatch(tree.Roots()...)
}

// Count returns the number of nodes of tree matching criteria.
func Count(tree *results.Tree, criteria Criteria) int {
	return NewSearcher(criteria).Count(tree.Roots()...)
}
