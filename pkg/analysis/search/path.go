package search

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"mercator-hq/valcheck/pkg/analysis/results"
)

// Segment is one step of a result path.
type Segment struct {
	// Key is the kind, suffixed with "#n" for the n-th occurrence of the
	// same kind along the path.
	Key        string       `json:"key"`
	Kind       results.Kind `json:"kind"`
	Identifier string       `json:"identifier,omitempty"`
	Node       results.Node `json:"-"`
}

// Path locates a node from its root. It encodes to JSON as an ordered object
// from key to identifier, with null for nodes lacking one.
type Path []Segment

// Get returns the identifier stored under key.
func (p Path) Get(key string) (string, bool) {
	for _, s := range p {
		if s.Key == key {
			return s.Identifier, true
		}
	}
	return "", false
}

// Keys returns the segment keys in order.
func (p Path) Keys() []string {
	keys := make([]string, len(p))
	for i, s := range p {
		keys[i] = s.Key
	}
	return keys
}

// Parent returns the node containing the last segment's node, or nil for roots.
func (p Path) Parent() results.Node {
	if len(p) < 2 {
		return nil
	}
	return p[len(p)-2].Node
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.Key + "=" + s.Identifier
	}
	return strings.Join(parts, "/")
}

func (p Path) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Key)
		if err != nil {
			return nil, fmt.Errorf("encode path key: %w", err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		if s.Identifier == "" {
			buf.WriteString("null")
			continue
		}
		id, err := json.Marshal(s.Identifier)
		if err != nil {
			return nil, fmt.Errorf("encode path identifier: %w", err)
		}
		buf.Write(id)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// pathBuilder appends segments and tracks repeated kinds.
type pathBuilder struct {
	segments Path
	seen     map[results.Kind]int
}

func newPathBuilder() *pathBuilder {
	return &pathBuilder{seen: make(map[results.Kind]int)}
}

func (b *pathBuilder) push(node results.Node, identifier string) {
	kind := node.Kind()
	b.seen[kind]++
	key := string(kind)
	if n := b.seen[kind]; n > 1 {
		key = fmt.Sprintf("%s#%d", kind, n)
	}
	b.segments = append(b.segments, Segment{Key: key, Kind: kind, Identifier: identifier, Node: node})
}

func (b *pathBuilder) pop() {
	last := b.segments[len(b.segments)-1]
	b.seen[last.Kind]--
	b.segments = b.segments[:len(b.segments)-1]
}

// snapshot copies the current path.
func (b *pathBuilder) snapshot() Path {
	return append(Path(nil), b.segments...)
}
