package settree

import "strings"

// Kind identifies whether a node is a group or a leaf.
type Kind uint8

const (
	// KindGroup is a container of named child nodes.
	KindGroup Kind = iota
	// KindLeaf is a terminal node holding a single typed value.
	KindLeaf
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// Node is a single node of a settings tree: a group owning ordered, named
// children, or a leaf holding a typed, constrained value. Nodes are created
// and mutated only through Tree operations; the exported surface is
// read-only.
type Node struct {
	name   string
	kind   Kind
	parent *Node

	// Group state. children preserves insertion order; index is a
	// name lookup over the same nodes.
	children []*Node
	index    map[string]*Node

	// Leaf state.
	valueKind   ValueKind
	value       any
	def         any
	constraints *Constraints
	description string
}

// Name returns the node's name. The root's name is empty.
func (n *Node) Name() string {
	return n.name
}

// Kind returns whether the node is a group or a leaf.
func (n *Node) Kind() Kind {
	return n.kind
}

// Path returns the dot-separated path from the root. The root's path is
// empty.
func (n *Node) Path() string {
	if n.parent == nil {
		return ""
	}
	parts := make([]string, 0, 4)
	for cur := n; cur.parent != nil; cur = cur.parent {
		parts = append(parts, cur.name)
	}
	// parts were collected leaf-first
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// ValueKind returns the leaf's value kind. Meaningless for groups.
func (n *Node) ValueKind() ValueKind {
	return n.valueKind
}

// Value returns the leaf's current value, or nil for groups. Lists are
// copied so callers cannot mutate tree state.
func (n *Node) Value() any {
	return copyValue(n.value)
}

// Default returns the leaf's default value, or nil for groups.
func (n *Node) Default() any {
	return copyValue(n.def)
}

// Description returns the leaf's human-readable description.
func (n *Node) Description() string {
	return n.description
}

// Constraints returns a copy of the leaf's constraints, or nil if the leaf
// is unconstrained or the node is a group.
func (n *Node) Constraints() *Constraints {
	return n.constraints.clone()
}

// NumChildren returns the number of immediate children of a group.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// child returns the named child, or nil.
func (n *Node) child(name string) *Node {
	if n.index == nil {
		return nil
	}
	return n.index[name]
}

// addChild appends a child, preserving insertion order. The caller has
// already checked for duplicates.
func (n *Node) addChild(c *Node) {
	if n.index == nil {
		n.index = make(map[string]*Node)
	}
	c.parent = n
	n.children = append(n.children, c)
	n.index[c.name] = c
}

// removeChild detaches the named child and returns it, or nil if absent.
func (n *Node) removeChild(name string) *Node {
	c := n.child(name)
	if c == nil {
		return nil
	}
	for i, cur := range n.children {
		if cur == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
	delete(n.index, name)
	c.parent = nil
	return c
}

// copyValue copies list values so callers cannot alias tree state.
func copyValue(v any) any {
	if items, ok := v.([]any); ok {
		return append([]any(nil), items...)
	}
	return v
}

// joinPath joins a parent path and a child name.
func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// splitPath splits a dot-separated path into parts. Empty segments are
// skipped, so "a..b" resolves like "a.b".
func splitPath(path string) []string {
	if path == "" {
		return nil
	}

	var parts []string
	current := ""
	for _, c := range path {
		if c == '.' {
			if current != "" {
				parts = append(parts, current)
				current = ""
			}
		} else {
			current += string(c)
		}
	}
	if current != "" {
		parts = append(parts, current)
	}
	return parts
}
