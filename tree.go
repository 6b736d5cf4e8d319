package settree

import (
	"fmt"
	"iter"
	"strings"

	"github.com/dshills/settree/notify"
)

// Tree is a hierarchical settings container: a root group owning nested
// groups and typed, constrained leaf values, addressed by dot-separated
// paths. Mutations are validated atomically and announced to subscribers
// synchronously, in subscription order, before the mutating call returns.
//
// A Tree is designed for single-threaded, cooperative use matching a GUI
// event loop. It makes no internal attempt at thread safety; a host that
// needs multi-threaded access must serialize access to a given Tree
// externally.
type Tree struct {
	root     *Node
	notifier *notify.Notifier
	dirty    bool

	// notifying guards against re-entrant mutation from observer
	// callbacks, which would otherwise allow notification cycles.
	notifying bool
}

// sourceUser marks changes made through the programmatic API; sourceLoad
// marks bulk loads.
const (
	sourceUser = "user"
	sourceLoad = "load"
)

// New creates an empty tree with a single group node at the root.
func New() *Tree {
	return &Tree{
		root:     &Node{kind: KindGroup},
		notifier: notify.New(),
	}
}

// Lookup returns the node at the given path. The empty path resolves to the
// root group.
func (t *Tree) Lookup(path string) (*Node, error) {
	return t.resolve(path)
}

// AddGroup creates a child group named name under the group at parentPath.
func (t *Tree) AddGroup(parentPath, name string) error {
	if t.notifying {
		return ErrReentrantMutation
	}

	parent, err := t.resolveGroup(parentPath)
	if err != nil {
		return err
	}
	if err := checkName(name); err != nil {
		return err
	}
	if parent.child(name) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateName, joinPath(parentPath, name))
	}

	parent.addChild(&Node{name: name, kind: KindGroup})
	t.dirty = true
	t.deliver(func() {
		t.notifier.NotifyAdd(joinPath(parentPath, name), nil, sourceUser)
	})
	return nil
}

// LeafOption configures a leaf created by AddLeaf.
type LeafOption func(*Node)

// WithConstraints attaches constraints to the leaf.
func WithConstraints(c Constraints) LeafOption {
	return func(n *Node) {
		n.constraints = c.clone()
	}
}

// WithDescription attaches a human-readable description to the leaf.
func WithDescription(desc string) LeafOption {
	return func(n *Node) {
		n.description = desc
	}
}

// AddLeaf creates a leaf child named name under the group at parentPath,
// with the given value kind and default. The default must satisfy the
// leaf's constraints; its value starts at the default. A nil default falls
// back to the kind's zero value (first allowed value for enums), which must
// itself satisfy the constraints.
func (t *Tree) AddLeaf(parentPath, name string, kind ValueKind, def any, opts ...LeafOption) error {
	if t.notifying {
		return ErrReentrantMutation
	}

	parent, err := t.resolveGroup(parentPath)
	if err != nil {
		return err
	}
	if err := checkName(name); err != nil {
		return err
	}
	if parent.child(name) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateName, joinPath(parentPath, name))
	}

	leaf := &Node{name: name, kind: KindLeaf, valueKind: kind}
	for _, opt := range opts {
		opt(leaf)
	}

	path := joinPath(parentPath, name)
	if def == nil {
		def = zeroValue(kind, leaf.constraints)
	}
	normalized, err := validateLeafValue(path, leaf, def)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDefault, err)
	}
	leaf.def = normalized
	leaf.value = copyValue(normalized)

	parent.addChild(leaf)
	t.dirty = true
	t.deliver(func() {
		t.notifier.NotifyAdd(path, leaf.Value(), sourceUser)
	})
	return nil
}

// Get returns the current value of the leaf at path.
func (t *Tree) Get(path string) (any, error) {
	leaf, err := t.resolveLeaf(path)
	if err != nil {
		return nil, err
	}
	return leaf.Value(), nil
}

// Set validates value against the leaf's kind and constraints and, on
// success, replaces the leaf's value, marks the tree dirty, and notifies
// subscribers with the old and new values. On failure the value is
// unchanged and nothing is emitted.
func (t *Tree) Set(path string, value any) error {
	if t.notifying {
		return ErrReentrantMutation
	}

	leaf, err := t.resolveLeaf(path)
	if err != nil {
		return err
	}

	normalized, err := validateLeafValue(path, leaf, value)
	if err != nil {
		return err
	}

	old := leaf.Value()
	leaf.value = normalized
	t.dirty = true
	t.deliver(func() {
		t.notifier.NotifySet(path, old, leaf.Value(), sourceUser)
	})
	return nil
}

// Remove detaches the node at path, and with it its entire subtree, from
// its parent. The root cannot be removed.
func (t *Tree) Remove(path string) error {
	if t.notifying {
		return ErrReentrantMutation
	}

	if path == "" {
		return ErrCannotRemoveRoot
	}
	node, err := t.resolve(path)
	if err != nil {
		return err
	}

	var old any
	if node.kind == KindLeaf {
		old = node.Value()
	}
	node.parent.removeChild(node.name)
	t.dirty = true
	t.deliver(func() {
		t.notifier.NotifyRemove(path, old, sourceUser)
	})
	return nil
}

// Children returns a lazy, restartable sequence of the immediate child
// names of the group at path, in insertion order.
func (t *Tree) Children(path string) (iter.Seq[string], error) {
	group, err := t.resolveGroup(path)
	if err != nil {
		return nil, err
	}
	return func(yield func(string) bool) {
		for _, c := range group.children {
			if !yield(c.name) {
				return
			}
		}
	}, nil
}

// Walk returns a lazy, restartable pre-order sequence of (path, node) over
// the whole tree, starting with the root at the empty path.
func (t *Tree) Walk() iter.Seq2[string, *Node] {
	return func(yield func(string, *Node) bool) {
		walkNode(t.root, "", yield)
	}
}

func walkNode(n *Node, path string, yield func(string, *Node) bool) bool {
	if !yield(path, n) {
		return false
	}
	for _, c := range n.children {
		if !walkNode(c, joinPath(path, c.name), yield) {
			return false
		}
	}
	return true
}

// Subscribe registers an observer for every value and structural change.
// Observers run synchronously, in subscription order, before the mutating
// call returns. Call Unsubscribe on the returned handle to stop.
func (t *Tree) Subscribe(observer notify.Observer) *notify.Subscription {
	return t.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes at or below a path.
func (t *Tree) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return t.notifier.SubscribePath(path, observer)
}

// IsDirty reports whether the tree has unsaved mutations since the last
// MarkClean.
func (t *Tree) IsDirty() bool {
	return t.dirty
}

// MarkClean clears the dirty flag. The persistence collaborator calls this
// after a successful save.
func (t *Tree) MarkClean() {
	t.dirty = false
}

// deliver runs fn with the re-entrancy guard held so observer callbacks
// cannot mutate the tree mid-notification.
func (t *Tree) deliver(fn func()) {
	t.notifying = true
	defer func() { t.notifying = false }()
	fn()
}

// resolve walks the tree to the node at path.
func (t *Tree) resolve(path string) (*Node, error) {
	current := t.root
	for _, part := range splitPath(path) {
		if current.kind != KindGroup {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		next := current.child(part)
		if next == nil {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		current = next
	}
	return current, nil
}

// resolveGroup resolves path and requires a group.
func (t *Tree) resolveGroup(path string) (*Node, error) {
	node, err := t.resolve(path)
	if err != nil {
		return nil, err
	}
	if node.kind != KindGroup {
		return nil, fmt.Errorf("%w: %s", ErrNotAGroup, pathLabel(path))
	}
	return node, nil
}

// resolveLeaf resolves path and requires a leaf.
func (t *Tree) resolveLeaf(path string) (*Node, error) {
	node, err := t.resolve(path)
	if err != nil {
		return nil, err
	}
	if node.kind != KindLeaf {
		return nil, fmt.Errorf("%w: %s", ErrNotALeaf, pathLabel(path))
	}
	return node, nil
}

// validateLeafValue normalizes value for the leaf's kind and checks it
// against the leaf's constraints.
func validateLeafValue(path string, leaf *Node, value any) (any, error) {
	normalized, err := normalizeValue(path, leaf.valueKind, value)
	if err != nil {
		return nil, err
	}
	if err := leaf.constraints.check(path, leaf.valueKind, normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// zeroValue returns the fallback default for a kind. Enums fall back to
// their first allowed value.
func zeroValue(kind ValueKind, c *Constraints) any {
	switch kind {
	case ValueBool:
		return false
	case ValueInt:
		return int64(0)
	case ValueFloat:
		return float64(0)
	case ValueString:
		return ""
	case ValueEnum:
		if c != nil && len(c.Allowed) > 0 {
			return c.Allowed[0]
		}
		return ""
	case ValueList:
		return []any{}
	default:
		return nil
	}
}

// checkName rejects names that would break path addressing.
func checkName(name string) error {
	if name == "" || strings.Contains(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
