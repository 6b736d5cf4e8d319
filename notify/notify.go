// Package notify provides change notification for settings trees.
//
// The notify package implements an observer pattern that allows components
// to subscribe to tree changes and receive callbacks when values are set or
// the structure changes. Delivery is synchronous and in registration order:
// every observer runs to completion before the mutating call returns, so a
// callback always observes the tree in its post-mutation state.
package notify

import (
	"sync"

	"github.com/google/uuid"
)

// ChangeType represents the type of tree change.
type ChangeType int

const (
	// ChangeSet indicates a leaf value was set.
	ChangeSet ChangeType = iota

	// ChangeAdd indicates a node was added.
	ChangeAdd

	// ChangeRemove indicates a node (and any subtree) was removed.
	ChangeRemove

	// ChangeLoad indicates values were bulk-loaded into the tree.
	ChangeLoad
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeAdd:
		return "add"
	case ChangeRemove:
		return "remove"
	case ChangeLoad:
		return "load"
	default:
		return "unknown"
	}
}

// Change represents a tree change event.
type Change struct {
	// Path is the dot-separated path to the changed node.
	// Empty for load events.
	Path string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous value (nil for adds and loads).
	OldValue any

	// NewValue is the new value (nil for removes and loads).
	NewValue any

	// Source identifies where the change came from.
	Source string
}

// Observer is called when a tree change occurs.
type Observer func(change Change)

// Subscription is the disposable handle returned by Subscribe.
type Subscription struct {
	id       uuid.UUID
	path     string
	notifier *Notifier
}

// ID returns the opaque subscription identifier.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Unsubscribe removes this subscription. No further notifications are
// delivered after it returns. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// entry pairs an observer with its registration metadata.
type entry struct {
	id       uuid.UUID
	path     string
	pathOnly bool
	observer Observer
}

// Notifier manages tree change subscriptions. Observers are stored in
// registration order and notified in that order.
type Notifier struct {
	mu      sync.Mutex
	entries []entry
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.add(entry{observer: observer})
}

// SubscribePath registers an observer for changes at or below a path.
// For example, subscribing to "display" receives changes to
// "display.brightness".
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	return n.add(entry{path: path, pathOnly: true, observer: observer})
}

func (n *Notifier) add(e entry) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	e.id = uuid.New()
	n.entries = append(n.entries, e)

	return &Subscription{
		id:       e.id,
		path:     e.path,
		notifier: n,
	}
}

// Notify delivers a change to all matching observers, synchronously, in
// registration order.
func (n *Notifier) Notify(change Change) {
	n.mu.Lock()
	observers := make([]Observer, 0, len(n.entries))
	for _, e := range n.entries {
		if e.matches(change) {
			observers = append(observers, e.observer)
		}
	}
	n.mu.Unlock()

	// Observers run outside the lock so they can manage subscriptions.
	for _, obs := range observers {
		obs(change)
	}
}

// NotifySet is a convenience method for value changes.
func (n *Notifier) NotifySet(path string, oldValue, newValue any, source string) {
	n.Notify(Change{
		Path:     path,
		Type:     ChangeSet,
		OldValue: oldValue,
		NewValue: newValue,
		Source:   source,
	})
}

// NotifyAdd is a convenience method for added nodes.
func (n *Notifier) NotifyAdd(path string, newValue any, source string) {
	n.Notify(Change{
		Path:     path,
		Type:     ChangeAdd,
		NewValue: newValue,
		Source:   source,
	})
}

// NotifyRemove is a convenience method for removed nodes.
func (n *Notifier) NotifyRemove(path string, oldValue any, source string) {
	n.Notify(Change{
		Path:     path,
		Type:     ChangeRemove,
		OldValue: oldValue,
		Source:   source,
	})
}

// NotifyLoad is a convenience method for bulk-load events.
func (n *Notifier) NotifyLoad(source string) {
	n.Notify(Change{
		Type:   ChangeLoad,
		Source: source,
	})
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.entries)
}

// unsubscribe removes an observer by ID.
func (n *Notifier) unsubscribe(id uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, e := range n.entries {
		if e.id == id {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			return
		}
	}
}

// matches reports whether the entry should receive the change.
func (e entry) matches(change Change) bool {
	if !e.pathOnly {
		return true
	}
	// Load events reach every path observer.
	if change.Path == "" {
		return true
	}
	return e.path == change.Path || isParentPath(e.path, change.Path)
}

// isParentPath checks if parent is a parent path of child.
// e.g., "display" is parent of "display.brightness".
func isParentPath(parent, child string) bool {
	if len(parent) >= len(child) {
		return false
	}
	if parent == "" {
		return true
	}
	return child[:len(parent)] == parent && child[len(parent)] == '.'
}
