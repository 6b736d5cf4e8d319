// Package settree provides a hierarchical, observable settings container.
//
// A Tree is a root group owning nested groups and typed leaf values,
// addressed by dot-separated paths such as "display.brightness". Each leaf
// carries a value kind (bool, int, float, string, enum, or list), a
// default, optional constraints (numeric ranges, allowed sets, string
// patterns), and a description for editor display. Mutations validate
// atomically: a rejected value leaves the tree untouched and emits nothing.
//
// # Structure
//
//	tree := settree.New()
//	_ = tree.AddGroup("", "display")
//	_ = tree.AddLeaf("display", "brightness", settree.ValueInt, 50,
//	    settree.WithConstraints(settree.Constraints{
//	        Minimum: settree.MinValue(0),
//	        Maximum: settree.MaxValue(100),
//	    }),
//	    settree.WithDescription("Screen brightness"))
//
//	v, _ := tree.Get("display.brightness") // int64(50)
//	err := tree.Set("display.brightness", 120) // ErrConstraintViolation
//
// # Observation
//
// Subscribers are notified synchronously, in subscription order, before the
// mutating call returns. Mutating the tree from inside a callback fails
// with ErrReentrantMutation.
//
//	sub := tree.Subscribe(func(c notify.Change) {
//	    fmt.Println(c.Path, c.OldValue, "->", c.NewValue)
//	})
//	defer sub.Unsubscribe()
//
// # Serialization
//
// Values exports the tree as a plain nested mapping; LoadValues applies one
// back, validating every value before anything changes. Snapshot and
// FromSnapshot round-trip the full tree including structure and metadata.
// The persist package stores value mappings as JSON, TOML, or YAML files
// and can watch them for live reload.
//
// # Concurrency
//
// A Tree is designed for single-threaded, cooperative use matching a GUI
// event loop. It makes no internal attempt at thread safety; serialize
// access externally if multiple goroutines share a tree.
//
// # Sub-packages
//
//   - schema: declarative tree structure, JSON-serializable, with builders
//   - notify: synchronous change notification and subscriptions
//   - persist: file persistence (JSON/TOML/YAML) and live reload
package settree
