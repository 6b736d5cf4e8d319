package settree

import (
	"errors"
	"testing"

	"github.com/dshills/settree/notify"
)

// displayTree builds the tree used across tests: a "display" group with a
// constrained brightness leaf and an enum orientation leaf.
func displayTree(t *testing.T) *Tree {
	t.Helper()

	tree := New()
	if err := tree.AddGroup("", "display"); err != nil {
		t.Fatalf("AddGroup(display) = %v", err)
	}
	err := tree.AddLeaf("display", "brightness", ValueInt, 50,
		WithConstraints(Constraints{Minimum: MinValue(0), Maximum: MaxValue(100)}),
		WithDescription("Screen brightness"))
	if err != nil {
		t.Fatalf("AddLeaf(brightness) = %v", err)
	}
	err = tree.AddLeaf("display", "orientation", ValueEnum, "landscape",
		WithConstraints(Constraints{Allowed: []any{"landscape", "portrait"}}))
	if err != nil {
		t.Fatalf("AddLeaf(orientation) = %v", err)
	}
	return tree
}

func TestNew(t *testing.T) {
	tree := New()

	root, err := tree.Lookup("")
	if err != nil {
		t.Fatalf("Lookup(root) = %v", err)
	}
	if root.Kind() != KindGroup {
		t.Errorf("root kind = %v, want group", root.Kind())
	}
	if root.NumChildren() != 0 {
		t.Errorf("root has %d children, want 0", root.NumChildren())
	}
	if tree.IsDirty() {
		t.Error("new tree is dirty")
	}
}

func TestTree_AddGroup(t *testing.T) {
	tree := New()

	if err := tree.AddGroup("", "display"); err != nil {
		t.Fatalf("AddGroup(display) = %v", err)
	}
	if err := tree.AddGroup("display", "colors"); err != nil {
		t.Fatalf("AddGroup(display.colors) = %v", err)
	}
	if !tree.IsDirty() {
		t.Error("tree is not dirty after AddGroup")
	}

	node, err := tree.Lookup("display.colors")
	if err != nil {
		t.Fatalf("Lookup(display.colors) = %v", err)
	}
	if node.Kind() != KindGroup {
		t.Errorf("kind = %v, want group", node.Kind())
	}
	if node.Path() != "display.colors" {
		t.Errorf("Path() = %q, want %q", node.Path(), "display.colors")
	}
}

func TestTree_AddGroup_Errors(t *testing.T) {
	tree := displayTree(t)

	tests := []struct {
		name       string
		parentPath string
		child      string
		want       error
	}{
		{"missing parent", "audio", "volume", ErrPathNotFound},
		{"parent is a leaf", "display.brightness", "sub", ErrNotAGroup},
		{"duplicate name", "", "display", ErrDuplicateName},
		{"empty name", "", "", ErrInvalidName},
		{"dotted name", "", "a.b", ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tree.AddGroup(tt.parentPath, tt.child); !errors.Is(err, tt.want) {
				t.Errorf("AddGroup(%q, %q) = %v, want %v", tt.parentPath, tt.child, err, tt.want)
			}
		})
	}
}

func TestTree_AddLeaf(t *testing.T) {
	tree := displayTree(t)

	v, err := tree.Get("display.brightness")
	if err != nil {
		t.Fatalf("Get = %v", err)
	}
	if v != int64(50) {
		t.Errorf("default value = %v, want 50", v)
	}

	node, err := tree.Lookup("display.brightness")
	if err != nil {
		t.Fatalf("Lookup = %v", err)
	}
	if node.Kind() != KindLeaf {
		t.Errorf("kind = %v, want leaf", node.Kind())
	}
	if node.ValueKind() != ValueInt {
		t.Errorf("value kind = %v, want int", node.ValueKind())
	}
	if node.Description() != "Screen brightness" {
		t.Errorf("description = %q", node.Description())
	}
	if node.Default() != int64(50) {
		t.Errorf("default = %v, want 50", node.Default())
	}
}

func TestTree_AddLeaf_DuplicateName(t *testing.T) {
	tree := displayTree(t)

	err := tree.AddLeaf("display", "brightness", ValueInt, 10)
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("second AddLeaf(brightness) = %v, want ErrDuplicateName", err)
	}
}

func TestTree_AddLeaf_InvalidDefault(t *testing.T) {
	tree := New()

	err := tree.AddLeaf("", "brightness", ValueInt, 500,
		WithConstraints(Constraints{Minimum: MinValue(0), Maximum: MaxValue(100)}))
	if !errors.Is(err, ErrInvalidDefault) {
		t.Errorf("AddLeaf with out-of-range default = %v, want ErrInvalidDefault", err)
	}

	err = tree.AddLeaf("", "name", ValueString, 42)
	if !errors.Is(err, ErrInvalidDefault) {
		t.Errorf("AddLeaf with mistyped default = %v, want ErrInvalidDefault", err)
	}
}

func TestTree_AddLeaf_NilDefault(t *testing.T) {
	tree := New()

	tests := []struct {
		name string
		kind ValueKind
		opts []LeafOption
		want any
	}{
		{"bool", ValueBool, nil, false},
		{"int", ValueInt, nil, int64(0)},
		{"float", ValueFloat, nil, float64(0)},
		{"string", ValueString, nil, ""},
		{"enum", ValueEnum, []LeafOption{WithConstraints(Constraints{Allowed: []any{"a", "b"}})}, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tree.AddLeaf("", tt.name, tt.kind, nil, tt.opts...); err != nil {
				t.Fatalf("AddLeaf = %v", err)
			}
			v, err := tree.Get(tt.name)
			if err != nil {
				t.Fatalf("Get = %v", err)
			}
			if v != tt.want {
				t.Errorf("zero default = %v (%T), want %v", v, v, tt.want)
			}
		})
	}
}

func TestTree_SetGet(t *testing.T) {
	tree := displayTree(t)

	if err := tree.Set("display.brightness", 75); err != nil {
		t.Fatalf("Set(75) = %v", err)
	}
	v, err := tree.Get("display.brightness")
	if err != nil {
		t.Fatalf("Get = %v", err)
	}
	if v != int64(75) {
		t.Errorf("Get = %v, want 75", v)
	}
	if !tree.IsDirty() {
		t.Error("tree is not dirty after Set")
	}
}

func TestTree_Set_ConstraintViolation(t *testing.T) {
	tree := displayTree(t)
	tree.MarkClean()

	err := tree.Set("display.brightness", 120)
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("Set(120) = %v, want ErrConstraintViolation", err)
	}

	// Rejected assignment is atomic: value and dirty flag unchanged.
	v, err := tree.Get("display.brightness")
	if err != nil {
		t.Fatalf("Get = %v", err)
	}
	if v != int64(50) {
		t.Errorf("value after rejected Set = %v, want 50", v)
	}
	if tree.IsDirty() {
		t.Error("tree marked dirty by rejected Set")
	}
}

func TestTree_Set_TypeMismatch(t *testing.T) {
	tree := displayTree(t)

	err := tree.Set("display.brightness", "high")
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("Set(string) = %v, want ErrTypeMismatch", err)
	}

	v, _ := tree.Get("display.brightness")
	if v != int64(50) {
		t.Errorf("value after rejected Set = %v, want 50", v)
	}
}

func TestTree_Set_EnumMembership(t *testing.T) {
	tree := displayTree(t)

	if err := tree.Set("display.orientation", "portrait"); err != nil {
		t.Fatalf("Set(portrait) = %v", err)
	}
	if err := tree.Set("display.orientation", "upside-down"); !errors.Is(err, ErrConstraintViolation) {
		t.Errorf("Set(upside-down) = %v, want ErrConstraintViolation", err)
	}
}

func TestTree_GetSet_PathErrors(t *testing.T) {
	tree := displayTree(t)

	if _, err := tree.Get("display.missing"); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("Get(missing) = %v, want ErrPathNotFound", err)
	}
	if _, err := tree.Get("display"); !errors.Is(err, ErrNotALeaf) {
		t.Errorf("Get(group) = %v, want ErrNotALeaf", err)
	}
	if err := tree.Set("display", 1); !errors.Is(err, ErrNotALeaf) {
		t.Errorf("Set(group) = %v, want ErrNotALeaf", err)
	}
	if err := tree.Set("display.missing", 1); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("Set(missing) = %v, want ErrPathNotFound", err)
	}
}

func TestTree_Remove(t *testing.T) {
	tree := displayTree(t)

	if err := tree.Remove("display"); err != nil {
		t.Fatalf("Remove(display) = %v", err)
	}

	// The whole subtree is gone.
	for _, path := range []string{"display", "display.brightness", "display.orientation"} {
		if _, err := tree.Lookup(path); !errors.Is(err, ErrPathNotFound) {
			t.Errorf("Lookup(%q) after remove = %v, want ErrPathNotFound", path, err)
		}
	}
	if _, err := tree.Get("display.brightness"); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("Get after remove = %v, want ErrPathNotFound", err)
	}
	if _, err := tree.Children("display"); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("Children after remove = %v, want ErrPathNotFound", err)
	}
}

func TestTree_Remove_Errors(t *testing.T) {
	tree := displayTree(t)

	if err := tree.Remove(""); !errors.Is(err, ErrCannotRemoveRoot) {
		t.Errorf("Remove(root) = %v, want ErrCannotRemoveRoot", err)
	}
	if err := tree.Remove("audio"); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("Remove(missing) = %v, want ErrPathNotFound", err)
	}
}

func TestTree_Children(t *testing.T) {
	tree := displayTree(t)
	if err := tree.AddGroup("", "audio"); err != nil {
		t.Fatalf("AddGroup = %v", err)
	}

	seq, err := tree.Children("")
	if err != nil {
		t.Fatalf("Children = %v", err)
	}

	collect := func() []string {
		var names []string
		for name := range seq {
			names = append(names, name)
		}
		return names
	}

	want := []string{"display", "audio"}
	got := collect()
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("children[%d] = %q, want %q (insertion order)", i, got[i], want[i])
		}
	}

	// The sequence is restartable.
	if again := collect(); len(again) != len(want) {
		t.Errorf("second iteration = %v, want %v", again, want)
	}
}

func TestTree_Children_Errors(t *testing.T) {
	tree := displayTree(t)

	if _, err := tree.Children("audio"); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("Children(missing) = %v, want ErrPathNotFound", err)
	}
	if _, err := tree.Children("display.brightness"); !errors.Is(err, ErrNotAGroup) {
		t.Errorf("Children(leaf) = %v, want ErrNotAGroup", err)
	}
}

func TestTree_Walk(t *testing.T) {
	tree := displayTree(t)
	if err := tree.AddGroup("display", "colors"); err != nil {
		t.Fatalf("AddGroup = %v", err)
	}
	if err := tree.AddLeaf("", "volume", ValueFloat, 0.5); err != nil {
		t.Fatalf("AddLeaf = %v", err)
	}

	var paths []string
	for path := range tree.Walk() {
		paths = append(paths, path)
	}

	want := []string{"", "display", "display.brightness", "display.orientation", "display.colors", "volume"}
	if len(paths) != len(want) {
		t.Fatalf("Walk visited %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("Walk[%d] = %q, want %q (pre-order)", i, paths[i], want[i])
		}
	}

	// Early termination stops the traversal.
	count := 0
	for range tree.Walk() {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("terminated walk visited %d nodes, want 2", count)
	}
}

func TestTree_Subscribe(t *testing.T) {
	tree := displayTree(t)

	var changes []notify.Change
	sub := tree.Subscribe(func(c notify.Change) {
		changes = append(changes, c)

		// The tree already reflects the new state when the callback runs.
		v, err := tree.Get("display.brightness")
		if err != nil {
			t.Errorf("Get inside callback = %v", err)
		}
		if c.Type == notify.ChangeSet && v != c.NewValue {
			t.Errorf("tree value %v != notified new value %v", v, c.NewValue)
		}
	})

	if err := tree.Set("display.brightness", 75); err != nil {
		t.Fatalf("Set = %v", err)
	}

	if len(changes) != 1 {
		t.Fatalf("received %d changes, want 1", len(changes))
	}
	c := changes[0]
	if c.Path != "display.brightness" {
		t.Errorf("Path = %q", c.Path)
	}
	if c.Type != notify.ChangeSet {
		t.Errorf("Type = %v, want set", c.Type)
	}
	if c.OldValue != int64(50) || c.NewValue != int64(75) {
		t.Errorf("old/new = %v/%v, want 50/75", c.OldValue, c.NewValue)
	}

	sub.Unsubscribe()
	if err := tree.Set("display.brightness", 25); err != nil {
		t.Fatalf("Set = %v", err)
	}
	if len(changes) != 1 {
		t.Errorf("unsubscribed observer received %d changes, want 1", len(changes))
	}
}

func TestTree_Subscribe_RegistrationOrder(t *testing.T) {
	tree := displayTree(t)

	var order []string
	tree.Subscribe(func(notify.Change) { order = append(order, "first") })
	tree.Subscribe(func(notify.Change) { order = append(order, "second") })

	if err := tree.Set("display.brightness", 10); err != nil {
		t.Fatalf("Set = %v", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("delivery order = %v, want [first second]", order)
	}
}

func TestTree_Subscribe_StructuralChanges(t *testing.T) {
	tree := New()

	var changes []notify.Change
	tree.Subscribe(func(c notify.Change) { changes = append(changes, c) })

	if err := tree.AddGroup("", "display"); err != nil {
		t.Fatalf("AddGroup = %v", err)
	}
	if err := tree.AddLeaf("display", "brightness", ValueInt, 50); err != nil {
		t.Fatalf("AddLeaf = %v", err)
	}
	if err := tree.Remove("display"); err != nil {
		t.Fatalf("Remove = %v", err)
	}

	wantTypes := []notify.ChangeType{notify.ChangeAdd, notify.ChangeAdd, notify.ChangeRemove}
	if len(changes) != len(wantTypes) {
		t.Fatalf("received %d changes, want %d", len(changes), len(wantTypes))
	}
	for i, want := range wantTypes {
		if changes[i].Type != want {
			t.Errorf("changes[%d].Type = %v, want %v", i, changes[i].Type, want)
		}
	}
	if changes[2].Path != "display" {
		t.Errorf("remove path = %q, want display", changes[2].Path)
	}
}

func TestTree_ReentrantMutation(t *testing.T) {
	tree := displayTree(t)

	var reentrantErr error
	tree.Subscribe(func(c notify.Change) {
		reentrantErr = tree.Set("display.brightness", 1)
	})

	if err := tree.Set("display.brightness", 75); err != nil {
		t.Fatalf("Set = %v", err)
	}
	if !errors.Is(reentrantErr, ErrReentrantMutation) {
		t.Errorf("Set inside callback = %v, want ErrReentrantMutation", reentrantErr)
	}

	// The outer mutation stands; the re-entrant one was rejected.
	v, _ := tree.Get("display.brightness")
	if v != int64(75) {
		t.Errorf("value = %v, want 75", v)
	}
}

func TestTree_ReentrantMutation_AllMutators(t *testing.T) {
	tree := displayTree(t)

	var errs []error
	tree.Subscribe(func(c notify.Change) {
		if c.Type != notify.ChangeSet {
			return
		}
		errs = append(errs,
			tree.AddGroup("", "audio"),
			tree.AddLeaf("", "volume", ValueInt, 1),
			tree.Remove("display"),
			tree.LoadValues(map[string]any{}),
		)
	})

	if err := tree.Set("display.brightness", 60); err != nil {
		t.Fatalf("Set = %v", err)
	}
	for i, err := range errs {
		if !errors.Is(err, ErrReentrantMutation) {
			t.Errorf("mutator %d inside callback = %v, want ErrReentrantMutation", i, err)
		}
	}
}

func TestTree_DirtyLifecycle(t *testing.T) {
	tree := New()
	if tree.IsDirty() {
		t.Fatal("new tree is dirty")
	}

	if err := tree.AddLeaf("", "volume", ValueInt, 5); err != nil {
		t.Fatalf("AddLeaf = %v", err)
	}
	if !tree.IsDirty() {
		t.Error("tree clean after AddLeaf")
	}

	tree.MarkClean()
	if tree.IsDirty() {
		t.Error("tree dirty after MarkClean")
	}

	if err := tree.Set("volume", 6); err != nil {
		t.Fatalf("Set = %v", err)
	}
	if !tree.IsDirty() {
		t.Error("tree clean after Set")
	}
}

func TestTree_ListValues(t *testing.T) {
	tree := New()
	err := tree.AddLeaf("", "exclude", ValueList, []any{".git", "node_modules"},
		WithConstraints(Constraints{Elem: ElemKind(ValueString)}))
	if err != nil {
		t.Fatalf("AddLeaf = %v", err)
	}

	if err := tree.Set("exclude", []any{".git", 42}); !errors.Is(err, ErrConstraintViolation) {
		t.Errorf("Set(mixed list) = %v, want ErrConstraintViolation", err)
	}

	if err := tree.Set("exclude", []string{".hg"}); err != nil {
		t.Fatalf("Set([]string) = %v", err)
	}
	v, err := tree.Get("exclude")
	if err != nil {
		t.Fatalf("Get = %v", err)
	}
	items, ok := v.([]any)
	if !ok || len(items) != 1 || items[0] != ".hg" {
		t.Errorf("Get = %#v, want [.hg]", v)
	}

	// Returned lists are copies; mutating them does not touch tree state.
	items[0] = "mutated"
	v2, _ := tree.Get("exclude")
	if v2.([]any)[0] != ".hg" {
		t.Error("caller mutation leaked into tree state")
	}
}
