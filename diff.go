package settree

import "sort"

// Diff compares the leaf values of two trees. It returns the sorted paths
// of leaves present in both trees but holding different values, leaves
// present only in t, and leaves present only in other. Groups are compared
// only through the leaves beneath them.
func (t *Tree) Diff(other *Tree) (changed, onlyHere, onlyThere []string) {
	here := leafValues(t)
	there := leafValues(other)

	for path, v := range here {
		ov, ok := there[path]
		switch {
		case !ok:
			onlyHere = append(onlyHere, path)
		case !valueEqual(v, ov):
			changed = append(changed, path)
		}
	}
	for path := range there {
		if _, ok := here[path]; !ok {
			onlyThere = append(onlyThere, path)
		}
	}

	sort.Strings(changed)
	sort.Strings(onlyHere)
	sort.Strings(onlyThere)
	return changed, onlyHere, onlyThere
}

// leafValues flattens a tree to path -> value for every leaf.
func leafValues(t *Tree) map[string]any {
	out := make(map[string]any)
	for path, node := range t.Walk() {
		if node.Kind() == KindLeaf {
			out[path] = node.Value()
		}
	}
	return out
}

// valueEqual compares two leaf values, elementwise for lists and loosely
// for numerics so values survive serialization round-trips.
func valueEqual(a, b any) bool {
	al, aok := a.([]any)
	bl, bok := b.([]any)
	if aok || bok {
		if !aok || !bok || len(al) != len(bl) {
			return false
		}
		for i := range al {
			if !looseEqual(al[i], bl[i]) {
				return false
			}
		}
		return true
	}
	return looseEqual(a, b)
}
