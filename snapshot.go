package settree

import (
	"fmt"

	"github.com/dshills/settree/schema"
)

// Values returns the tree stripped down to just its leaf values: groups
// become nested maps, leaves become their current value. The result is
// suitable for a persistence collaborator to encode in any structured
// format.
func (t *Tree) Values() map[string]any {
	return valuesOf(t.root)
}

func valuesOf(n *Node) map[string]any {
	out := make(map[string]any, len(n.children))
	for _, c := range n.children {
		if c.kind == KindGroup {
			out[c.name] = valuesOf(c)
		} else {
			out[c.name] = c.Value()
		}
	}
	return out
}

// LoadValues applies a nested value mapping, in the shape produced by
// Values, to the tree's leaves. Every value is validated against the
// leaf's kind and constraints before anything is applied: if any value is
// invalid, or any key doesn't correspond to a declared node, the whole load
// fails with ErrSchemaViolation and the tree is unchanged. Leaves absent
// from the mapping keep their current value.
//
// On success the tree is marked dirty and a single load notification is
// emitted.
func (t *Tree) LoadValues(values map[string]any) error {
	if t.notifying {
		return ErrReentrantMutation
	}

	staged := make(map[*Node]any)
	errs := &schema.ValidationErrors{}
	stageValues(t.root, "", values, staged, errs)
	if errs.HasErrors() {
		return &SchemaError{Errors: errs}
	}

	for leaf, value := range staged {
		leaf.value = value
	}
	t.dirty = true
	t.deliver(func() {
		t.notifier.NotifyLoad(sourceLoad)
	})
	return nil
}

// stageValues validates values under a group node and collects the staged
// leaf assignments.
func stageValues(group *Node, path string, values map[string]any, staged map[*Node]any, errs *schema.ValidationErrors) {
	for name, value := range values {
		childPath := joinPath(path, name)
		child := group.child(name)
		if child == nil {
			errs.AddWithValue(childPath, "unknown setting", value)
			continue
		}

		if child.kind == KindGroup {
			sub, ok := value.(map[string]any)
			if !ok {
				errs.AddWithValue(childPath, "expected a nested mapping for group", value)
				continue
			}
			stageValues(child, childPath, sub, staged, errs)
			continue
		}

		normalized, err := validateLeafValue(childPath, child, value)
		if err != nil {
			errs.AddWithValue(childPath, err.Error(), value)
			continue
		}
		staged[child] = normalized
	}
}

// Schema exports the tree's structure as a declaration: kinds, defaults,
// constraints, and descriptions, in insertion order, without current
// values.
func (t *Tree) Schema() *schema.Schema {
	return schemaOf(t.root, false)
}

// Snapshot produces a plain, ordered, nested representation of the whole
// tree: structure, metadata, and current values. FromSnapshot rebuilds an
// observably identical tree from it.
func (t *Tree) Snapshot() *schema.Schema {
	return schemaOf(t.root, true)
}

func schemaOf(n *Node, withValues bool) *schema.Schema {
	if n.kind == KindGroup {
		s := &schema.Schema{Kind: schema.KindGroup, Description: n.description}
		for _, c := range n.children {
			s.Children = append(s.Children, &schema.Property{
				Name:   c.name,
				Schema: schemaOf(c, withValues),
			})
		}
		return s
	}

	s := &schema.Schema{
		Kind:        schemaKind(n.valueKind),
		Description: n.description,
		Default:     n.Default(),
	}
	if withValues {
		s.Value = n.Value()
	}
	if c := n.constraints; c != nil {
		if c.Minimum != nil {
			s.Minimum = MinValue(*c.Minimum)
		}
		if c.Maximum != nil {
			s.Maximum = MaxValue(*c.Maximum)
		}
		s.Pattern = c.Pattern
		if len(c.Allowed) > 0 {
			s.Enum = append([]any(nil), c.Allowed...)
		}
		if c.Elem != nil {
			s.Elem = schemaKind(*c.Elem)
		}
	}
	return s
}

// FromSchema builds a tree from a declaration. Each leaf starts at its
// declared default; defaults violating their own constraints fail with
// ErrInvalidDefault. Value fields in the declaration are ignored.
func FromSchema(s *schema.Schema) (*Tree, error) {
	return build(s, false)
}

// FromSnapshot rebuilds a tree from a snapshot produced by Snapshot,
// restoring structure, metadata, and current values. Values violating the
// snapshot's own constraints fail the whole load with ErrSchemaViolation;
// no partial tree is produced.
func FromSnapshot(s *schema.Schema) (*Tree, error) {
	return build(s, true)
}

func build(s *schema.Schema, withValues bool) (*Tree, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	if s.Kind != schema.KindGroup {
		return nil, fmt.Errorf("%w: root must be a group", ErrSchemaViolation)
	}

	t := New()
	if err := buildChildren(t, "", s, withValues); err != nil {
		return nil, err
	}
	t.dirty = false
	return t, nil
}

func buildChildren(t *Tree, path string, s *schema.Schema, withValues bool) error {
	for _, p := range s.Children {
		childPath := joinPath(path, p.Name)
		decl := p.Schema

		if decl.Kind == schema.KindGroup {
			if err := t.AddGroup(path, p.Name); err != nil {
				return err
			}
			if err := buildChildren(t, childPath, decl, withValues); err != nil {
				return err
			}
			continue
		}

		kind, err := valueKind(decl.Kind)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrSchemaViolation, childPath, err)
		}
		opts := []LeafOption{WithConstraints(constraintsOf(decl))}
		if decl.Description != "" {
			opts = append(opts, WithDescription(decl.Description))
		}
		if err := t.AddLeaf(path, p.Name, kind, decl.Default, opts...); err != nil {
			return err
		}
		if withValues && decl.Value != nil {
			if err := t.Set(childPath, decl.Value); err != nil {
				return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
			}
		}
	}
	return nil
}

// constraintsOf extracts the constraint shape from a leaf declaration.
func constraintsOf(s *schema.Schema) Constraints {
	c := Constraints{Pattern: s.Pattern}
	if s.Minimum != nil {
		c.Minimum = MinValue(*s.Minimum)
	}
	if s.Maximum != nil {
		c.Maximum = MaxValue(*s.Maximum)
	}
	if len(s.Enum) > 0 {
		c.Allowed = append([]any(nil), s.Enum...)
	}
	if s.Elem != "" {
		if k, err := valueKind(s.Elem); err == nil {
			c.Elem = ElemKind(k)
		}
	}
	return c
}

// schemaKind maps a ValueKind to its schema declaration kind.
func schemaKind(k ValueKind) schema.Kind {
	switch k {
	case ValueBool:
		return schema.KindBool
	case ValueInt:
		return schema.KindInt
	case ValueFloat:
		return schema.KindFloat
	case ValueString:
		return schema.KindString
	case ValueEnum:
		return schema.KindEnum
	case ValueList:
		return schema.KindList
	default:
		return schema.Kind("unknown")
	}
}

// valueKind maps a schema declaration kind to a ValueKind.
func valueKind(k schema.Kind) (ValueKind, error) {
	switch k {
	case schema.KindBool:
		return ValueBool, nil
	case schema.KindInt:
		return ValueInt, nil
	case schema.KindFloat:
		return ValueFloat, nil
	case schema.KindString:
		return ValueString, nil
	case schema.KindEnum:
		return ValueEnum, nil
	case schema.KindList:
		return ValueList, nil
	default:
		return 0, fmt.Errorf("not a leaf kind: %q", k)
	}
}
