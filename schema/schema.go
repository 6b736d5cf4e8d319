// Package schema provides declarative structure definitions for settings trees.
//
// A Schema describes a tree of settings: group nodes with ordered, named
// children, and leaf nodes with a value kind, a default, and optional
// constraints. Schemas are JSON-serializable so tree structures can be
// declared once and shipped as documents, and they drive validation when
// persisted values are loaded back into a tree.
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Kind identifies what a schema node declares.
type Kind string

// Schema node kinds.
const (
	// KindGroup declares a container of named child nodes.
	KindGroup Kind = "group"
	// KindBool declares a boolean leaf.
	KindBool Kind = "bool"
	// KindInt declares an integer leaf.
	KindInt Kind = "int"
	// KindFloat declares a floating-point leaf.
	KindFloat Kind = "float"
	// KindString declares a string leaf.
	KindString Kind = "string"
	// KindEnum declares a leaf restricted to a fixed set of values.
	KindEnum Kind = "enum"
	// KindList declares a leaf holding a list of primitives.
	KindList Kind = "list"
)

// Valid reports whether the kind is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindGroup, KindBool, KindInt, KindFloat, KindString, KindEnum, KindList:
		return true
	default:
		return false
	}
}

// IsLeaf reports whether the kind declares a leaf node.
func (k Kind) IsLeaf() bool {
	return k.Valid() && k != KindGroup
}

// Schema declares a single node of a settings tree. A group carries ordered
// Children; a leaf carries a default, optional constraints, and optionally a
// current Value when the schema represents a snapshot of live tree state.
type Schema struct {
	// Kind is the node kind.
	Kind Kind `json:"kind"`

	// Description is human-readable documentation for display.
	Description string `json:"description,omitempty"`

	// Children are the ordered child declarations of a group.
	Children []*Property `json:"children,omitempty"`

	// Default is the leaf's default value. No omitempty: false, zero, and
	// empty-string defaults must survive encoding.
	Default any `json:"default"`

	// Value is the leaf's current value when the schema carries tree state
	// (snapshots). Ignored when building a fresh tree from a declaration.
	// No omitempty for the same reason as Default.
	Value any `json:"value"`

	// Minimum bounds numeric leaves (nil means unbounded).
	Minimum *float64 `json:"minimum,omitempty"`

	// Maximum bounds numeric leaves (nil means unbounded).
	Maximum *float64 `json:"maximum,omitempty"`

	// Pattern is a regular expression string leaves must match.
	Pattern string `json:"pattern,omitempty"`

	// Enum lists the allowed values for enum leaves.
	Enum []any `json:"enum,omitempty"`

	// Elem is the element kind for list leaves. Empty accepts any primitive.
	Elem Kind `json:"elem,omitempty"`
}

// Property is a named child declaration inside a group.
type Property struct {
	// Name is the child's name, unique among its siblings.
	Name string `json:"name"`

	// Schema is the child's declaration.
	Schema *Schema `json:"schema"`
}

// Parse parses a JSON schema document.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	return s, nil
}

// Encode renders the schema as indented JSON.
func (s *Schema) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding schema: %w", err)
	}
	return data, nil
}

// Child returns the declaration of the named child, or nil.
func (s *Schema) Child(name string) *Schema {
	if s == nil {
		return nil
	}
	for _, p := range s.Children {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

// GetProperty returns the schema for a nested, dot-separated property path.
// An empty path returns the schema itself.
func (s *Schema) GetProperty(path string) *Schema {
	if s == nil || path == "" {
		return s
	}

	current := s
	for _, part := range strings.Split(path, ".") {
		current = current.Child(part)
		if current == nil {
			return nil
		}
	}
	return current
}

// HasProperty checks if a property exists at the given path.
func (s *Schema) HasProperty(path string) bool {
	return s.GetProperty(path) != nil
}

// Validate checks the structural sanity of the declaration: known kinds,
// unique non-empty child names, children only under groups, constraints only
// on leaves that support them. Value-level checks (defaults satisfying
// constraints) are performed when a tree is built from the schema.
func (s *Schema) Validate() error {
	errs := &ValidationErrors{}
	s.validate("", errs)
	return errs.AsError()
}

func (s *Schema) validate(path string, errs *ValidationErrors) {
	if !s.Kind.Valid() {
		errs.Add(path, fmt.Sprintf("unknown kind %q", s.Kind))
		return
	}

	if s.Kind == KindGroup {
		if s.Default != nil || s.Value != nil {
			errs.Add(path, "group cannot carry a value")
		}
		seen := make(map[string]bool, len(s.Children))
		for _, p := range s.Children {
			if p.Name == "" || strings.Contains(p.Name, ".") {
				errs.Add(path, fmt.Sprintf("invalid child name %q", p.Name))
				continue
			}
			if seen[p.Name] {
				errs.Add(path, fmt.Sprintf("duplicate child name %q", p.Name))
				continue
			}
			seen[p.Name] = true
			if p.Schema == nil {
				errs.Add(joinPath(path, p.Name), "missing declaration")
				continue
			}
			p.Schema.validate(joinPath(path, p.Name), errs)
		}
		return
	}

	if len(s.Children) > 0 {
		errs.Add(path, "leaf cannot have children")
	}
	if s.Pattern != "" {
		if s.Kind != KindString {
			errs.Add(path, "pattern constraint requires a string leaf")
		} else if _, err := regexp.Compile(s.Pattern); err != nil {
			errs.Add(path, fmt.Sprintf("invalid pattern: %v", err))
		}
	}
	if (s.Minimum != nil || s.Maximum != nil) && s.Kind != KindInt && s.Kind != KindFloat {
		errs.Add(path, "range constraint requires a numeric leaf")
	}
	if s.Minimum != nil && s.Maximum != nil && *s.Minimum > *s.Maximum {
		errs.Add(path, fmt.Sprintf("minimum %v exceeds maximum %v", *s.Minimum, *s.Maximum))
	}
	if len(s.Enum) > 0 && s.Kind != KindEnum {
		errs.Add(path, "allowed-set constraint requires an enum leaf")
	}
	if s.Elem != "" {
		if s.Kind != KindList {
			errs.Add(path, "element kind requires a list leaf")
		} else if !s.Elem.IsLeaf() || s.Elem == KindEnum || s.Elem == KindList {
			errs.Add(path, fmt.Sprintf("invalid list element kind %q", s.Elem))
		}
	}
}

// joinPath joins a parent path and a child name.
func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
