package settree

import (
	"fmt"
	"math"
	"regexp"
)

// ValueKind represents the data type of a leaf value.
type ValueKind uint8

const (
	// ValueBool represents a boolean value.
	ValueBool ValueKind = iota
	// ValueInt represents an integer value.
	ValueInt
	// ValueFloat represents a floating-point value.
	ValueFloat
	// ValueString represents a string value.
	ValueString
	// ValueEnum represents a value from a fixed allowed set.
	ValueEnum
	// ValueList represents a list of primitive values.
	ValueList
)

// String returns the string representation of the kind.
func (k ValueKind) String() string {
	switch k {
	case ValueBool:
		return "bool"
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	case ValueString:
		return "string"
	case ValueEnum:
		return "enum"
	case ValueList:
		return "list"
	default:
		return "unknown"
	}
}

// Constraints restricts the values a leaf will accept. The zero value
// accepts anything of the leaf's kind.
type Constraints struct {
	// Minimum bounds numeric values (nil means unbounded).
	Minimum *float64

	// Maximum bounds numeric values (nil means unbounded).
	Maximum *float64

	// Pattern is a regular expression string values must match.
	Pattern string

	// Allowed lists the permitted values for enum leaves.
	Allowed []any

	// Elem restricts list elements to a single kind (nil accepts any
	// primitive: bool, int, float, or string).
	Elem *ValueKind

	// compiledPattern is the compiled regex pattern (lazily initialized).
	compiledPattern *regexp.Regexp
}

// MinValue creates a pointer to a float64 for use as Minimum.
func MinValue(v float64) *float64 {
	return &v
}

// MaxValue creates a pointer to a float64 for use as Maximum.
func MaxValue(v float64) *float64 {
	return &v
}

// ElemKind creates a pointer to a ValueKind for use as Elem.
func ElemKind(k ValueKind) *ValueKind {
	return &k
}

// clone returns a copy without the compiled pattern cache.
func (c *Constraints) clone() *Constraints {
	if c == nil {
		return nil
	}
	dup := &Constraints{Pattern: c.Pattern}
	if c.Minimum != nil {
		dup.Minimum = MinValue(*c.Minimum)
	}
	if c.Maximum != nil {
		dup.Maximum = MaxValue(*c.Maximum)
	}
	if len(c.Allowed) > 0 {
		dup.Allowed = append([]any(nil), c.Allowed...)
	}
	if c.Elem != nil {
		dup.Elem = ElemKind(*c.Elem)
	}
	return dup
}

// normalizeValue converts a value to the canonical Go representation of the
// kind: bool, int64, float64, string, or []any of those. It accepts the
// loosened numeric types produced by JSON, TOML, and YAML decoding (JSON
// decodes every number as float64). Returns a TypeError on mismatch.
func normalizeValue(path string, kind ValueKind, value any) (any, error) {
	switch kind {
	case ValueBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case ValueInt:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int8:
			return int64(v), nil
		case int16:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case uint:
			return int64(v), nil
		case uint8:
			return int64(v), nil
		case uint16:
			return int64(v), nil
		case uint32:
			return int64(v), nil
		case float32:
			if float64(v) == math.Trunc(float64(v)) {
				return int64(v), nil
			}
		case float64:
			if v == math.Trunc(v) {
				return int64(v), nil
			}
		}
	case ValueFloat:
		switch v := value.(type) {
		case float32:
			return float64(v), nil
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
	case ValueString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case ValueEnum:
		if isPrimitive(value) {
			return normalizePrimitive(value), nil
		}
	case ValueList:
		switch v := value.(type) {
		case []any:
			out := make([]any, len(v))
			for i, item := range v {
				if !isPrimitive(item) {
					return nil, &TypeError{Path: path, Expected: kind, Actual: fmt.Sprintf("list with %T element", item)}
				}
				out[i] = normalizePrimitive(item)
			}
			return out, nil
		case []string:
			out := make([]any, len(v))
			for i, item := range v {
				out[i] = item
			}
			return out, nil
		case []int:
			out := make([]any, len(v))
			for i, item := range v {
				out[i] = int64(item)
			}
			return out, nil
		case []int64:
			out := make([]any, len(v))
			for i, item := range v {
				out[i] = item
			}
			return out, nil
		case []float64:
			out := make([]any, len(v))
			for i, item := range v {
				out[i] = item
			}
			return out, nil
		case []bool:
			out := make([]any, len(v))
			for i, item := range v {
				out[i] = item
			}
			return out, nil
		}
	}
	return nil, &TypeError{Path: path, Expected: kind, Actual: fmt.Sprintf("%T", value)}
}

// check validates a normalized value against the constraints.
func (c *Constraints) check(path string, kind ValueKind, value any) error {
	if c == nil {
		return nil
	}

	// Range check for numeric kinds
	if kind == ValueInt || kind == ValueFloat {
		f := asFloat(value)
		if c.Minimum != nil && f < *c.Minimum {
			return &ConstraintError{
				Path:    path,
				Value:   value,
				Message: fmt.Sprintf("value is less than minimum %v", *c.Minimum),
			}
		}
		if c.Maximum != nil && f > *c.Maximum {
			return &ConstraintError{
				Path:    path,
				Value:   value,
				Message: fmt.Sprintf("value is greater than maximum %v", *c.Maximum),
			}
		}
	}

	// Pattern check for strings
	if kind == ValueString && c.Pattern != "" {
		str, ok := value.(string)
		if ok {
			if c.compiledPattern == nil {
				re, err := regexp.Compile(c.Pattern)
				if err != nil {
					return &ConstraintError{Path: path, Value: value, Message: fmt.Sprintf("invalid pattern: %v", err)}
				}
				c.compiledPattern = re
			}
			if !c.compiledPattern.MatchString(str) {
				return &ConstraintError{
					Path:    path,
					Value:   value,
					Message: fmt.Sprintf("value does not match pattern %s", c.Pattern),
				}
			}
		}
	}

	// Allowed-set check for enums
	if kind == ValueEnum && len(c.Allowed) > 0 {
		if !containsValue(c.Allowed, value) {
			return &ConstraintError{
				Path:    path,
				Value:   value,
				Message: fmt.Sprintf("value must be one of: %v", c.Allowed),
			}
		}
	}

	// Element kind check for lists
	if kind == ValueList && c.Elem != nil {
		items, ok := value.([]any)
		if ok {
			for i, item := range items {
				if _, err := normalizeValue(path, *c.Elem, item); err != nil {
					return &ConstraintError{
						Path:    path,
						Value:   item,
						Message: fmt.Sprintf("element %d is not a %s", i, *c.Elem),
					}
				}
			}
		}
	}

	return nil
}

// isPrimitive reports whether the value is one of the primitive kinds a
// list or enum may hold.
func isPrimitive(value any) bool {
	switch value.(type) {
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32,
		float32, float64:
		return true
	default:
		return false
	}
}

// normalizePrimitive converts a primitive to its canonical representation.
// Integral floats stay floats: without a declared kind there is no basis to
// narrow them.
func normalizePrimitive(value any) any {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case float32:
		return float64(v)
	default:
		return v
	}
}

// asFloat converts a normalized numeric value to float64 for range checks.
func asFloat(value any) float64 {
	switch v := value.(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	default:
		return 0
	}
}

// containsValue checks if a slice contains a value, treating numerically
// equal ints and floats as equal.
func containsValue(slice []any, value any) bool {
	for _, v := range slice {
		if looseEqual(v, value) {
			return true
		}
	}
	return false
}

// looseEqual compares two primitives, treating numerically equal ints and
// floats as equal so enum sets survive JSON round-trips.
func looseEqual(a, b any) bool {
	if a == b {
		return true
	}
	af, aok := numericValue(a)
	bf, bok := numericValue(b)
	return aok && bok && af == bf
}

// numericValue extracts a float64 from any numeric primitive.
func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
