package schema

// Builder provides a fluent API for constructing schemas.
type Builder struct {
	schema *Schema
}

// NewBuilder creates a builder for the given kind.
func NewBuilder(kind Kind) *Builder {
	return &Builder{
		schema: &Schema{Kind: kind},
	}
}

// Build returns the constructed schema.
func (b *Builder) Build() *Schema {
	return b.schema
}

// Description sets the human-readable description.
func (b *Builder) Description(desc string) *Builder {
	b.schema.Description = desc
	return b
}

// Default sets the default value.
func (b *Builder) Default(value any) *Builder {
	b.schema.Default = value
	return b
}

// Minimum sets the minimum value for numeric leaves.
func (b *Builder) Minimum(min float64) *Builder {
	b.schema.Minimum = &min
	return b
}

// Maximum sets the maximum value for numeric leaves.
func (b *Builder) Maximum(max float64) *Builder {
	b.schema.Maximum = &max
	return b
}

// Pattern sets the regex pattern for string leaves.
func (b *Builder) Pattern(pattern string) *Builder {
	b.schema.Pattern = pattern
	return b
}

// Enum sets the allowed values for enum leaves.
func (b *Builder) Enum(values ...any) *Builder {
	b.schema.Enum = values
	return b
}

// Elem sets the element kind for list leaves.
func (b *Builder) Elem(kind Kind) *Builder {
	b.schema.Elem = kind
	return b
}

// Child appends a named child declaration to a group.
func (b *Builder) Child(name string, child *Builder) *Builder {
	b.schema.Children = append(b.schema.Children, &Property{
		Name:   name,
		Schema: child.Build(),
	})
	return b
}

// ChildSchema appends a named child with an already-built schema.
func (b *Builder) ChildSchema(name string, child *Schema) *Builder {
	b.schema.Children = append(b.schema.Children, &Property{
		Name:   name,
		Schema: child,
	})
	return b
}

// Convenience functions for creating common schema kinds

// Group creates a group schema.
func Group() *Builder {
	return NewBuilder(KindGroup)
}

// Bool creates a boolean leaf schema.
func Bool() *Builder {
	return NewBuilder(KindBool)
}

// Int creates an integer leaf schema.
func Int() *Builder {
	return NewBuilder(KindInt)
}

// Float creates a floating-point leaf schema.
func Float() *Builder {
	return NewBuilder(KindFloat)
}

// String creates a string leaf schema.
func String() *Builder {
	return NewBuilder(KindString)
}

// Enum creates an enum leaf schema with the allowed values.
func Enum(values ...any) *Builder {
	return NewBuilder(KindEnum).Enum(values...)
}

// List creates a list leaf schema.
func List() *Builder {
	return NewBuilder(KindList)
}

// StringEnum creates an enum leaf schema restricted to string values.
func StringEnum(values ...string) *Builder {
	anyValues := make([]any, len(values))
	for i, v := range values {
		anyValues[i] = v
	}
	return Enum(anyValues...)
}

// IntRange creates an integer leaf schema with min/max bounds.
func IntRange(min, max int) *Builder {
	return Int().Minimum(float64(min)).Maximum(float64(max))
}
