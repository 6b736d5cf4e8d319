package settree

import (
	"errors"
	"fmt"

	"github.com/dshills/settree/schema"
)

// Errors returned by tree operations.
var (
	// ErrPathNotFound indicates no node exists at the given path.
	ErrPathNotFound = errors.New("path not found")

	// ErrNotAGroup indicates the path resolves to a leaf where a group is required.
	ErrNotAGroup = errors.New("node is not a group")

	// ErrNotALeaf indicates the path resolves to a group where a leaf is required.
	ErrNotALeaf = errors.New("node is not a leaf")

	// ErrDuplicateName indicates a sibling with the same name already exists.
	ErrDuplicateName = errors.New("duplicate child name")

	// ErrInvalidName indicates a child name is empty or contains a path separator.
	ErrInvalidName = errors.New("invalid node name")

	// ErrInvalidDefault indicates a leaf default does not satisfy its constraints.
	ErrInvalidDefault = errors.New("invalid default value")

	// ErrConstraintViolation indicates a value fails the leaf's constraints.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrTypeMismatch indicates a value's type doesn't match the leaf's kind.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrCannotRemoveRoot indicates an attempt to remove the root group.
	ErrCannotRemoveRoot = errors.New("cannot remove root")

	// ErrReentrantMutation indicates a mutation was attempted from within a
	// notification callback.
	ErrReentrantMutation = errors.New("re-entrant mutation from notification callback")

	// ErrSchemaViolation indicates loaded values violate the declared schema.
	ErrSchemaViolation = errors.New("schema violation")
)

// TypeError is returned when a value's type doesn't match a leaf's kind.
type TypeError struct {
	// Path is the leaf path.
	Path string
	// Expected is the leaf's value kind.
	Expected ValueKind
	// Actual is the Go type of the rejected value.
	Actual string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type mismatch for %s: expected %s, got %s", pathLabel(e.Path), e.Expected, e.Actual)
}

// Is implements error matching for TypeError.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// ConstraintError is returned when a value fails a leaf's constraints.
type ConstraintError struct {
	// Path is the leaf path.
	Path string
	// Value is the rejected value.
	Value any
	// Message describes the failed constraint.
	Message string
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation for %s: %s (value: %v)", pathLabel(e.Path), e.Message, e.Value)
}

// Is implements error matching for ConstraintError.
func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}

// SchemaError collects the validation failures of a rejected bulk load.
type SchemaError struct {
	Errors *schema.ValidationErrors
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Errors == nil || !e.Errors.HasErrors() {
		return ErrSchemaViolation.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSchemaViolation, e.Errors)
}

// Is implements error matching for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaViolation
}

// pathLabel renders the root path readably in error messages.
func pathLabel(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
