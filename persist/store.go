// Package persist stores settings-tree values in files and loads them back.
//
// The persist package is the tree's persistence collaborator: it encodes a
// tree's value mapping as JSON, TOML, or YAML, applies files back through
// the tree's validated bulk-load path, and clears the tree's dirty flag
// after a successful save or load. A Watcher can monitor the settings file
// and reapply it when it changes on disk.
package persist

import (
	"errors"
	"fmt"

	"github.com/dshills/settree"
)

// Store binds a settings tree to a file on disk.
type Store struct {
	tree   *settree.Tree
	path   string
	format Format
	fs     FileSystem
}

// Option configures a Store.
type Option func(*Store)

// WithFormat overrides the format detected from the file extension.
func WithFormat(f Format) Option {
	return func(s *Store) {
		s.format = f
	}
}

// WithFileSystem sets a custom file system, for testing.
func WithFileSystem(fs FileSystem) Option {
	return func(s *Store) {
		s.fs = fs
	}
}

// NewStore creates a store for the given tree and file path. The format is
// detected from the path's extension unless overridden.
func NewStore(tree *settree.Tree, path string, opts ...Option) *Store {
	s := &Store{
		tree:   tree,
		path:   path,
		format: DetectFormat(path),
		fs:     DefaultFS(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file path the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Format returns the serialization format in use.
func (s *Store) Format() Format {
	return s.format
}

// Save writes the tree's current values to the file and marks the tree
// clean.
func (s *Store) Save() error {
	data, err := Encode(s.format, s.tree.Values())
	if err != nil {
		return err
	}
	if err := s.fs.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	s.tree.MarkClean()
	return nil
}

// Load reads the file, applies its values to the tree through the
// validated bulk-load path, and marks the tree clean. The load is atomic:
// a file containing any invalid value leaves the tree unchanged.
func (s *Store) Load() error {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.path, err)
	}

	values, err := Decode(s.format, data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = s.path
		}
		return err
	}

	if err := s.tree.LoadValues(values); err != nil {
		return fmt.Errorf("loading %s: %w", s.path, err)
	}
	s.tree.MarkClean()
	return nil
}
