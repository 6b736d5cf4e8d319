// Package main is the settree inspector: a command-line tool for working
// with settings-tree schema and values files without bypassing the tree's
// validation path.
package main

import (
	"fmt"
	"os"

	"github.com/dshills/settree"
	"github.com/dshills/settree/persist"
	"github.com/dshills/settree/schema"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "settree",
	Short: "Inspect and edit settings-tree files",
	Long: `settree works with settings trees declared in JSON schema documents
and persisted as JSON, TOML, or YAML values files.

Every read and write goes through the tree's validation path: values that
violate a leaf's type or constraints are rejected, never written.

Examples:
  # Print the tree declared by a schema, with values applied
  settree show --schema app.schema.json --values settings.toml

  # Read and write single values
  settree get --schema app.schema.json --values settings.toml display.brightness
  settree set --schema app.schema.json --values settings.toml display.brightness 75

  # Check a values file against a schema
  settree validate --schema app.schema.json --values settings.toml

  # Convert a values file between formats
  settree convert settings.toml settings.yaml`,
}

var (
	schemaPath string
	valuesPath string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&schemaPath, "schema", "s", "", "path to the JSON schema document")
	rootCmd.PersistentFlags().StringVarP(&valuesPath, "values", "f", "", "path to the values file (JSON, TOML, or YAML)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadSchema reads and parses the schema document from --schema.
func loadSchema() (*schema.Schema, error) {
	if schemaPath == "" {
		return nil, fmt.Errorf("--schema is required")
	}
	data, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, err
	}
	s, err := schema.Parse(data)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", schemaPath, err)
	}
	return s, nil
}

// loadTree builds the tree from --schema and, when --values is given,
// applies the values file through the validated load path.
func loadTree() (*settree.Tree, *persist.Store, error) {
	s, err := loadSchema()
	if err != nil {
		return nil, nil, err
	}
	tree, err := settree.FromSchema(s)
	if err != nil {
		return nil, nil, err
	}

	if valuesPath == "" {
		return tree, nil, nil
	}
	store := persist.NewStore(tree, valuesPath)
	if err := store.Load(); err != nil {
		return nil, nil, err
	}
	return tree, store, nil
}
