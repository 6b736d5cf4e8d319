package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/settree"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set one setting and save the values file",
	Long: `Parses the value according to the leaf's declared kind, applies it
through the tree's validation path, and rewrites the values file. List
values are comma-separated.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if valuesPath == "" {
			return fmt.Errorf("--values is required")
		}

		tree, store, err := loadTree()
		if err != nil {
			return err
		}

		path, raw := args[0], args[1]
		node, err := tree.Lookup(path)
		if err != nil {
			return err
		}

		value, err := parseValue(node, raw)
		if err != nil {
			return err
		}
		if err := tree.Set(path, value); err != nil {
			return err
		}
		return store.Save()
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
}

// parseValue converts a command-line string into a value of the leaf's
// kind. Enum and list elements stay strings unless they parse as numbers
// or booleans.
func parseValue(node *settree.Node, raw string) (any, error) {
	switch node.ValueKind() {
	case settree.ValueBool:
		return strconv.ParseBool(raw)
	case settree.ValueInt:
		return strconv.ParseInt(raw, 10, 64)
	case settree.ValueFloat:
		return strconv.ParseFloat(raw, 64)
	case settree.ValueString:
		return raw, nil
	case settree.ValueEnum:
		return parsePrimitive(raw), nil
	case settree.ValueList:
		if raw == "" {
			return []any{}, nil
		}
		parts := strings.Split(raw, ",")
		items := make([]any, len(parts))
		for i, p := range parts {
			items[i] = parsePrimitive(strings.TrimSpace(p))
		}
		return items, nil
	default:
		return nil, fmt.Errorf("cannot parse value for kind %s", node.ValueKind())
	}
}

// parsePrimitive guesses the primitive type of a raw string.
func parsePrimitive(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
