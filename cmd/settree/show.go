package main

import (
	"fmt"
	"strings"

	"github.com/dshills/settree"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the tree with its current values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, _, err := loadTree()
		if err != nil {
			return err
		}

		for path, node := range tree.Walk() {
			if path == "" {
				continue
			}
			depth := strings.Count(path, ".")
			indent := strings.Repeat("  ", depth)

			if node.Kind() == settree.KindGroup {
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s/\n", indent, node.Name())
				continue
			}

			line := fmt.Sprintf("%s%s = %v (%s)", indent, node.Name(), node.Value(), node.ValueKind())
			if desc := node.Description(); desc != "" {
				line += "  # " + desc
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
