package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a values file against a schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if valuesPath == "" {
			return fmt.Errorf("--values is required")
		}
		if _, _, err := loadTree(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", valuesPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
