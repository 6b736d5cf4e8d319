package main

import (
	"os"

	"github.com/dshills/settree"
	"github.com/dshills/settree/persist"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Convert a values file between JSON, TOML, and YAML",
	Long: `Decodes the input values file and re-encodes it in the format implied
by the output file's extension. When --schema is given, the values are
validated against it first.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, out := args[0], args[1]

		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		values, err := persist.Decode(persist.DetectFormat(in), data)
		if err != nil {
			return err
		}

		if schemaPath != "" {
			s, err := loadSchema()
			if err != nil {
				return err
			}
			tree, err := settree.FromSchema(s)
			if err != nil {
				return err
			}
			if err := tree.LoadValues(values); err != nil {
				return err
			}
		}

		encoded, err := persist.Encode(persist.DetectFormat(out), values)
		if err != nil {
			return err
		}
		return os.WriteFile(out, encoded, 0o644)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
