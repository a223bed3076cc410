package cmd

import (
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Compile a pseudocode program (reserved)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exitWithError("Compiler not yet implemented")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
}
