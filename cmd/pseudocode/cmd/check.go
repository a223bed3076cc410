package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pseudocode-lang/pseudocode/internal/parser"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Parse a pseudocode program without running it",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		exitWithError("reading %s: %s", filename, err)
	}

	logf("parsing %s", filename)
	p, err := parser.New(string(content))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	program, err := p.ParseProgram()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("%s: OK (%d statement(s))\n", filename, len(program.Statements))
	return nil
}
