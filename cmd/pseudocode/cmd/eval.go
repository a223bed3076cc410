package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pseudocode-lang/pseudocode/internal/host/native"
	"github.com/pseudocode-lang/pseudocode/internal/interp"
	"github.com/pseudocode-lang/pseudocode/internal/parser"
	"github.com/pseudocode-lang/pseudocode/internal/repl"
)

var evalCmd = &cobra.Command{
	Use:   "eval [file]",
	Short: "Run a pseudocode program, or start an interactive shell",
	Long: `Run a pseudocode program from a file.

With no file argument, eval starts an interactive shell where
statements and blocks can be entered line by line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return repl.New(cfg, os.Stdout).Start()
	}

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

	host := native.New(filepath.Dir(filename), os.Stdin, os.Stdout)
	in := interp.New(host)
	in.Source = string(content)
	in.File = filename
	in.RecordSize = cfg.RecordSize

	logf("running %s", filename)
	if err := in.Run(program); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return nil
}
