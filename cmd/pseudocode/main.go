// Command pseudocode is the CLI driver for the interpreter: eval
// (file or REPL), check, compile (reserved), and version subcommands.
package main

import (
	"os"

	"github.com/pseudocode-lang/pseudocode/cmd/pseudocode/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
