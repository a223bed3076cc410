// Package cmd implements the pseudocode CLI command tree: one
// *cobra.Command per subcommand, each self-registering from its own
// init(), and a package-level Version/GitCommit/BuildDate trio fed by
// build-time ldflags.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pseudocode-lang/pseudocode/internal/config"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose    bool
	configPath string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pseudocode",
	Short: "A Cambridge-style pseudocode interpreter",
	Long: `pseudocode runs and checks programs written in Cambridge International
A-Level style pseudocode: DECLARE/CONSTANT/TYPE declarations, IF/WHILE/
FOR/REPEAT control flow, FUNCTION/PROCEDURE definitions, and the
OPENFILE/READFILE/WRITEFILE/GETRECORD/PUTRECORD file statements.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostic output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "pseudocode.toml", "path to a pseudocode.toml configuration file")
}

// exitWithError prints a red error line and exits with status 1.
func exitWithError(msg string, args ...any) {
	color.New(color.FgRed).Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}

// logf prints a cyan diagnostic line when --verbose is set or
// PSEUDOCODE_LOG requests at least "info".
func logf(format string, args ...any) {
	if verbose || logLevelAtLeast("info") {
		color.New(color.FgCyan).Fprintf(os.Stderr, format+"\n", args...)
	}
}

// logLevelAtLeast reports whether PSEUDOCODE_LOG (or, when it is unset,
// the configured log level) requests at least the given level, ordered
// off < error < info < debug < trace.
func logLevelAtLeast(level string) bool {
	order := map[string]int{"off": 0, "error": 1, "info": 2, "debug": 3, "trace": 4}
	want, ok := order[level]
	if !ok {
		return false
	}
	envLevel := os.Getenv("PSEUDOCODE_LOG")
	if envLevel == "" {
		envLevel = cfg.LogLevel
	}
	have, ok := order[envLevel]
	if !ok {
		return false
	}
	return have >= want
}
