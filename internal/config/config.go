// Package config loads the optional pseudocode.toml project file:
// default log level, the GETRECORD/PUTRECORD record size, and REPL
// prompt/banner text.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is every pseudocode.toml setting; zero values are filled in by
// Default.
type Config struct {
	LogLevel   string `toml:"log_level"`
	RecordSize int    `toml:"record_size"`
	REPL       REPLConfig `toml:"repl"`
}

// REPLConfig is the [repl] table.
type REPLConfig struct {
	Prompt string `toml:"prompt"`
	Banner string `toml:"banner"`
}

// Default returns the built-in configuration used when no
// pseudocode.toml is present, matching the policy values already fixed
// elsewhere in the repo (record size 256 per internal/interp/interp.go).
func Default() Config {
	return Config{
		LogLevel:   "error",
		RecordSize: 256,
		REPL: REPLConfig{
			Prompt: "pseudo> ",
			Banner: "Pseudocode interactive shell. Type 'help' for commands.",
		},
	}
}

// Load reads path (if it exists) and overlays it onto Default's values.
// A missing file is not an error — it just means the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
