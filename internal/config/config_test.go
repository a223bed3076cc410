package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 256, cfg.RecordSize)
	assert.NotEmpty(t, cfg.REPL.Prompt)
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "pseudocode.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pseudocode.toml")
	content := `log_level = "debug"
record_size = 128

[repl]
prompt = ">> "
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 128, cfg.RecordSize)
	assert.Equal(t, ">> ", cfg.REPL.Prompt)
	// Unset keys keep their defaults.
	assert.Equal(t, Default().REPL.Banner, cfg.REPL.Banner)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pseudocode.toml")
	require.NoError(t, os.WriteFile(path, []byte("record_size = ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
