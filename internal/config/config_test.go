package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"COCLASS_INPUT", "COCLASS_OUTPUT", "COCLASS_SYNTHETIC_DIMENSION",
		"COCLASS_ENSURE_ASCII", "COCLASS_ADDR", "COCLASS_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "coclass.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input: in/table.csv
output: out/tree.json
ensure_ascii: false
server:
  addr: ":9090"
logging:
  level: debug
  development: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "in/table.csv", cfg.Input)
	assert.Equal(t, "out/tree.json", cfg.Output)
	assert.False(t, cfg.EnsureASCII)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, "Funktionella system", cfg.SyntheticDimension)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "coclass.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("COCLASS_INPUT", "env.csv")
	t.Setenv("COCLASS_OUTPUT", "env.json")
	t.Setenv("COCLASS_ENSURE_ASCII", "false")
	t.Setenv("COCLASS_ADDR", "9000")
	t.Setenv("COCLASS_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env.csv", cfg.Input)
	assert.Equal(t, "env.json", cfg.Output)
	assert.False(t, cfg.EnsureASCII)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Input = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Output = " "
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Output = "./" + cfg.Input
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Logging.Level = "loud"
	assert.Error(t, cfg.Validate())
}

func TestEnvOverrideInvalidBool(t *testing.T) {
	clearEnv(t)
	t.Setenv("COCLASS_ENSURE_ASCII", "maybe")

	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COCLASS_ENSURE_ASCII")
	assert.Contains(t, err.Error(), `"maybe"`)
}
