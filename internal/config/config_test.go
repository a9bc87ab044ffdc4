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
	assert.Equal(t, DisputableAll, cfg.Policy.Disputable)
	assert.True(t, cfg.Policy.StrictClient)
	assert.Equal(t, 100, cfg.Pipeline.Buffer)
	assert.Equal(t, 1, cfg.Pipeline.Workers)
	assert.Equal(t, int32(4), cfg.Output.Places)
	assert.NoError(t, cfg.Validate())
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settled.yaml")
	content := "policy:\n  disputable: deposits\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DisputableDeposits, cfg.Policy.Disputable)
	// Unset keys keep their defaults.
	assert.True(t, cfg.Policy.StrictClient)
	assert.Equal(t, 100, cfg.Pipeline.Buffer)
}

func TestLoadFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settled.yaml")
	content := `policy:
  disputable: all
  strict_client: false
pipeline:
  buffer: 32
  workers: 4
output:
  places: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.False(t, cfg.Policy.StrictClient)
	assert.Equal(t, 32, cfg.Pipeline.Buffer)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, int32(2), cfg.Output.Places)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad disputable", func(c *Config) { c.Policy.Disputable = "everything" }},
		{"zero buffer", func(c *Config) { c.Pipeline.Buffer = 0 }},
		{"zero workers", func(c *Config) { c.Pipeline.Workers = 0 }},
		{"zero places", func(c *Config) { c.Output.Places = 0 }},
		{"negative places", func(c *Config) { c.Output.Places = -1 }},
		{"sharded workers with relaxed client", func(c *Config) {
			c.Pipeline.Workers = 4
			c.Policy.StrictClient = false
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
