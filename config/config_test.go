package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ".", cfg.Images.Dir)
	assert.Equal(t, ".jpg", cfg.Images.Extension)
	assert.Equal(t, "new", cfg.Images.ExcludePrefix)
	assert.Equal(t, 16, cfg.Bench.Trials)
	assert.Equal(t, "/dev/null", cfg.Bench.OutputPath)
	require.Len(t, cfg.Bench.Binaries, 2)
	assert.Equal(t, "base", cfg.Bench.Binaries[0].DisplayName())
	assert.Equal(t, "car", cfg.Bench.Binaries[1].DisplayName())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("CARVEBENCH_TRIALS", "")
	t.Setenv("CARVEBENCH_BINARIES", "")
	t.Setenv("CARVEBENCH_LOG_LEVEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("CARVEBENCH_TRIALS", "")
	t.Setenv("CARVEBENCH_BINARIES", "")
	t.Setenv("CARVEBENCH_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "nested", "carvebench.yaml")

	cfg := DefaultConfig()
	cfg.Bench.Trials = 3
	cfg.Bench.Binaries = []Binary{{Name: "go", Path: "./carve"}}
	cfg.Peak.Variant = "scaled"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Bench.Trials)
	assert.Equal(t, []Binary{{Name: "go", Path: "./carve"}}, loaded.Bench.Binaries)
	assert.Equal(t, "scaled", loaded.Peak.Variant)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("CARVEBENCH_TRIALS", "")
	t.Setenv("CARVEBENCH_BINARIES", "")
	t.Setenv("CARVEBENCH_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "carvebench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bench:\n  trials: 4\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Bench.Trials)
	assert.Equal(t, 32, cfg.Bench.Divisions)
	assert.Equal(t, ".jpg", cfg.Images.Extension)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carvebench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bench: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CARVEBENCH_TRIALS", "2")
	t.Setenv("CARVEBENCH_BINARIES", "./a, ./b/c ,")
	t.Setenv("CARVEBENCH_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, 2, cfg.Bench.Trials)
	assert.Equal(t, []Binary{{Path: "./a"}, {Path: "./b/c"}}, cfg.Bench.Binaries)
	assert.Equal(t, "c", cfg.Bench.Binaries[1].DisplayName())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no binaries", func(c *Config) { c.Bench.Binaries = nil }},
		{"empty path", func(c *Config) { c.Bench.Binaries = []Binary{{Name: "x"}} }},
		{"zero trials", func(c *Config) { c.Bench.Trials = 0 }},
		{"zero divisions", func(c *Config) { c.Bench.Divisions = 0 }},
		{"no extension", func(c *Config) { c.Images.Extension = "" }},
		{"bad variant", func(c *Config) { c.Peak.Variant = "linear" }},
		{"bad resolution", func(c *Config) { c.Peak.Resolutions = []Resolution{{Width: 0, Height: 10}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
