package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/field-access-analysis/internal/typetree"
	apperrors "github.com/field-access-analysis/pkg/errors"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Hotness.Buckets)
	assert.Equal(t, 11, cfg.Hotness.ProblemTier)
	assert.Equal(t, int64(10), cfg.Hotness.ProblemSize)
	assert.Equal(t, 0, cfg.Flamegraph.Min)
	assert.Equal(t, -1, cfg.Flamegraph.Max)
	assert.Equal(t, 4, cfg.Chart.Columns)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_CustomValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
log:
  level: debug
hotness:
  buckets: 5
flamegraph:
  min: 2
  max: 10
chart:
  columns: 2
  labels: true
storage:
  type: cos
  bucket: profiles-1250000000
  region: ap-guangzhou
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Hotness.Buckets)
	assert.Equal(t, 11, cfg.Hotness.ProblemTier)
	assert.Equal(t, 2, cfg.Flamegraph.Min)
	assert.Equal(t, 10, cfg.Flamegraph.Max)
	assert.Equal(t, 2, cfg.Chart.Columns)
	assert.True(t, cfg.Chart.Labels)
	assert.Equal(t, "cos", cfg.Storage.Type)
	assert.Equal(t, "profiles-1250000000", cfg.Storage.Bucket)
}

func TestLoad_InvalidStorageType(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("storage:\n  type: s3\n"), 0644))

	_, err := Load(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage type")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FAA_HOTNESS_BUCKETS", "12")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Hotness.Buckets)
}

func TestLoadWith_FlagOverride(t *testing.T) {
	v := viper.New()
	v.Set("flamegraph.max", 3)

	cfg, err := LoadWith(v, filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Flamegraph.Max)
}

func TestLoadFromReader(t *testing.T) {
	cfg, err := LoadFromReader("yaml", []byte("chart:\n  dpi: 300\n"))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Chart.DPI)
	assert.Equal(t, 4, cfg.Chart.Columns)
}

func TestHotnessConfig_Policy(t *testing.T) {
	assert.Equal(t, typetree.DefaultPolicy(), Default().Hotness.Policy())

	cfg, err := LoadFromReader("yaml", []byte("hotness:\n  buckets: 4\n  problem_tier: 12\n  problem_size: 64\n"))
	require.NoError(t, err)
	assert.Equal(t, typetree.Policy{Buckets: 4, ProblemTier: 12, ProblemSize: 64}, cfg.Hotness.Policy())
}

func TestValidate_ConfigErrorCode(t *testing.T) {
	_, err := LoadFromReader("yaml", []byte("chart:\n  dpi: 0\n"))
	require.Error(t, err)
	assert.True(t, apperrors.IsConfigError(err))
	assert.Contains(t, err.Error(), "chart dpi must be positive")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8, cfg.Hotness.Buckets)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero buckets", func(c *Config) { c.Hotness.Buckets = 0 }, "hotness buckets"},
		{"single bucket", func(c *Config) { c.Hotness.Buckets = 1 }, "hotness buckets"},
		{"negative problem size", func(c *Config) { c.Hotness.ProblemSize = -1 }, "problem_size"},
		{"negative min", func(c *Config) { c.Flamegraph.Min = -1 }, "flamegraph min"},
		{"max below -1", func(c *Config) { c.Flamegraph.Max = -2 }, "flamegraph max"},
		{"zero columns", func(c *Config) { c.Chart.Columns = 0 }, "chart columns"},
		{"zero dpi", func(c *Config) { c.Chart.DPI = 0 }, "dpi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
