// Package config provides configuration management for field-access-analysis.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/field-access-analysis/internal/typetree"
	apperrors "github.com/field-access-analysis/pkg/errors"
)

// EnvPrefix is the prefix for environment variable overrides,
// e.g. FAA_HOTNESS_BUCKETS=10.
const EnvPrefix = "FAA"

// Config holds all configuration for the application.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Hotness    HotnessConfig    `mapstructure:"hotness"`
	Flamegraph FlamegraphConfig `mapstructure:"flamegraph"`
	Chart      ChartConfig      `mapstructure:"chart"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// HotnessConfig controls hotness bucketing.
type HotnessConfig struct {
	// Buckets is the number of log-spaced thresholds.
	Buckets int `mapstructure:"buckets"`
	// ProblemTier is the tier forced onto nodes with a negative size.
	ProblemTier int `mapstructure:"problem_tier"`
	// ProblemSize replaces a negative size.
	ProblemSize int64 `mapstructure:"problem_size"`
}

// Policy returns the tree construction and bucketing policy.
func (h HotnessConfig) Policy() typetree.Policy {
	return typetree.Policy{
		Buckets:     h.Buckets,
		ProblemTier: h.ProblemTier,
		ProblemSize: h.ProblemSize,
	}
}

// FlamegraphConfig holds entry selection for flamegraph output.
// Max of -1 selects everything.
type FlamegraphConfig struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// ChartConfig holds bar chart layout settings.
type ChartConfig struct {
	Columns  int     `mapstructure:"columns"`
	WidthCM  float64 `mapstructure:"width_cm"`
	HeightCM float64 `mapstructure:"height_cm"`
	DPI      int     `mapstructure:"dpi"`
	Labels   bool    `mapstructure:"labels"`
}

// StorageConfig holds input/output storage configuration.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`     // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"`     // e.g., "https" or "http"
	LocalPath string `mapstructure:"local_path"` // base directory, empty for cwd
}

// TelemetryConfig enables OpenTelemetry spans around pipeline phases.
// Exporter settings still come from the standard OTEL_* variables.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// Load reads configuration from the specified file path. An empty path
// searches the standard locations; a missing file yields the defaults.
func Load(configPath string) (*Config, error) {
	return LoadWith(viper.New(), configPath)
}

// LoadWith is Load on a caller-provided viper instance, so that command
// line flags bound to v take precedence over the file.
func LoadWith(v *viper.Viper, configPath string) (*Config, error) {
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("field-access")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.config/field-access")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is not an error; the defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to read config file", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw content (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to read config", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("hotness.buckets", 8)
	v.SetDefault("hotness.problem_tier", 11)
	v.SetDefault("hotness.problem_size", 10)

	v.SetDefault("flamegraph.min", 0)
	v.SetDefault("flamegraph.max", -1)

	v.SetDefault("chart.columns", 4)
	v.SetDefault("chart.width_cm", 0)
	v.SetDefault("chart.height_cm", 0)
	v.SetDefault("chart.dpi", 96)
	v.SetDefault("chart.labels", false)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "field-access-analysis")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Hotness.Buckets < 2 {
		return apperrors.New(apperrors.CodeConfigError, "hotness buckets must be at least 2")
	}
	if c.Hotness.ProblemSize < 0 {
		return apperrors.New(apperrors.CodeConfigError, "hotness problem_size must not be negative")
	}
	if c.Flamegraph.Min < 0 {
		return apperrors.New(apperrors.CodeConfigError, "flamegraph min must not be negative")
	}
	if c.Flamegraph.Max < -1 {
		return apperrors.New(apperrors.CodeConfigError, "flamegraph max must be -1 or a count")
	}
	if c.Chart.Columns < 1 {
		return apperrors.New(apperrors.CodeConfigError, "chart columns must be at least 1")
	}
	if c.Chart.DPI < 1 {
		return apperrors.New(apperrors.CodeConfigError, "chart dpi must be positive")
	}
	if c.Storage.Type != "" && c.Storage.Type != "local" && c.Storage.Type != "cos" {
		return apperrors.Newf(apperrors.CodeConfigError, "unsupported storage type: %s", c.Storage.Type)
	}
	return nil
}
