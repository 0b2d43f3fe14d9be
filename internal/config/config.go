package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/quantfold/backlight/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Collector  CollectorConfig           `mapstructure:"collector"`
	Storage    StorageConfig             `mapstructure:"storage"`
	Runner     RunnerConfig              `mapstructure:"runner"`
	Strategies map[string]StrategyConfig `mapstructure:"strategies"`
	Metrics    MetricsConfig             `mapstructure:"metrics"`
}

type CollectorConfig struct {
	Provider string        `mapstructure:"provider"`
	Interval string        `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
	APIKey   string        `mapstructure:"api_key"`
	Cache    bool          `mapstructure:"cache"`
}

type StorageConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type RunnerConfig struct {
	InitialCapital float64 `mapstructure:"initial_capital"`
	Workers        int     `mapstructure:"workers"`
	SaveReports    bool    `mapstructure:"save_reports"`
}

type StrategyConfig struct {
	Enabled bool           `mapstructure:"enabled"`
	Params  map[string]any `mapstructure:"params"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Collector: CollectorConfig{
			Provider: "yahoo",
			Interval: "1d",
			Timeout:  30 * time.Second,
			Cache:    true,
		},
		Storage: StorageConfig{
			Type: "localfs",
			Path: "data",
		},
		Runner: RunnerConfig{
			InitialCapital: 100000,
			Workers:        4,
			SaveReports:    true,
		},
		Strategies: map[string]StrategyConfig{
			"sma_crossover": {
				Enabled: true,
				Params:  map[string]any{"short_period": 20, "long_period": 50},
			},
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9100",
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Runner.InitialCapital <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial_capital must be positive, got %f", c.Runner.InitialCapital))
	}
	if c.Runner.Workers < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("workers must be at least 1, got %d", c.Runner.Workers))
	}
	if c.Collector.Timeout < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("collector timeout cannot be negative, got %s", c.Collector.Timeout))
	}

	switch c.Storage.Type {
	case "", "localfs":
		// Path defaults are filled by the caller when empty.
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when storage type is s3"))
		}
		if c.Storage.S3.Region == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 region required when storage type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown storage type %q", c.Storage.Type))
	}

	return nil
}
