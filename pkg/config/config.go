// Package config loads and validates engine configuration from a YAML file
// with environment-variable overrides, the way the platform this is
// grounded on loads its per-subsystem config.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level engine configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// EngineConfig controls the byte-size policies that decide whether a
// source is held fully in memory and whether it gets a word index.
type EngineConfig struct {
	LoadToMemoryLimit int64 `yaml:"loadToMemoryLimit"`
	BuildIndexLimit   int64 `yaml:"buildIndexLimit"`
}

// CacheConfig controls the query-result and source-content LRUs.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls whether Prometheus collectors are registered.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

const defaultByteLimit = 10_000_000

// Load reads a YAML config file (if path is non-empty) and applies
// TS_*-prefixed environment overrides on top of it, returning a Config
// populated with sensible defaults for anything left unset.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			LoadToMemoryLimit: defaultByteLimit,
			BuildIndexLimit:   defaultByteLimit,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TS_ENGINE_LOAD_TO_MEMORY_LIMIT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Engine.LoadToMemoryLimit = n
		}
	}
	if v := os.Getenv("TS_ENGINE_BUILD_INDEX_LIMIT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Engine.BuildIndexLimit = n
		}
	}
	if v := os.Getenv("TS_CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Cache.Enabled = b
		}
	}
	if v := os.Getenv("TS_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Size = n
		}
	}
	if v := os.Getenv("TS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("TS_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
}
