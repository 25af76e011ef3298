package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration. Values come from an optional
// YAML file with environment overrides on top.
type Config struct {
	DataDir  string `yaml:"data_dir"`
	LogLevel string `yaml:"log_level"`
}

// Default values.
const (
	DefaultConfigFile = "taskboard.yaml"
	DefaultDataDir    = "data"
	DefaultLogLevel   = "info"
)

// Load reads the config file at path (DefaultConfigFile when empty). A
// missing file is not an error; defaults and environment variables apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	cfg := &Config{
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TASKBOARD_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("TASKBOARD_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}
