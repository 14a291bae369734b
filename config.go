package server

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultAddr = ":8080"

// Config captures the process-level toggles. Everything has a working
// default; the YAML file and environment overrides are both optional.
type Config struct {
	Addr      string    `yaml:"addr"`
	ClientDir string    `yaml:"clientDir"`
	Log       LogConfig `yaml:"log"`
}

// LogConfig selects the logging sinks to enable.
type LogConfig struct {
	Sinks    []string `yaml:"sinks"`
	JSONPath string   `yaml:"jsonPath"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Addr: defaultAddr,
		Log: LogConfig{
			Sinks: []string{"console"},
		},
	}
}

// Normalized returns a config with defaults applied to empty fields.
func (c Config) Normalized() Config {
	normalized := c
	normalized.Addr = strings.TrimSpace(normalized.Addr)
	if normalized.Addr == "" {
		normalized.Addr = defaultAddr
	}
	normalized.ClientDir = strings.TrimSpace(normalized.ClientDir)
	if len(normalized.Log.Sinks) == 0 {
		normalized.Log.Sinks = []string{"console"}
	}
	return normalized
}

// LoadConfig reads a YAML config file. A missing file is not an error; the
// defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg.Normalized(), nil
}
