// Package config loads Fuste's run-time configuration from a YAML document.
// CLI flags override individual fields after loading.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config is Fuste's run-time configuration.
type Config struct {
	MemorySize  uint32 `yaml:"memory_size"`
	MaxTicks    int    `yaml:"max_ticks"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogFile     string `yaml:"log_file"`
	Debug       bool   `yaml:"debug"`
}

// Default returns the baseline configuration: a megabyte of memory, no
// tick limit, no metrics, no debug tracing.
func Default() Config {
	return Config{
		MemorySize: 1 << 20,
		MaxTicks:   0,
	}
}

// Load reads and parses a YAML configuration file, starting from Default
// and overwriting only the fields the file sets.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "config: read")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "config: parse")
	}
	return cfg, nil
}
