// Package config loads pagedb's startup configuration from an optional
// YAML file, layered under explicit overrides such as CLI flags.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultDataDir and DefaultBufferPoolCapacity apply when a field is left
// unset both in the config file and by the caller's overrides.
const (
	DefaultDataDir            = "data"
	DefaultBufferPoolCapacity = 100
)

// Config is pagedb's startup configuration.
type Config struct {
	DataDir            string `yaml:"data_dir"`
	BufferPoolCapacity int    `yaml:"buffer_pool_capacity"`
}

// Default returns a Config populated with DefaultDataDir and
// DefaultBufferPoolCapacity.
func Default() Config {
	return Config{DataDir: DefaultDataDir, BufferPoolCapacity: DefaultBufferPoolCapacity}
}

// Load reads path as YAML over top of Default(). A missing file is not an
// error: Default() applies unchanged, mirroring the catalog's
// missing-file-is-empty behavior.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.BufferPoolCapacity <= 0 {
		cfg.BufferPoolCapacity = DefaultBufferPoolCapacity
	}
	return cfg, nil
}
