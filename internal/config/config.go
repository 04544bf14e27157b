// Package config reads and writes config.yaml in the data directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rogersnm/todomaster/internal/kv"
	"github.com/rogersnm/todomaster/internal/logging"
)

const FileName = "config.yaml"

type Config struct {
	Backend   string `yaml:"backend,omitempty"`
	List      string `yaml:"list,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty"`
}

// Defaults fills unset fields.
func (c *Config) Defaults() {
	if c.Backend == "" {
		c.Backend = kv.BackendFile
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// Validate checks every field names something this build supports.
func (c *Config) Validate() error {
	if c.Backend != "" && !slices.Contains(Backends, c.Backend) {
		return fmt.Errorf("unknown backend %q (want one of %v)", c.Backend, Backends)
	}
	if c.List != "" {
		if err := kv.ValidateKey(c.List); err != nil {
			return fmt.Errorf("list: %w", err)
		}
	}
	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	if c.LogFormat != "" {
		if _, err := logging.ParseFormatter(c.LogFormat); err != nil {
			return err
		}
	}
	return nil
}

// Backends lists the slot backends a user may configure.
var Backends = []string{kv.BackendFile, kv.BackendSQLite}

var setters = map[string]func(*Config, string){
	"backend":    func(c *Config, v string) { c.Backend = v },
	"list":       func(c *Config, v string) { c.List = v },
	"log_level":  func(c *Config, v string) { c.LogLevel = v },
	"log_format": func(c *Config, v string) { c.LogFormat = v },
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns one field by its YAML key and validates the result.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (want one of %v)", key, Keys())
	}
	next := *c
	set(&next, value)
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := &Config{}
			cfg.Defaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.Defaults()
	return &cfg, nil
}

func Save(dataDir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dataDir, FileName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
