package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Duration       time.Duration `toml:"duration" yaml:"duration"`
	Tick           time.Duration `toml:"tick" yaml:"tick"` // 0 runs frames back to back
	Entities       int           `toml:"entities" yaml:"entities"`
	Seed           int64         `toml:"seed" yaml:"seed"`
	ChurnPerFrame  int           `toml:"churn_per_frame" yaml:"churn_per_frame"`
	EntityLimit    uint64        `toml:"entity_limit" yaml:"entity_limit"`
	FixedCapacity  int           `toml:"fixed_capacity" yaml:"fixed_capacity"` // 0 keeps collections growable
	GCPauseMetrics bool          `toml:"gc_pause_metrics" yaml:"gc_pause_metrics"`
	Profile        string        `toml:"profile" yaml:"profile"`
	Logging        LoggingConfig `toml:"logging" yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "console" or "json"
}

var errUnknownFormat = errors.New("unknown config format")

// Load reads a TOML or YAML file, chosen by extension, over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := defaults()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config %s: %w %q", path, errUnknownFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Duration:      10 * time.Second,
		Entities:      10000,
		Seed:          1,
		ChurnPerFrame: 100,
		Profile:       "none",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", c.Duration)
	}
	if c.Tick < 0 {
		return fmt.Errorf("tick must not be negative, got %s", c.Tick)
	}
	if c.Entities < 0 || c.ChurnPerFrame < 0 || c.FixedCapacity < 0 {
		return errors.New("entities, churn_per_frame and fixed_capacity must not be negative")
	}
	switch c.Profile {
	case "", "none", "cpu", "mem":
	default:
		return fmt.Errorf("unknown profile mode %q", c.Profile)
	}
	return nil
}
