package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the server and the terminal game.
type Config struct {
	Addr              string   `yaml:"addr" json:"addr"`
	LogLevel          string   `yaml:"log_level" json:"log_level"`
	HistoryLimit      int      `yaml:"history_limit" json:"history_limit"`
	HeartbeatInterval Duration `yaml:"heartbeat_interval" json:"heartbeat_interval"`
	SubscriberBuffer  int      `yaml:"subscriber_buffer" json:"subscriber_buffer"`
}

// EnvAddr overrides Addr when set.
const EnvAddr = "TICTACTOE_ADDR"

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Addr:              ":8080",
		LogLevel:          "info",
		HeartbeatInterval: Duration(15 * time.Second),
		SubscriberBuffer:  1,
	}
}

// Load reads a YAML or JSON file (chosen by extension) over the defaults.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		case strings.ToLower(filepath.Ext(path)) == ".json":
			if err := json.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
			}
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
			}
		}
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative, got %d", c.HistoryLimit)
	}
	if c.SubscriberBuffer < 1 {
		return fmt.Errorf("subscriber_buffer must be at least 1, got %d", c.SubscriberBuffer)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat_interval must be positive")
	}
	return nil
}

// Duration is a time.Duration written as "15s" in config files.
type Duration time.Duration

// Std converts d to a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML parses a duration string such as "15s".
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	return d.parse(s)
}

// UnmarshalJSON parses a quoted duration string such as "15s".
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.parse(s)
}

func (d *Duration) parse(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}
