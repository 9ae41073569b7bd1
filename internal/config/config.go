// Package config handles reading and writing .elicit/config.yaml.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for .elicit/config.yaml.
type Config struct {
	Version int          `yaml:"version"`
	Server  ServerConfig `yaml:"server"`
	Chat    ChatConfig   `yaml:"chat"`
	Export  ExportConfig `yaml:"export"`
	Log     LogConfig    `yaml:"log"`
}

// ServerConfig locates the requirements assistant.
type ServerConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ChatConfig controls session behaviour.
type ChatConfig struct {
	SenderID       string `yaml:"sender_id"`        // empty = generated per session
	PollIntervalMs int    `yaml:"poll_interval_ms"` // summary refresh period
}

// ExportConfig controls where exported documents land.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig controls diagnostics and the event log.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Events bool   `yaml:"events"` // write .elicit/log.jsonl
}

const configDir = ".elicit"
const configFile = "config.yaml"

// ErrNotFound is returned by ReadConfig when no config file exists.
var ErrNotFound = errors.New("config not found")

// Dir returns the state directory for the given project root.
func Dir(root string) string {
	return filepath.Join(root, configDir)
}

// ReadConfig reads .elicit/config.yaml from the given directory.
// dir is the working root (not .elicit/ itself).
// Returns ErrNotFound if the file is missing, or an error if YAML is malformed.
// Fields absent from the file keep their default values.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configDir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads the config, falling back to defaults when the file
// does not exist. Malformed files are still an error.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := ReadConfig(dir)
	if errors.Is(err, ErrNotFound) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// WriteConfig writes cfg to .elicit/config.yaml in the given directory.
// Creates the .elicit/ directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: ServerConfig{
			BaseURL:   "http://localhost:5000",
			TimeoutMs: 30000,
		},
		Chat: ChatConfig{
			SenderID:       "user_1",
			PollIntervalMs: 5000,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Log: LogConfig{
			Level:  "info",
			Events: true,
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server.base_url %q must be an http(s) URL", c.Server.BaseURL)
	}
	if c.Server.TimeoutMs < 0 {
		return fmt.Errorf("server.timeout_ms must not be negative")
	}
	if c.Chat.PollIntervalMs < 0 {
		return fmt.Errorf("chat.poll_interval_ms must not be negative")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutMs) * time.Millisecond
}

// PollInterval returns the summary refresh period.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Chat.PollIntervalMs) * time.Millisecond
}
