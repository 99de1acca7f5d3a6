// Package config loads genesisctl configuration from .genesis/config.yaml
// with environment variable overrides. The file is optional; defaults target
// a local orchestrator backend.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all genesisctl configuration.
type Config struct {
	// Orchestrator backend base URL.
	APIURL string `yaml:"api_url"`

	// HTTP timeout for explicit user actions (query can be slow).
	RequestTimeout Duration `yaml:"request_timeout"`

	// Background refresh cadence for tasks and repositories.
	PollInterval Duration `yaml:"poll_interval"`

	// Model routing forwarded verbatim to the backend.
	Model    string `yaml:"model"`
	Provider string `yaml:"provider"`
	RAGMode  string `yaml:"rag_mode"`

	// Theme for the TUI ("light" or "dark").
	Theme string `yaml:"theme"`

	// Debug enables category file logging under .genesis/logs/.
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		APIURL:         "http://127.0.0.1:8000",
		RequestTimeout: Duration(120 * time.Second),
		PollInterval:   Duration(5 * time.Second),
		Model:          "Meta-Llama-3.3-70B-Instruct",
		Provider:       "sambanova",
		RAGMode:        "standard",
		Theme:          "dark",
	}
}

// Path returns the config file location inside a workspace.
func Path(workspace string) string {
	return filepath.Join(workspace, ".genesis", "config.yaml")
}

// Load reads config from the workspace, falling back to defaults for any
// missing file or field, then applies environment overrides.
func Load(workspace string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path(workspace))
	switch {
	case os.IsNotExist(err):
		// No file is fine; defaults + env apply.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values from the environment. GENESIS_API_URL
// mirrors the web front end's VITE_API_URL.
func (c *Config) applyEnv() {
	if v := os.Getenv("GENESIS_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("GENESIS_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("GENESIS_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("GENESIS_THEME"); v != "" {
		c.Theme = v
	}
	if v := os.Getenv("GENESIS_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
	if v := os.Getenv("GENESIS_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PollInterval = Duration(d)
		}
	}
}

func (c *Config) validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url must not be empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// Save writes the config back to the workspace, creating .genesis/ if needed.
func (c *Config) Save(workspace string) error {
	if err := os.MkdirAll(filepath.Dir(Path(workspace)), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(Path(workspace), data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
