// Package common provides shared configuration, logging, and version
// utilities for the DataLens MCP adapter.
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Default API endpoint and version for the DataLens public RPC surface.
const (
	DefaultBaseURL        = "https://api.datalens.tech"
	DefaultAPIVersion     = "0"
	DefaultTimeoutSeconds = 30
)

// Config holds all datalens-mcp configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	API     APIConfig     `toml:"api"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Port string `toml:"port"`
}

// APIConfig holds settings for the upstream DataLens RPC endpoint.
// Credentials (org id, token) are deliberately absent: they are read from the
// environment at call time so rotated tokens take effect without a restart.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	APIVersion     string `toml:"api_version"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-call request timeout.
func (c *APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "DataLens-MCP",
			Port: "4280",
		},
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			APIVersion:     DefaultAPIVersion,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/datalens-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from a TOML file (if present) over defaults,
// then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			// File not found — use defaults
		} else if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if url := EnvNonEmpty("DATALENS_BASE_URL"); url != "" {
		cfg.API.BaseURL = url
	}
	if v := EnvNonEmpty("DATALENS_API_VERSION"); v != "" {
		cfg.API.APIVersion = v
	}
	if raw := EnvNonEmpty("DATALENS_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			cfg.API.TimeoutSeconds = secs
		}
	}
	if port := EnvNonEmpty("DATALENS_MCP_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if level := EnvNonEmpty("DATALENS_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

// EnvNonEmpty returns the trimmed value of an environment variable, or empty
// string when unset or whitespace-only.
func EnvNonEmpty(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}
