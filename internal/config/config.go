package config

import (
	"time"

	"dealscout/internal/scoring"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Scoring  scoring.Config `toml:"scoring"`
	Upstream UpstreamConfig `toml:"upstream"`
	MCP      MCPConfig      `toml:"mcp"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// UpstreamConfig contains dev-proxy sync settings
type UpstreamConfig struct {
	BaseURL        string `toml:"base_url"`
	TokenEnv       string `toml:"token_env"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxAttempts    int    `toml:"max_attempts"`
}

// Timeout returns the upstream request timeout as a duration
func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/dealscout/dealscout.db",
		},
		Scoring: scoring.DefaultConfig(),
		Upstream: UpstreamConfig{
			BaseURL:        "http://localhost:8731",
			TokenEnv:       "DEALSCOUT_API_TOKEN",
			TimeoutSeconds: 30,
			MaxAttempts:    3,
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}
