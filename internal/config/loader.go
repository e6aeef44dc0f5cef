package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'dealscout config init' to create)", expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads config or exits with error
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Database.Path, err = expandPath(c.Database.Path)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	if c.Scoring.HighlightScale <= 0 {
		errs = append(errs, errors.New("scoring.highlight_scale must be positive"))
	}
	if c.Scoring.RedFlagScale <= 0 {
		errs = append(errs, errors.New("scoring.red_flag_scale must be positive"))
	}
	if c.Scoring.StrongPassMin < c.Scoring.SoftPassMin || c.Scoring.SoftPassMin < c.Scoring.BorderlineMin {
		errs = append(errs, errors.New("scoring thresholds must satisfy strong_pass_min >= soft_pass_min >= borderline_min"))
	}
	if c.Scoring.BorderlineMin < 0 || c.Scoring.StrongPassMin > 100 {
		errs = append(errs, errors.New("scoring thresholds must be between 0 and 100"))
	}

	if c.Upstream.BaseURL == "" {
		errs = append(errs, errors.New("upstream.base_url is required"))
	}
	if c.Upstream.TimeoutSeconds < 1 {
		errs = append(errs, errors.New("upstream.timeout_seconds must be at least 1"))
	}
	if c.Upstream.MaxAttempts < 1 {
		errs = append(errs, errors.New("upstream.max_attempts must be at least 1"))
	}

	if c.MCP.Transport != "stdio" {
		errs = append(errs, fmt.Errorf("mcp.transport must be 'stdio', got '%s'", c.MCP.Transport))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// UpstreamToken reads the API token from the configured environment
// variable. Empty when unset.
func (c *Config) UpstreamToken() string {
	if c.Upstream.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.Upstream.TokenEnv)
}

// EnsureDirectories creates necessary directories for the database
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Database.Path),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
