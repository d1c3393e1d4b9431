// Package config loads self-mcp settings from defaults, an optional YAML
// file and SELF_MCP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvPrefix prefixes every environment override, e.g. SELF_MCP_LOG_LEVEL.
const EnvPrefix = "SELF_MCP"

// Log output formats.
const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config is the full runtime configuration.
type Config struct {
	Log       LogConfig                `mapstructure:"log" yaml:"log"`
	Chain     ChainConfig              `mapstructure:"chain" yaml:"chain"`
	Networks  map[string]NetworkConfig `mapstructure:"networks" yaml:"networks"`
	Docs      DocsConfig               `mapstructure:"docs" yaml:"docs"`
	RateLimit RateLimitConfig          `mapstructure:"ratelimit" yaml:"ratelimit"`
}

// LogConfig controls the stderr logger and the optional rotated file.
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// ChainConfig bounds hub contract reads.
type ChainConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// NetworkConfig overrides a built-in network.
type NetworkConfig struct {
	RPCURL string `mapstructure:"rpc_url" yaml:"rpc_url"`
}

// DocsConfig points the documentation client at a repository.
type DocsConfig struct {
	Repo    string        `mapstructure:"repo" yaml:"repo"`
	APIURL  string        `mapstructure:"api_url" yaml:"api_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// RateLimitConfig toggles tool call rate limiting.
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Format:     FormatAuto,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Chain: ChainConfig{Timeout: 15 * time.Second},
		Networks: map[string]NetworkConfig{
			"mainnet": {},
			"testnet": {},
		},
		Docs: DocsConfig{
			Repo:    "selfxyz/self-docs",
			APIURL:  "https://api.github.com",
			Timeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{Enabled: true},
	}
}

// RPCOverrides returns the configured RPC URL per network key, skipping blanks.
func (c *Config) RPCOverrides() map[string]string {
	out := make(map[string]string)
	for name, n := range c.Networks {
		if url := strings.TrimSpace(n.RPCURL); url != "" {
			out[name] = url
		}
	}
	return out
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	var errs []error
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil || c.Log.Level == "" {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case FormatAuto, FormatConsole, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format: must be one of auto, console, json (got %q)", c.Log.Format))
	}
	if c.Chain.Timeout <= 0 {
		errs = append(errs, errors.New("chain.timeout: must be positive"))
	}
	if c.Docs.Timeout <= 0 {
		errs = append(errs, errors.New("docs.timeout: must be positive"))
	}
	if strings.Count(c.Docs.Repo, "/") != 1 {
		errs = append(errs, fmt.Errorf("docs.repo: expected owner/name (got %q)", c.Docs.Repo))
	}
	return errors.Join(errs...)
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/self-mcp or ~/.config/self-mcp.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "self-mcp")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "self-mcp")
	}
	return filepath.Join(home, ".config", "self-mcp")
}

// DefaultConfigPath returns the config file looked up when --config is unset.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}
