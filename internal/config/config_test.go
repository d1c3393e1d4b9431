package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 15*time.Second, cfg.Chain.Timeout)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Empty(t, cfg.RPCOverrides())
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	loader := NewLoader("")
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Empty(t, loader.ConfigFileUsed())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
log:
  level: debug
  format: json
chain:
  timeout: 5s
networks:
  testnet:
    rpc_url: https://rpc.example.org
docs:
  repo: example/docs
ratelimit:
  enabled: false
`)

	loader := NewLoader(path)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, path, loader.ConfigFileUsed())

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, FormatJSON, cfg.Log.Format)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
	assert.Equal(t, 5*time.Second, cfg.Chain.Timeout)
	assert.Equal(t, "example/docs", cfg.Docs.Repo)
	assert.Equal(t, "https://api.github.com", cfg.Docs.APIURL)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, map[string]string{"testnet": "https://rpc.example.org"}, cfg.RPCOverrides())
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "log:\n  level: debug\n")
	t.Setenv("SELF_MCP_LOG_LEVEL", "warn")
	t.Setenv("SELF_MCP_NETWORKS_MAINNET_RPC_URL", "https://mainnet.example.org")
	t.Setenv("SELF_MCP_DOCS_TIMEOUT", "3s")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3*time.Second, cfg.Docs.Timeout)
	assert.Equal(t, "https://mainnet.example.org", cfg.RPCOverrides()["mainnet"])
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
log:
  level: loud
  format: xml
docs:
  repo: nope
`)

	_, err := NewLoader(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "log.format")
	assert.Contains(t, err.Error(), "docs.repo")
}

func TestDefaultConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/self-mcp", DefaultConfigDir())
	assert.Equal(t, "/custom/config/self-mcp/config.yaml", DefaultConfigPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "self-mcp"), DefaultConfigDir())
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "log:\n  level: info\n")

	loader := NewLoader(path)
	_, err := loader.Load()
	require.NoError(t, err)

	changes := make(chan *Config, 8)
	loader.Watch(func(cfg *Config) {
		select {
		case changes <- cfg:
		default:
		}
	}, nil)

	writeConfig(t, dir, "log:\n  level: debug\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changes:
			if cfg.Log.Level == "debug" {
				return
			}
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}
