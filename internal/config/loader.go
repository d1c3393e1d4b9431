package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Loader reads Config through viper and can watch the file for changes.
type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader returns a loader for path. An empty path searches the default
// config directory and tolerates a missing file.
func NewLoader(path string) *Loader {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
	}
	return &Loader{v: v, path: path}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
	v.SetDefault("log.max_age_days", cfg.Log.MaxAgeDays)
	v.SetDefault("log.compress", cfg.Log.Compress)
	v.SetDefault("chain.timeout", cfg.Chain.Timeout)
	for name, n := range cfg.Networks {
		v.SetDefault("networks."+name+".rpc_url", n.RPCURL)
	}
	v.SetDefault("docs.repo", cfg.Docs.Repo)
	v.SetDefault("docs.api_url", cfg.Docs.APIURL)
	v.SetDefault("docs.timeout", cfg.Docs.Timeout)
	v.SetDefault("ratelimit.enabled", cfg.RateLimit.Enabled)
}

// Load reads the file, if any, and returns the validated configuration.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFileUsed returns the file that was read, or "" when running on
// defaults and environment only.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Watch calls onChange with the reloaded configuration whenever the config
// file is written. Invalid edits are reported through onError and the
// previous configuration stays in effect.
func (l *Loader) Watch(onChange func(*Config), onError func(error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(event fsnotify.Event) {
		if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		cfg, err := l.decode()
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", event.Name, err))
			}
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
}
