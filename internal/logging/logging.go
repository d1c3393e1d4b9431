// Package logging builds the zerolog logger shared by all components. Logs go
// to stderr only; stdout carries the MCP stream.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/selfxyz/self-mcp/internal/config"
)

var (
	mu   sync.RWMutex
	base = zerolog.Nop()
)

// Options override where and how logs are written.
type Options struct {
	// Stderr defaults to os.Stderr.
	Stderr io.Writer
	// Level overrides cfg.Level when non-empty, e.g. from --log-level.
	Level string
}

// New builds a logger from cfg and applies its level process-wide. The
// returned closer closes the rotated log file, if one is configured.
func New(cfg config.LogConfig, opts Options) (zerolog.Logger, io.Closer, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	levelName := cfg.Level
	if opts.Level != "" {
		levelName = opts.Level
	}
	level, err := ParseLevel(levelName)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	var out io.Writer = stderr
	if useConsole(cfg.Format, stderr) {
		out = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		out = zerolog.MultiLevelWriter(out, file)
		closer = file
	}

	SetLevel(level)
	logger := zerolog.New(out).With().Timestamp().Logger()
	return logger, closer, nil
}

// ParseLevel accepts zerolog level names, case-insensitively.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

func useConsole(format string, w io.Writer) bool {
	switch format {
	case config.FormatConsole:
		return true
	case config.FormatJSON:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetBase installs the process-wide logger returned by Component.
func SetBase(logger zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = logger
}

// SetLevel changes the minimum level of every logger, e.g. after a config
// reload.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// Component returns the process-wide logger tagged with a component name.
func Component(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str("component", name).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
