package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/selfxyz/self-mcp/internal/config"
	"github.com/selfxyz/self-mcp/internal/logging"
	"github.com/selfxyz/self-mcp/internal/mcpserver"
	"github.com/selfxyz/self-mcp/internal/prompts"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP on stdio",
	Long:  "Serve the Model Context Protocol on stdin/stdout. Logs are written to stderr.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	router, err := newRouter(cfg)
	if err != nil {
		return err
	}
	promptSet, err := prompts.Load()
	if err != nil {
		return err
	}

	limiter := mcpserver.NewRateLimiter(
		mcpserver.WithGlobalLimit(mcpserver.DefaultGlobalLimit),
		mcpserver.WithEnabled(cfg.RateLimit.Enabled),
	)
	server, err := mcpserver.NewServer(router, promptSet, logger("mcpserver"),
		mcpserver.WithVersion(version),
		mcpserver.WithRateLimiter(limiter),
	)
	if err != nil {
		return err
	}

	watchConfig(limiter)
	return server.Run(ctx, os.Stdin, os.Stdout)
}

// watchConfig applies log level and rate limit edits without a restart.
// Other settings take effect on the next start.
func watchConfig(limiter *mcpserver.RateLimiter) {
	if loader == nil {
		return
	}
	log := logger("config")
	loader.Watch(func(cfg *config.Config) {
		level := cfg.Log.Level
		if logLevel != "" {
			level = logLevel
		}
		if parsed, err := logging.ParseLevel(level); err == nil {
			logging.SetLevel(parsed)
		}
		limiter.SetEnabled(cfg.RateLimit.Enabled)
		log.Info().
			Str("log_level", level).
			Bool("ratelimit", cfg.RateLimit.Enabled).
			Msg("config reloaded")
	}, func(err error) {
		log.Warn().Err(err).Msg("config reload rejected")
	})
}
