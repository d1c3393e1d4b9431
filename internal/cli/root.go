// Package cli implements the self-mcp command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/selfxyz/self-mcp/internal/config"
	"github.com/selfxyz/self-mcp/internal/logging"
)

var (
	configPath     string
	logLevel       string
	jsonOutput     bool
	jsonlOutput    bool
	noProgress     bool
	nonInteractive bool

	version = "dev"

	appConfig *config.Config
	loader    *config.Loader
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "self-mcp",
	Short: "Self protocol integration assistant",
	Long: `self-mcp is a Model Context Protocol server that helps developers integrate
the Self identity protocol: guides, code generation, error diagnosis, scope and
config ID derivation, read-only hub contract lookups and live documentation.

Run without a subcommand to serve MCP on stdio.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput && jsonlOutput {
			return errors.New("--json and --jsonl are mutually exclusive")
		}
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default "+config.DefaultConfigPath()+")")
	flags.StringVar(&logLevel, "log-level", "", "log level override (trace, debug, info, warn, error)")
	flags.BoolVar(&jsonOutput, "json", false, "output JSON")
	flags.BoolVar(&jsonlOutput, "jsonl", false, "output JSON lines")
	flags.BoolVar(&noProgress, "no-progress", false, "disable progress output")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "never style output for a terminal")
}

// Execute runs the root command and returns the process exit code.
func Execute(v string) int {
	if v != "" {
		version = v
	}
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func setup() error {
	loader = config.NewLoader(configPath)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Log, logging.Options{Level: logLevel})
	if err != nil {
		return err
	}
	logging.SetBase(logger)

	appConfig = cfg
	logCloser = closer

	if used := loader.ConfigFileUsed(); used != "" {
		logger.Debug().Str("path", used).Msg("config loaded")
	}
	return nil
}

// GetConfig returns the loaded configuration, or nil before setup.
func GetConfig() *config.Config {
	return appConfig
}

// IsJSONOutput reports whether --json was given.
func IsJSONOutput() bool {
	return jsonOutput
}

// IsJSONLOutput reports whether --jsonl was given.
func IsJSONLOutput() bool {
	return jsonlOutput
}

func logger(component string) zerolog.Logger {
	return logging.Component(component)
}
