package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/selfxyz/self-mcp/internal/catalog"
	"github.com/selfxyz/self-mcp/internal/config"
	"github.com/selfxyz/self-mcp/internal/prompts"
)

var (
	initForce     bool
	configDirFunc = config.DefaultConfigDir
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file and check the embedded content",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		results := []initResult{
			createConfigFile(),
			checkEmbeddedContent(),
		}

		if IsJSONOutput() || IsJSONLOutput() {
			if err := WriteOutput(os.Stdout, results); err != nil {
				return err
			}
		} else {
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Name, r.Status, r.Message})
			}
			if err := writeTable(os.Stdout, []string{"STEP", "STATUS", "DETAIL"}, rows); err != nil {
				return err
			}
		}

		for _, r := range results {
			if r.Status == statusFailed {
				return fmt.Errorf("%s failed: %s", r.Name, r.Message)
			}
		}
		return nil
	},
}

const (
	statusDone    = "done"
	statusSkipped = "skipped"
	statusFailed  = "failed"
)

type initResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func createConfigFile() initResult {
	result := initResult{Name: "Config file"}
	dir := configDirFunc()
	path := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(path); err == nil && !initForce {
		result.Status = statusSkipped
		result.Message = fmt.Sprintf("%s already exists (use --force to overwrite)", path)
		return result
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.Status = statusFailed
		result.Message = err.Error()
		return result
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o644); err != nil {
		result.Status = statusFailed
		result.Message = err.Error()
		return result
	}

	result.Status = statusDone
	result.Message = "wrote " + path
	return result
}

func checkEmbeddedContent() initResult {
	result := initResult{Name: "Embedded content"}

	cat, err := catalog.Load()
	if err != nil {
		result.Status = statusFailed
		result.Message = err.Error()
		return result
	}
	promptSet, err := prompts.Load()
	if err != nil {
		result.Status = statusFailed
		result.Message = err.Error()
		return result
	}

	result.Status = statusDone
	result.Message = fmt.Sprintf("%d catalog categories, %d prompts", len(cat.Categories()), len(promptSet.Names()))
	return result
}

const configTemplate = `# self-mcp Configuration File
#
# Every key can also be set through the environment with the SELF_MCP_ prefix,
# e.g. SELF_MCP_LOG_LEVEL=debug or SELF_MCP_NETWORKS_TESTNET_RPC_URL=...

log:
  # trace, debug, info, warn, error
  level: info
  # auto picks console output on a terminal and JSON otherwise
  format: auto
  # optional rotated log file; stderr output continues either way
  file: ""
  max_size_mb: 10
  max_backups: 3
  max_age_days: 28
  compress: false

chain:
  # bound on each hub contract read, including the dial
  timeout: 15s

networks:
  mainnet:
    # empty keeps the built-in Celo endpoint
    rpc_url: ""
  testnet:
    rpc_url: ""

docs:
  repo: selfxyz/self-docs
  api_url: https://api.github.com
  timeout: 30s

ratelimit:
  enabled: true
`
