package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/selfxyz/self-mcp/internal/mcpserver"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

type versionInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Go      string `json:"go"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{Name: mcpserver.ServerName, Version: version, Go: runtime.Version()}
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, info)
		}
		_, err := fmt.Fprintf(os.Stdout, "%s %s (%s)\n", info.Name, info.Version, info.Go)
		return err
	},
}
