package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/selfxyz/self-mcp/internal/ops"
	"github.com/selfxyz/self-mcp/internal/validate"
)

func init() {
	rootCmd.AddCommand(toolsCmd)
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the operations exposed as MCP tools",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		router, err := newRouter(GetConfig())
		if err != nil {
			return err
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, toolSummaries(router.Operations()))
		}

		fmt.Fprintln(os.Stdout, heading(fmt.Sprintf("%d tools", len(router.Names()))))
		rows := make([][]string, 0, len(router.Names()))
		for _, name := range router.Names() {
			op, _ := router.Get(name)
			rows = append(rows, []string{op.Name, formatParams(op.Params), op.Title})
		}
		return writeTable(os.Stdout, []string{"NAME", "PARAMS", "TITLE"}, rows)
	},
}

type toolParam struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Enum     []string `json:"enum,omitempty"`
	Default  any      `json:"default,omitempty"`
}

type toolSummary struct {
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Params      []toolParam `json:"params"`
}

func toolSummaries(operations []*ops.Operation) []toolSummary {
	out := make([]toolSummary, 0, len(operations))
	for _, op := range operations {
		summary := toolSummary{Name: op.Name, Title: op.Title, Description: op.Description, Params: []toolParam{}}
		for _, p := range op.Params {
			summary.Params = append(summary.Params, toolParam{
				Name:     p.Name,
				Type:     string(p.Type),
				Required: p.Required,
				Enum:     p.Enum,
				Default:  p.Default,
			})
		}
		out = append(out, summary)
	}
	return out
}

// formatParams lists parameter names, marking required ones with '*'.
func formatParams(params []validate.Param) string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		name := p.Name
		if p.Required {
			name += "*"
		}
		names = append(names, name)
	}
	return formatList(names)
}
