package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/selfxyz/self-mcp/internal/apperr"
	"github.com/selfxyz/self-mcp/internal/validate"
)

var (
	callArgs     []string
	callArgsJSON string
)

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().StringArrayVarP(&callArgs, "arg", "a", nil, "argument as key=value; JSON values such as 18, true or [\"IRN\"] are decoded")
	callCmd.Flags().StringVar(&callArgsJSON, "args-json", "", "arguments as a JSON object; --arg values override its keys")
}

var callCmd = &cobra.Command{
	Use:   "call <operation>",
	Short: "Invoke an operation directly",
	Long: `Invoke an operation the same way an MCP client would, without a client.

Examples:
  self-mcp call explain_self_integration --arg use_case=airdrop
  self-mcp call generate_config_id -a minimum_age=18 -a 'excluded_countries=["IRN","PRK"]'
  self-mcp call read_hub_config --args-json '{"config_id":"0x...","network":"testnet"}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return runCall(ctx, args[0])
	},
}

type callResult struct {
	Operation string `json:"operation"`
	Text      string `json:"text"`
}

func runCall(ctx context.Context, name string) error {
	router, err := newRouter(GetConfig())
	if err != nil {
		return err
	}

	var params []validate.Param
	if op, ok := router.Get(name); ok {
		params = op.Params
	}
	raw, err := buildCallArgs(callArgsJSON, callArgs, params)
	if err != nil {
		return err
	}

	progress := startProgress(fmt.Sprintf("Calling %s", name))
	result, err := router.Dispatch(ctx, name, raw)
	if err != nil {
		progress.Fail(err)
		return fmt.Errorf("%s: %w", apperr.KindOf(err), err)
	}
	progress.Done()

	if IsJSONOutput() || IsJSONLOutput() {
		return WriteOutput(os.Stdout, callResult{Operation: name, Text: result.Text})
	}
	_, err = fmt.Fprintln(os.Stdout, renderMarkdown(result.Text))
	return err
}

// buildCallArgs merges a JSON object with key=value pairs. Values for string
// params are kept as typed.
func buildCallArgs(jsonText string, pairs []string, params []validate.Param) (map[string]any, error) {
	args := make(map[string]any)
	if strings.TrimSpace(jsonText) != "" {
		if err := json.Unmarshal([]byte(jsonText), &args); err != nil {
			return nil, fmt.Errorf("invalid --args-json: %w", err)
		}
	}

	parsed, err := parseCallArgs(pairs, stringParams(params))
	if err != nil {
		return nil, err
	}
	for k, v := range parsed {
		args[k] = v
	}
	return args, nil
}

func parseCallArgs(pairs []string, raw map[string]bool) (map[string]any, error) {
	args := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, errors.New("invalid argument: empty key")
		}
		if raw[key] {
			args[key] = value
			continue
		}
		args[key] = parseCallValue(value)
	}
	return args, nil
}

func stringParams(params []validate.Param) map[string]bool {
	out := make(map[string]bool)
	for _, p := range params {
		if p.Type == validate.TypeString {
			out[p.Name] = true
		}
	}
	return out
}

// parseCallValue decodes JSON numbers, booleans, arrays and objects and
// keeps anything else as a string.
func parseCallValue(value string) any {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return value
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return value
	}
	if decoded == nil {
		return value
	}
	return decoded
}
