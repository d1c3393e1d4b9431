package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/selfxyz/self-mcp/internal/apperr"
	"github.com/selfxyz/self-mcp/internal/ops"
	"github.com/selfxyz/self-mcp/internal/validate"
)

// networkTools reach Celo RPC or GitHub and are open-world.
var networkTools = map[string]bool{
	"generate_config_id": true,
	"read_hub_config":    true,
	"fetch_self_docs":    true,
	"search_docs":        true,
}

func (s *Server) registerTools() error {
	for _, op := range s.router.Operations() {
		tool, err := toolFor(op)
		if err != nil {
			return err
		}
		s.mcp.AddTool(tool, s.toolHandler(op.Name))
	}
	return nil
}

// toolFor translates an operation's parameter table into a tool schema.
func toolFor(op *ops.Operation) (mcp.Tool, error) {
	opts := []mcp.ToolOption{
		mcp.WithDescription(op.Description),
		mcp.WithTitleAnnotation(op.Title),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(networkTools[op.Name]),
	}

	for _, p := range op.Params {
		opt, err := paramOption(p)
		if err != nil {
			return mcp.Tool{}, fmt.Errorf("tool %s: %w", op.Name, err)
		}
		opts = append(opts, opt)
	}
	return mcp.NewTool(op.Name, opts...), nil
}

func paramOption(p validate.Param) (mcp.ToolOption, error) {
	var props []mcp.PropertyOption
	if p.Description != "" {
		props = append(props, mcp.Description(p.Description))
	}
	if p.Required {
		props = append(props, mcp.Required())
	}
	if len(p.Enum) > 0 {
		props = append(props, mcp.Enum(p.Enum...))
	}
	if p.Min != nil {
		props = append(props, mcp.Min(float64(*p.Min)))
	}
	if p.Max != nil {
		props = append(props, mcp.Max(float64(*p.Max)))
	}

	switch p.Type {
	case validate.TypeString:
		if def, ok := p.Default.(string); ok && def != "" {
			props = append(props, mcp.DefaultString(def))
		}
		return mcp.WithString(p.Name, props...), nil
	case validate.TypeInt:
		if def, ok := p.Default.(int); ok {
			props = append(props, mcp.DefaultNumber(float64(def)))
		}
		return mcp.WithNumber(p.Name, props...), nil
	case validate.TypeBool:
		if def, ok := p.Default.(bool); ok {
			props = append(props, mcp.DefaultBool(def))
		}
		return mcp.WithBoolean(p.Name, props...), nil
	case validate.TypeStringList:
		props = append(props, mcp.Items(map[string]any{"type": "string"}))
		return mcp.WithArray(p.Name, props...), nil
	case validate.TypeBoolList:
		props = append(props, mcp.Items(map[string]any{"type": "boolean"}))
		return mcp.WithArray(p.Name, props...), nil
	case validate.TypeObject:
		return mcp.WithObject(p.Name, props...), nil
	default:
		return nil, fmt.Errorf("parameter %q has unsupported type %q", p.Name, p.Type)
	}
}

func (s *Server) toolHandler(name string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.router.Dispatch(ctx, name, request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(toolError(err)), nil
		}
		return mcp.NewToolResultText(result.Text), nil
	}
}

// toolError prefixes the message with the error kind.
func toolError(err error) string {
	return fmt.Sprintf("%s: %v", apperr.KindOf(err), err)
}
