package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/selfxyz/self-mcp/internal/prompts"
)

func (s *Server) registerPrompts() {
	for _, p := range s.prompts.All() {
		opts := []mcp.PromptOption{mcp.WithPromptDescription(p.Description)}
		for _, arg := range p.Arguments {
			argOpts := []mcp.ArgumentOption{mcp.ArgumentDescription(arg.Description)}
			if arg.Required {
				argOpts = append(argOpts, mcp.RequiredArgument())
			}
			opts = append(opts, mcp.WithArgument(arg.Name, argOpts...))
		}
		s.mcp.AddPrompt(mcp.NewPrompt(p.Name, opts...), s.promptHandler(p))
	}
}

func (s *Server) promptHandler(p *prompts.Prompt) func(context.Context, mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return func(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		text, err := p.Render(request.Params.Arguments)
		if err != nil {
			s.logger.Debug().Err(err).Str("prompt", p.Name).Msg("prompt render failed")
			return nil, err
		}
		return mcp.NewGetPromptResult(p.Description, []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		}), nil
	}
}
