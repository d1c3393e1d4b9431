// Package mcpserver exposes the operation router over the Model Context
// Protocol on stdio.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/selfxyz/self-mcp/internal/ops"
	"github.com/selfxyz/self-mcp/internal/prompts"
)

// ServerName is reported to clients during initialization.
const ServerName = "self-mcp"

// Server wires the router, prompts and rate limiter into an MCP server.
type Server struct {
	logger    zerolog.Logger
	router    *ops.Router
	prompts   *prompts.Set
	limiter   *RateLimiter
	version   string
	startedAt time.Time

	mcp *server.MCPServer
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithVersion sets the version reported to clients.
func WithVersion(version string) ServerOption {
	return func(s *Server) {
		s.version = version
	}
}

// WithRateLimiter replaces the default rate limiter.
func WithRateLimiter(rl *RateLimiter) ServerOption {
	return func(s *Server) {
		s.limiter = rl
	}
}

// NewServer registers every operation as a tool, plus the static resources
// and the prompt flows.
func NewServer(router *ops.Router, promptSet *prompts.Set, logger zerolog.Logger, opts ...ServerOption) (*Server, error) {
	if router == nil {
		return nil, errors.New("router is required")
	}
	if promptSet == nil {
		return nil, errors.New("prompt set is required")
	}

	s := &Server{
		logger:    logger.With().Str("component", "mcpserver").Logger(),
		router:    router,
		prompts:   promptSet,
		version:   "dev",
		startedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = NewRateLimiter(WithGlobalLimit(DefaultGlobalLimit))
	}

	s.mcp = server.NewMCPServer(
		ServerName,
		s.version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(s.limiter.Middleware()),
		server.WithInstructions(instructions),
	)

	if err := s.registerTools(); err != nil {
		return nil, err
	}
	s.registerResources()
	s.registerPrompts()

	return s, nil
}

// MCP returns the underlying protocol server.
// Useful for testing.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Run serves newline-delimited JSON-RPC on in and out until in is closed or
// the context is canceled.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(s.logger, "", 0))

	s.logger.Info().
		Str("version", s.version).
		Int("tools", len(s.router.Names())).
		Int("prompts", len(s.prompts.Names())).
		Msg("self-mcp server starting on stdio")

	err := stdio.Listen(ctx, in, out)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		s.logger.Info().Msg("stdin closed")
	case errors.Is(err, context.Canceled):
		s.logger.Info().Msg("self-mcp shutting down...")
	default:
		return fmt.Errorf("stdio server error: %w", err)
	}

	s.logRateLimitStats()
	s.logger.Info().Dur("uptime", time.Since(s.startedAt)).Msg("self-mcp shutdown complete")
	return nil
}

func (s *Server) logRateLimitStats() {
	if global := s.limiter.GlobalStats(); global != nil {
		s.logger.Info().
			Int64("requests", global.TotalRequests).
			Int64("denied", global.DeniedRequests).
			Float64("denied_pct", global.DeniedPercentage).
			Msg("tool call totals")
	}
	for _, st := range s.limiter.Stats() {
		if st.TotalRequests == 0 {
			continue
		}
		s.logger.Info().
			Str("tool", st.Tool).
			Int64("requests", st.TotalRequests).
			Int64("denied", st.DeniedRequests).
			Msg("tool rate limit")
	}
}

const instructions = `Self protocol integration assistant.

Use the guide tools (explain_self_integration, generate_verification_code,
generate_verification_config, explain_sdk_setup, generate_eu_id_verification)
for integration walkthroughs and code. Use debug_verification_error when a
verification fails. generate_scope_hash and generate_config_id compute the
values the hub contract expects; read_hub_config and check_self_status read
deployed state. Anything that writes on-chain is done on tools.self.xyz, see
guide_to_tools. Documentation is fetched live with fetch_self_docs and
search_docs.`
