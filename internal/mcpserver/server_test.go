package mcpserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/selfxyz/self-mcp/internal/catalog"
	"github.com/selfxyz/self-mcp/internal/chain"
	"github.com/selfxyz/self-mcp/internal/docs"
	"github.com/selfxyz/self-mcp/internal/ops"
	"github.com/selfxyz/self-mcp/internal/prompts"
)

type stubChain struct{}

func (stubChain) ConfigExists(context.Context, string, common.Hash) (bool, error) {
	return false, nil
}

func (stubChain) ReadConfig(context.Context, string, common.Hash) (chain.ConfigReport, error) {
	return chain.ConfigReport{}, nil
}

type stubDocs struct{}

func (stubDocs) Fetch(context.Context, string) (string, error) {
	return "# Title\n\nbody", nil
}

func (stubDocs) Search(context.Context, string, int) ([]docs.SearchResult, error) {
	return nil, nil
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()
	return newLoggedServer(t, zerolog.Nop(), opts...)
}

func newLoggedServer(t *testing.T, logger zerolog.Logger, opts ...ServerOption) *Server {
	t.Helper()

	cat, err := catalog.Load()
	require.NoError(t, err)
	router, err := ops.New(ops.Deps{Catalog: cat, Chain: stubChain{}, Docs: stubDocs{}, Logger: zerolog.Nop()})
	require.NoError(t, err)
	promptSet, err := prompts.Load()
	require.NoError(t, err)

	s, err := NewServer(router, promptSet, logger, append([]ServerOption{WithVersion("test-version")}, opts...)...)
	require.NoError(t, err)
	return s
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func call(t *testing.T, s *Server, method string, params any) rpcResponse {
	t.Helper()

	req, err := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": 1, "method": method, "params": params})
	require.NoError(t, err)

	reply := s.MCP().HandleMessage(context.Background(), req)
	require.NotNil(t, reply)
	data, err := json.Marshal(reply)
	require.NoError(t, err)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) toolResult {
	t.Helper()
	resp := call(t, s, "tools/call", map[string]any{"name": name, "arguments": args})
	require.Nil(t, resp.Error)

	var res toolResult
	require.NoError(t, json.Unmarshal(resp.Result, &res))
	require.Len(t, res.Content, 1)
	return res
}

func initialize(t *testing.T, s *Server) {
	t.Helper()
	resp := call(t, s, "initialize", map[string]any{
		"protocolVersion": "2025-03-26",
		"clientInfo":      map[string]any{"name": "test", "version": "1"},
		"capabilities":    map[string]any{},
	})
	require.Nil(t, resp.Error)
	assert.Contains(t, string(resp.Result), `"name":"self-mcp"`)
	assert.Contains(t, string(resp.Result), `"version":"test-version"`)
}

func TestNewServerRequiresDeps(t *testing.T) {
	_, err := NewServer(nil, &prompts.Set{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestListTools(t *testing.T) {
	s := newTestServer(t)
	initialize(t, s)

	resp := call(t, s, "tools/list", map[string]any{})
	require.Nil(t, resp.Error)

	var out struct {
		Tools []struct {
			Name        string `json:"name"`
			InputSchema struct {
				Properties map[string]struct {
					Type    string   `json:"type"`
					Enum    []string `json:"enum"`
					Default any      `json:"default"`
				} `json:"properties"`
				Required []string `json:"required"`
			} `json:"inputSchema"`
			Annotations struct {
				ReadOnlyHint  *bool `json:"readOnlyHint"`
				OpenWorldHint *bool `json:"openWorldHint"`
			} `json:"annotations"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &out))
	require.Len(t, out.Tools, 15)

	byName := map[string]int{}
	for i, tool := range out.Tools {
		byName[tool.Name] = i
		require.NotNil(t, tool.Annotations.ReadOnlyHint, tool.Name)
		assert.True(t, *tool.Annotations.ReadOnlyHint, tool.Name)
	}

	code := out.Tools[byName["generate_verification_code"]]
	assert.Equal(t, []string{"component"}, code.InputSchema.Required)
	assert.Equal(t, []string{"frontend-qr", "backend-verify", "smart-contract"}, code.InputSchema.Properties["component"].Enum)
	assert.Equal(t, "string", code.InputSchema.Properties["language"].Type)

	configID := out.Tools[byName["generate_config_id"]]
	assert.Equal(t, "array", configID.InputSchema.Properties["excluded_countries"].Type)
	assert.Equal(t, "number", configID.InputSchema.Properties["minimum_age"].Type)
	assert.Equal(t, true, configID.InputSchema.Properties["check_onchain"].Default)
	require.NotNil(t, configID.Annotations.OpenWorldHint)
	assert.True(t, *configID.Annotations.OpenWorldHint)

	status := out.Tools[byName["check_self_status"]]
	assert.Equal(t, "celo-mainnet", status.InputSchema.Properties["network"].Default)
}

func TestCallTool(t *testing.T) {
	s := newTestServer(t)
	initialize(t, s)

	res := callTool(t, s, "explain_self_integration", map[string]any{"use_case": "age-verification"})
	assert.False(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "birthdate")

	res = callTool(t, s, "explain_self_integration", map[string]any{"use_case": "lottery"})
	assert.True(t, res.IsError)
	assert.True(t, strings.HasPrefix(res.Content[0].Text, "invalid_parameter: "), res.Content[0].Text)
	assert.Contains(t, res.Content[0].Text, `"airdrop"`)

	res = callTool(t, s, "generate_verification_code", map[string]any{"component": "smart-contract", "language": "javascript"})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, `invalid parameter "language"`)
}

func TestCallUnknownTool(t *testing.T) {
	s := newTestServer(t)
	initialize(t, s)

	resp := call(t, s, "tools/call", map[string]any{"name": "explain_everything", "arguments": map[string]any{}})
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "explain_everything")
}

func TestCallToolRateLimited(t *testing.T) {
	rl := NewRateLimiter(WithClock(newFakeClock().Now), WithToolLimits(map[string]RateLimitConfig{
		"list_docs_topics": {RequestsPerSecond: 1, BurstSize: 1},
	}))
	s := newTestServer(t, WithRateLimiter(rl))
	initialize(t, s)

	res := callTool(t, s, "list_docs_topics", nil)
	assert.False(t, res.IsError)

	res = callTool(t, s, "list_docs_topics", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "rate limit exceeded")
}

func TestReadResources(t *testing.T) {
	s := newTestServer(t)
	initialize(t, s)

	resp := call(t, s, "resources/list", map[string]any{})
	require.Nil(t, resp.Error)
	assert.Contains(t, string(resp.Result), ops.ContractsURI)
	assert.Contains(t, string(resp.Result), ops.BestPracticesURI)

	resp = call(t, s, "resources/templates/list", map[string]any{})
	require.Nil(t, resp.Error)
	assert.Contains(t, string(resp.Result), ops.ExamplesURITemplate)

	resp = call(t, s, "resources/read", map[string]any{"uri": ops.ContractsURI})
	require.Nil(t, resp.Error)
	var out struct {
		Contents []struct {
			URI      string `json:"uri"`
			MIMEType string `json:"mimeType"`
			Text     string `json:"text"`
		} `json:"contents"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &out))
	require.Len(t, out.Contents, 1)
	assert.Equal(t, ops.ContractsURI, out.Contents[0].URI)
	assert.Equal(t, "text/markdown", out.Contents[0].MIMEType)
	assert.Contains(t, out.Contents[0].Text, "0x77117D60eaB7C044e785D68edB6C7E0e134970Ea")

	resp = call(t, s, "resources/read", map[string]any{"uri": "self://examples/airdrop"})
	require.Nil(t, resp.Error)

	resp = call(t, s, "resources/read", map[string]any{"uri": "self://examples/lottery"})
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "example_type")
}

func TestGetPrompt(t *testing.T) {
	s := newTestServer(t)
	initialize(t, s)

	resp := call(t, s, "prompts/list", map[string]any{})
	require.Nil(t, resp.Error)
	assert.Contains(t, string(resp.Result), "design-verification-flow")
	assert.Contains(t, string(resp.Result), "troubleshoot-integration")

	resp = call(t, s, "prompts/get", map[string]any{
		"name":      "troubleshoot-integration",
		"arguments": map[string]string{"error_description": "scope mismatch"},
	})
	require.Nil(t, resp.Error)
	var out struct {
		Messages []struct {
			Role    string `json:"role"`
			Content struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &out))
	require.Len(t, out.Messages, 1)
	assert.Equal(t, "user", out.Messages[0].Role)
	assert.True(t, strings.HasPrefix(out.Messages[0].Content.Text, "I'll help troubleshoot your Self integration issue."))

	resp = call(t, s, "prompts/get", map[string]any{"name": "design-verification-flow", "arguments": map[string]string{}})
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "use_case")
}

func TestRunServesStdio(t *testing.T) {
	s := newTestServer(t)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, inR, outW)
	}()

	_, err := io.WriteString(inW, `{"jsonrpc":"2.0","id":7,"method":"ping"}`+"\n")
	require.NoError(t, err)

	line, err := bufio.NewReader(outR).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"id":7`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
	_ = inW.Close()
	_ = outR.Close()
}

func TestRunLogsRateLimitStats(t *testing.T) {
	var buf bytes.Buffer
	s := newLoggedServer(t, zerolog.New(&buf))
	initialize(t, s)

	callTool(t, s, "generate_config_id", map[string]any{"check_onchain": false})
	callTool(t, s, "list_docs_topics", map[string]any{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Run(ctx, strings.NewReader(""), io.Discard))

	var totals, perTool map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		switch entry["message"] {
		case "tool call totals":
			totals = entry
		case "tool rate limit":
			perTool = entry
		}
	}

	require.NotNil(t, totals)
	assert.Equal(t, float64(2), totals["requests"])
	assert.Equal(t, float64(0), totals["denied"])

	require.NotNil(t, perTool, "only tools with their own limit are listed")
	assert.Equal(t, "generate_config_id", perTool["tool"])
	assert.Equal(t, float64(1), perTool["requests"])
}
