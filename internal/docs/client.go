// Package docs fetches Self protocol documentation from its GitHub repository.
package docs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/selfxyz/self-mcp/internal/apperr"
)

const (
	DefaultRepo    = "selfxyz/self-docs"
	DefaultAPIURL  = "https://api.github.com"
	DefaultTimeout = 30 * time.Second

	userAgent = "Self-MCP-Server"
	maxBody   = 4 << 20
)

// Options configures a Client.
type Options struct {
	APIURL     string
	Repo       string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client reads files through the GitHub contents API. Every call is a fresh
// request; nothing is cached.
type Client struct {
	http    *http.Client
	baseURL string
	host    string
	logger  zerolog.Logger
}

// NewClient creates a docs client.
func NewClient(logger zerolog.Logger, opts Options) *Client {
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.Repo == "" {
		opts.Repo = DefaultRepo
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	apiURL := strings.TrimRight(opts.APIURL, "/")
	return &Client{
		http:    httpClient,
		baseURL: fmt.Sprintf("%s/repos/%s/contents", apiURL, opts.Repo),
		host:    apiURL,
		logger:  logger.With().Str("component", "docs").Logger(),
	}
}

type contentsResponse struct {
	Path     string `json:"path"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

// Fetch returns the decoded markdown stored at path. Transport failures,
// non-200 responses and undecodable payloads are NetworkErrors.
func (c *Client) Fetch(ctx context.Context, path string) (string, error) {
	url := c.baseURL + "/" + strings.TrimLeft(path, "/")
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", apperr.InternalConsistency("build docs request: %v", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("docs fetch failed")
		return "", apperr.Network(c.host, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("docs fetch rejected")
		return "", apperr.Network(c.host, path, fmt.Errorf("unexpected status %s", resp.Status))
	}

	var payload contentsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&payload); err != nil {
		return "", apperr.Network(c.host, path, fmt.Errorf("decode contents response: %w", err))
	}
	if payload.Encoding != "base64" {
		return "", apperr.Network(c.host, path, fmt.Errorf("unsupported content encoding %q", payload.Encoding))
	}

	// GitHub wraps base64 content at 60 columns.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(payload.Content, "\n", ""))
	if err != nil {
		return "", apperr.Network(c.host, path, fmt.Errorf("decode content: %w", err))
	}

	c.logger.Debug().Str("path", path).Dur("elapsed", time.Since(start)).Int("bytes", len(raw)).Msg("docs fetched")
	return string(raw), nil
}
