package mcpserver

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RateLimitConfig defines rate limits for a specific tool or globally.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustainable rate (tokens added per second).
	RequestsPerSecond float64

	// BurstSize is the maximum number of requests allowed in a burst.
	BurstSize int
}

// DefaultRateLimits caps the tools that reach external services.
var DefaultRateLimits = map[string]RateLimitConfig{
	// Hub contract reads
	"generate_config_id": {RequestsPerSecond: 5, BurstSize: 10},
	"read_hub_config":    {RequestsPerSecond: 5, BurstSize: 10},

	// GitHub contents API; search fans out to every topic
	"fetch_self_docs": {RequestsPerSecond: 2, BurstSize: 5},
	"search_docs":     {RequestsPerSecond: 0.5, BurstSize: 2},
}

// DefaultGlobalLimit applies to every tool call.
var DefaultGlobalLimit = RateLimitConfig{RequestsPerSecond: 50, BurstSize: 100}

// tokenBucket implements the token bucket algorithm for rate limiting.
type tokenBucket struct {
	mu           sync.Mutex
	tokens       float64
	lastUpdate   time.Time
	ratePerSec   float64
	maxTokens    float64
	requestCount int64
	deniedCount  int64
	now          func() time.Time
}

func newTokenBucket(cfg RateLimitConfig, now func() time.Time) *tokenBucket {
	return &tokenBucket{
		tokens:     float64(cfg.BurstSize),
		lastUpdate: now(),
		ratePerSec: cfg.RequestsPerSecond,
		maxTokens:  float64(cfg.BurstSize),
		now:        now,
	}
}

// allow checks if a request is allowed and consumes a token if so.
func (tb *tokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.requestCount++
	tb.refill()

	if tb.tokens >= 1.0 {
		tb.tokens--
		return true
	}

	tb.deniedCount++
	return false
}

func (tb *tokenBucket) refill() {
	now := tb.now()
	elapsed := now.Sub(tb.lastUpdate).Seconds()
	tb.tokens = min(tb.tokens+elapsed*tb.ratePerSec, tb.maxTokens)
	tb.lastUpdate = now
}

func (tb *tokenBucket) stats() (available float64, requestCount, deniedCount int64) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	return tb.tokens, tb.requestCount, tb.deniedCount
}

// RateLimiter manages per-tool token buckets plus an optional global bucket.
type RateLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*tokenBucket
	configs map[string]RateLimitConfig

	globalBucket *tokenBucket
	globalConfig *RateLimitConfig

	enabled bool
	now     func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithToolLimits sets custom limits for specific tools.
func WithToolLimits(limits map[string]RateLimitConfig) RateLimiterOption {
	return func(rl *RateLimiter) {
		for tool, cfg := range limits {
			rl.configs[tool] = cfg
		}
	}
}

// WithGlobalLimit sets a limit applied to all tools.
func WithGlobalLimit(cfg RateLimitConfig) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.globalConfig = &cfg
	}
}

// WithEnabled enables or disables rate limiting.
func WithEnabled(enabled bool) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.enabled = enabled
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.now = now
	}
}

// NewRateLimiter creates a rate limiter seeded with DefaultRateLimits.
func NewRateLimiter(opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*tokenBucket),
		configs: make(map[string]RateLimitConfig),
		enabled: true,
		now:     time.Now,
	}

	for tool, cfg := range DefaultRateLimits {
		rl.configs[tool] = cfg
	}

	for _, opt := range opts {
		opt(rl)
	}

	if rl.globalConfig != nil {
		rl.globalBucket = newTokenBucket(*rl.globalConfig, rl.now)
	}
	return rl
}

// Allow reports whether a call to tool may proceed.
func (rl *RateLimiter) Allow(tool string) bool {
	if !rl.IsEnabled() {
		return true
	}

	if rl.globalBucket != nil && !rl.globalBucket.allow() {
		return false
	}

	bucket := rl.getBucket(tool)
	if bucket == nil {
		return true
	}
	return bucket.allow()
}

func (rl *RateLimiter) getBucket(tool string) *tokenBucket {
	rl.mu.RLock()
	bucket, exists := rl.buckets[tool]
	rl.mu.RUnlock()

	if exists {
		return bucket
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if bucket, exists = rl.buckets[tool]; exists {
		return bucket
	}

	cfg, hasCfg := rl.configs[tool]
	if !hasCfg {
		return nil
	}

	bucket = newTokenBucket(cfg, rl.now)
	rl.buckets[tool] = bucket
	return bucket
}

// ToolStats holds rate limit statistics for one tool.
type ToolStats struct {
	Tool             string
	Available        float64
	RequestsPerSec   float64
	BurstSize        int
	TotalRequests    int64
	DeniedRequests   int64
	DeniedPercentage float64
}

// Stats returns statistics for all configured tools, sorted by name.
func (rl *RateLimiter) Stats() []ToolStats {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	stats := make([]ToolStats, 0, len(rl.configs))
	for tool, cfg := range rl.configs {
		ts := ToolStats{
			Tool:           tool,
			RequestsPerSec: cfg.RequestsPerSecond,
			BurstSize:      cfg.BurstSize,
			Available:      float64(cfg.BurstSize),
		}
		if bucket, exists := rl.buckets[tool]; exists {
			ts.Available, ts.TotalRequests, ts.DeniedRequests = bucket.stats()
			ts.DeniedPercentage = deniedPercentage(ts.TotalRequests, ts.DeniedRequests)
		}
		stats = append(stats, ts)
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Tool < stats[j].Tool })
	return stats
}

// GlobalStats returns statistics for the global limit, or nil when unset.
func (rl *RateLimiter) GlobalStats() *ToolStats {
	if rl.globalBucket == nil || rl.globalConfig == nil {
		return nil
	}

	available, total, denied := rl.globalBucket.stats()
	return &ToolStats{
		Tool:             "global",
		Available:        available,
		RequestsPerSec:   rl.globalConfig.RequestsPerSecond,
		BurstSize:        rl.globalConfig.BurstSize,
		TotalRequests:    total,
		DeniedRequests:   denied,
		DeniedPercentage: deniedPercentage(total, denied),
	}
}

func deniedPercentage(total, denied int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(denied) / float64(total) * 100
}

// SetEnabled enables or disables rate limiting at runtime.
func (rl *RateLimiter) SetEnabled(enabled bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.enabled = enabled
}

// IsEnabled returns whether rate limiting is currently enabled.
func (rl *RateLimiter) IsEnabled() bool {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return rl.enabled
}

// Middleware rejects tool calls over their limit with an error result.
func (rl *RateLimiter) Middleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if !rl.Allow(request.Params.Name) {
				return mcp.NewToolResultError(fmt.Sprintf("rate limit exceeded for tool %s", request.Params.Name)), nil
			}
			return next(ctx, request)
		}
	}
}
