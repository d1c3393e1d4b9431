package mcpserver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTokenBucketAllow(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 5}, clock.Now)

	for i := 0; i < 5; i++ {
		if !bucket.allow() {
			t.Errorf("Request %d should be allowed (within burst)", i)
		}
	}

	if bucket.allow() {
		t.Error("Request 6 should be denied (burst exhausted)")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 1}, clock.Now)

	if !bucket.allow() {
		t.Error("First request should be allowed")
	}
	if bucket.allow() {
		t.Error("Second request should be denied")
	}

	clock.Advance(15 * time.Millisecond)

	if !bucket.allow() {
		t.Error("Request after refill should be allowed")
	}

	clock.Advance(time.Hour)
	available, _, _ := bucket.stats()
	if available != 1 {
		t.Errorf("Available = %.2f, want capped at 1", available)
	}
}

func TestTokenBucketStats(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 5}, clock.Now)

	for i := 0; i < 6; i++ {
		bucket.allow()
	}

	available, total, denied := bucket.stats()
	if total != 6 {
		t.Errorf("TotalRequests = %d, want 6", total)
	}
	if denied != 1 {
		t.Errorf("DeniedRequests = %d, want 1", denied)
	}
	if available >= 1 {
		t.Errorf("Available = %.2f, expected < 1", available)
	}
}

func TestRateLimiterDefaultLimits(t *testing.T) {
	rl := NewRateLimiter()

	if !rl.IsEnabled() {
		t.Error("Rate limiter should be enabled by default")
	}
	for tool := range DefaultRateLimits {
		if !rl.Allow(tool) {
			t.Errorf("First request to %s should be allowed", tool)
		}
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(WithEnabled(false))

	for i := 0; i < 1000; i++ {
		if !rl.Allow("search_docs") {
			t.Errorf("Request %d should be allowed when rate limiting is disabled", i)
		}
	}
}

func TestRateLimiterToolLimits(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(WithClock(clock.Now), WithToolLimits(map[string]RateLimitConfig{
		"read_hub_config": {RequestsPerSecond: 1, BurstSize: 2},
	}))

	if !rl.Allow("read_hub_config") || !rl.Allow("read_hub_config") {
		t.Fatal("Burst requests should be allowed")
	}
	if rl.Allow("read_hub_config") {
		t.Error("Request 3 should be denied")
	}

	clock.Advance(time.Second)
	if !rl.Allow("read_hub_config") {
		t.Error("Request after one second should be allowed")
	}
}

func TestRateLimiterGlobalLimit(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(WithClock(clock.Now), WithGlobalLimit(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 3}))

	for _, tool := range []string{"list_country_codes", "list_docs_topics", "check_self_status"} {
		if !rl.Allow(tool) {
			t.Errorf("Request to %s should be allowed", tool)
		}
	}
	if rl.Allow("explain_sdk_setup") {
		t.Error("Request 4 should be denied (global limit)")
	}

	stats := rl.GlobalStats()
	if stats == nil {
		t.Fatal("Expected global stats")
	}
	if stats.TotalRequests != 4 || stats.DeniedRequests != 1 {
		t.Errorf("Global stats = %d total / %d denied, want 4 / 1", stats.TotalRequests, stats.DeniedRequests)
	}
	if stats.DeniedPercentage != 25 {
		t.Errorf("DeniedPercentage = %.1f, want 25", stats.DeniedPercentage)
	}
}

func TestRateLimiterUnknownTool(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 100; i++ {
		if !rl.Allow("explain_self_integration") {
			t.Errorf("Request %d to an unlimited tool should be allowed", i)
		}
	}
	if rl.GlobalStats() != nil {
		t.Error("GlobalStats should be nil without a global limit")
	}
}

func TestRateLimiterStats(t *testing.T) {
	rl := NewRateLimiter()

	rl.Allow("search_docs")
	rl.Allow("search_docs")
	rl.Allow("search_docs")

	stats := rl.Stats()
	if len(stats) != len(DefaultRateLimits) {
		t.Fatalf("len(Stats()) = %d, want %d", len(stats), len(DefaultRateLimits))
	}
	for i := 1; i < len(stats); i++ {
		if stats[i-1].Tool > stats[i].Tool {
			t.Fatalf("Stats not sorted: %s before %s", stats[i-1].Tool, stats[i].Tool)
		}
	}

	var search *ToolStats
	for i := range stats {
		if stats[i].Tool == "search_docs" {
			search = &stats[i]
		}
	}
	if search == nil {
		t.Fatal("Expected to find search_docs stats")
	}
	if search.TotalRequests != 3 || search.DeniedRequests != 1 {
		t.Errorf("search_docs stats = %d total / %d denied, want 3 / 1", search.TotalRequests, search.DeniedRequests)
	}
}

func TestRateLimiterSetEnabled(t *testing.T) {
	rl := NewRateLimiter()

	rl.SetEnabled(false)
	if rl.IsEnabled() {
		t.Error("Should be disabled after SetEnabled(false)")
	}

	rl.SetEnabled(true)
	if !rl.IsEnabled() {
		t.Error("Should be enabled after SetEnabled(true)")
	}
}

func TestRateLimiterConcurrent(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(WithClock(clock.Now), WithToolLimits(map[string]RateLimitConfig{
		"concurrent": {RequestsPerSecond: 1000, BurstSize: 100},
	}))

	var wg sync.WaitGroup
	allowed := make(chan bool, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- rl.Allow("concurrent")
		}()
	}
	wg.Wait()
	close(allowed)

	allowedCount := 0
	for result := range allowed {
		if result {
			allowedCount++
		}
	}
	if allowedCount != 100 {
		t.Errorf("Expected 100 allowed with a frozen clock, got %d", allowedCount)
	}
}

func TestMiddleware(t *testing.T) {
	rl := NewRateLimiter(WithClock(newFakeClock().Now), WithToolLimits(map[string]RateLimitConfig{
		"read_hub_config": {RequestsPerSecond: 1, BurstSize: 1},
	}))

	calls := 0
	handler := rl.Middleware()(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		calls++
		return mcp.NewToolResultText("ok"), nil
	})

	var request mcp.CallToolRequest
	request.Params.Name = "read_hub_config"

	result, err := handler(context.Background(), request)
	if err != nil || result.IsError {
		t.Fatalf("First call should succeed: %v", err)
	}

	result, err = handler(context.Background(), request)
	if err != nil {
		t.Fatalf("Rate limited call should not return a protocol error: %v", err)
	}
	if !result.IsError {
		t.Error("Rate limited call should return an error result")
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}

func TestDefaultRateLimitsAreSane(t *testing.T) {
	for tool, cfg := range DefaultRateLimits {
		if cfg.RequestsPerSecond <= 0 {
			t.Errorf("%s: RequestsPerSecond should be positive, got %f", tool, cfg.RequestsPerSecond)
		}
		if cfg.BurstSize <= 0 {
			t.Errorf("%s: BurstSize should be positive, got %d", tool, cfg.BurstSize)
		}
	}
}
