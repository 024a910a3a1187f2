package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	groupFor := func(c *gin.Context) string {
		if c.Request.Method == http.MethodGet {
			return "READ"
		}
		return "DEFAULT"
	}

	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor:     groupFor,
		Limiter:      limiter,
		Rules: map[string]RateLimitRule{
			"DEFAULT": {Rate: 1, Burst: 2},
			"READ":    {Rate: 5, Burst: 10},
		},
	}))
	r.GET("/api/beans", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.POST("/api/recommendations", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/beans", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("read request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/recommendations", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("post request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if got := resp.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("expected Retry-After 1, got %q", got)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != false || body["error"] != RateLimitedMessage {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if ok, _ := limiter.Allow("ip|DEFAULT", rule); !ok {
		t.Fatalf("expected first request allowed")
	}
	ok, wait := limiter.Allow("ip|DEFAULT", rule)
	if ok {
		t.Fatalf("expected second request blocked")
	}
	if wait <= 0 || wait > time.Second {
		t.Fatalf("unexpected wait %v", wait)
	}

	now = now.Add(time.Second)
	if ok, _ := limiter.Allow("ip|DEFAULT", rule); !ok {
		t.Fatalf("expected request allowed after refill")
	}
}

func TestRateLimiterDisabledRule(t *testing.T) {
	limiter := NewRateLimiter(nil)
	for i := 0; i < 50; i++ {
		if ok, _ := limiter.Allow("ip|DEFAULT", RateLimitRule{}); !ok {
			t.Fatalf("expected zero rule to allow everything")
		}
	}
}

func TestRateLimiterSweepsRefilledBuckets(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 2}

	for i := 0; i < 500; i++ {
		if ok, _ := limiter.Allow(fmt.Sprintf("10.0.%d.%d|RECOMMEND", i/256, i%256), rule); !ok {
			t.Fatalf("first request from client %d should pass", i)
		}
	}
	if got := limiter.size(); got != 500 {
		t.Fatalf("expected 500 buckets, got %d", got)
	}

	// Everyone above has refilled by now; only the next two clients drain.
	now = now.Add(bucketSweepInterval)
	for i := 0; i < 2; i++ {
		limiter.Allow("10.9.9.9|RECOMMEND", rule)
	}
	now = now.Add(time.Millisecond)
	limiter.Allow("10.9.9.8|RECOMMEND", RateLimitRule{Rate: 0.0001, Burst: 1})

	if got := limiter.size(); got != 2 {
		t.Fatalf("expected only the 2 drained buckets to remain, got %d", got)
	}
}

func TestRateLimiterSweepKeepsDrainedBucketState(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 0.001, Burst: 1}

	if ok, _ := limiter.Allow("ip|RECOMMEND", rule); !ok {
		t.Fatalf("expected first request allowed")
	}
	now = now.Add(2 * bucketSweepInterval)
	if ok, _ := limiter.Allow("ip|RECOMMEND", rule); ok {
		t.Fatalf("sweep must not reset a bucket that is still empty")
	}
}
