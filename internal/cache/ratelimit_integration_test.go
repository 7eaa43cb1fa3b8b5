package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/tickline/tickline/internal/cache"
	"github.com/tickline/tickline/internal/testutil"
)

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()

	redisURL := testutil.RequireEnv(t, "TEST_REDIS_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := cache.New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect test cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestCheckAuthRateLimit_AllowsWithinBurst(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	ip := "203.0.113.1-" + t.Name()

	for i := 0; i < 5; i++ {
		res, err := c.CheckAuthRateLimit(ctx, ip, 1, 5)
		if err != nil {
			t.Fatalf("CheckAuthRateLimit failed: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d within burst should be allowed", i+1)
		}
	}
}

func TestCheckAuthRateLimit_BlocksBeyondBurst(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	ip := "203.0.113.2-" + t.Name()

	var blocked bool
	for i := 0; i < 10; i++ {
		res, err := c.CheckAuthRateLimit(ctx, ip, 1, 3)
		if err != nil {
			t.Fatalf("CheckAuthRateLimit failed: %v", err)
		}
		if !res.Allowed {
			blocked = true
			if res.RetryAfter <= 0 {
				t.Error("blocked result should carry a retry-after hint")
			}
			break
		}
	}

	if !blocked {
		t.Error("expected requests beyond burst to be blocked")
	}
}

func TestCheckAuthRateLimit_IndependentPerIP(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	exhausted := "203.0.113.3-" + t.Name()
	for i := 0; i < 5; i++ {
		_, _ = c.CheckAuthRateLimit(ctx, exhausted, 1, 2)
	}

	res, err := c.CheckAuthRateLimit(ctx, "203.0.113.4-"+t.Name(), 1, 2)
	if err != nil {
		t.Fatalf("CheckAuthRateLimit failed: %v", err)
	}
	if !res.Allowed {
		t.Error("fresh IP should not be limited by another IP's bucket")
	}
}
