package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/LuisMartinez211/Backend/internal/ratelimit"
)

func TestMemoryLimiterWindow(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(3, 100*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, _, err := limiter.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("allow returned error: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	allowed, remaining, resetAfter, err := limiter.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("allow returned error: %v", err)
	}
	if allowed {
		t.Fatalf("fourth request should be denied")
	}
	if remaining != 0 {
		t.Fatalf("expected zero remaining, got %d", remaining)
	}
	if resetAfter <= 0 {
		t.Fatalf("expected positive reset duration, got %v", resetAfter)
	}

	// A different client has its own window.
	if allowed, _, _, _ := limiter.Allow(ctx, "10.0.0.2"); !allowed {
		t.Fatalf("other client should be allowed")
	}

	time.Sleep(120 * time.Millisecond)

	if allowed, _, _, _ := limiter.Allow(ctx, "10.0.0.1"); !allowed {
		t.Fatalf("request after window reset should be allowed")
	}
}
