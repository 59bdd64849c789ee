package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != defaultBurst {
		t.Errorf("expected default burst %d for negative input, got %d", defaultBurst, l2.defaultBurst)
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewLimiter(0.001, 1)

	if !limiter.Allow("gemini") {
		t.Fatal("expected first request for gemini to be allowed")
	}
	if limiter.Allow("gemini") {
		t.Error("expected second request for gemini to be throttled")
	}
	if !limiter.Allow("openai") {
		t.Error("expected openai to have its own bucket")
	}
}

func TestLimiter_WaitURL(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.WaitURL(ctx, "http://example.com/foo"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if limiter.Allow("example.com") {
		t.Error("expected WaitURL to consume the example.com token")
	}
	if err := limiter.WaitURL(ctx, "/relative/path"); err == nil {
		t.Error("expected error for URL without host")
	}
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	limiter.Allow("slow")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "slow"); err == nil {
		t.Error("expected context error while waiting for a token")
	}
}

func TestLimiter_DisabledRate(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("any") {
			t.Fatalf("expected unlimited limiter to allow request %d", i)
		}
	}
}

func TestLimiter_SetRate(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	limiter.SetRate("fast", 1000, 10)

	for i := 0; i < 10; i++ {
		if !limiter.Allow("fast") {
			t.Fatalf("expected burst of 10 for fast key, failed at %d", i)
		}
	}
}

func TestPerMinute(t *testing.T) {
	limiter := PerMinute(60)
	if limiter.defaultBurst != 1 {
		t.Errorf("expected burst 1, got %d", limiter.defaultBurst)
	}
	if float64(limiter.defaultRate) != 1 {
		t.Errorf("expected 1 rps, got %v", limiter.defaultRate)
	}
}
