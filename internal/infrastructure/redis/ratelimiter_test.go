package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestLimiter(t *testing.T) (*FixedWindowLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewFixedWindowLimiter(New(Config{Addr: mr.Addr()})), mr
}

func TestAllow_UnderLimit(t *testing.T) {
	lim, _ := newTestLimiter(t)

	for i := 0; i < 3; i++ {
		d, err := lim.Allow(context.Background(), "rl:1.2.3.4:/login", 3, time.Minute)
		if err != nil {
			t.Fatalf("allow err: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be allowed: %+v", i+1, d)
		}
	}
}

func TestAllow_OverLimit(t *testing.T) {
	lim, _ := newTestLimiter(t)

	for i := 0; i < 3; i++ {
		if _, err := lim.Allow(context.Background(), "rl:k", 3, time.Minute); err != nil {
			t.Fatalf("allow err: %v", err)
		}
	}
	d, err := lim.Allow(context.Background(), "rl:k", 3, time.Minute)
	if err != nil {
		t.Fatalf("allow err: %v", err)
	}
	if d.Allowed {
		t.Fatalf("4th request should be blocked: %+v", d)
	}
	if d.RetryAfter <= 0 {
		t.Fatalf("blocked decision should carry retry-after: %+v", d)
	}
}

func TestAllow_WindowResets(t *testing.T) {
	lim, mr := newTestLimiter(t)

	for i := 0; i < 3; i++ {
		if _, err := lim.Allow(context.Background(), "rl:k", 3, time.Minute); err != nil {
			t.Fatalf("allow err: %v", err)
		}
	}
	mr.FastForward(time.Minute + time.Second)

	d, err := lim.Allow(context.Background(), "rl:k", 3, time.Minute)
	if err != nil {
		t.Fatalf("allow err: %v", err)
	}
	if !d.Allowed || d.Count != 1 {
		t.Fatalf("expected fresh window, got %+v", d)
	}
}

func TestAllow_SeparateKeys(t *testing.T) {
	lim, _ := newTestLimiter(t)

	for i := 0; i < 3; i++ {
		if _, err := lim.Allow(context.Background(), "rl:a", 3, time.Minute); err != nil {
			t.Fatalf("allow err: %v", err)
		}
	}
	d, err := lim.Allow(context.Background(), "rl:b", 3, time.Minute)
	if err != nil {
		t.Fatalf("allow err: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("other key must not be affected: %+v", d)
	}
}

func TestAllow_NilClientFailsOpen(t *testing.T) {
	lim := NewFixedWindowLimiter(nil)
	d, err := lim.Allow(context.Background(), "rl:k", 3, time.Minute)
	if err != nil {
		t.Fatalf("allow err: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("nil client should fail open: %+v", d)
	}
}
