package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_Wait(t *testing.T) {
	l := NewLimiter(100, 5)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	l := NewLimiter(0, 0)
	start := time.Now()
	for i := 0; i < 1000; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("unlimited limiter should not block, took %v", elapsed)
	}
}

func TestLimiter_Throttles(t *testing.T) {
	l := NewLimiter(50, 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// 4 waits at 50/s after the initial burst token
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("expected throttling, 5 waits took only %v", elapsed)
	}
}

func TestLimiter_Allow(t *testing.T) {
	l := NewLimiter(1, 1)
	if !l.Allow() {
		t.Error("first request should be allowed")
	}
	if l.Allow() {
		t.Error("second immediate request should be throttled")
	}
}

func TestLimiter_ContextCancel(t *testing.T) {
	l := NewLimiter(0.01, 1)
	l.Allow() // drain the burst

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Wait(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestLimiter_NilSafe(t *testing.T) {
	var l *Limiter
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("nil limiter should never block: %v", err)
	}
	if !l.Allow() {
		t.Error("nil limiter should allow everything")
	}
}
