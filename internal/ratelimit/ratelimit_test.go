package ratelimit

import (
	"testing"
	"time"
)

func TestTokenBucketBasicAllow(t *testing.T) {
	tb := newTokenBucket(10, 3)
	for i := 0; i < 3; i++ {
		if !tb.allow() {
			t.Fatalf("expected allow on request %d", i)
		}
	}
	if tb.allow() {
		t.Fatal("expected deny after burst exhausted")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	tb := newTokenBucket(10, 3)
	for i := 0; i < 3; i++ {
		tb.allow()
	}
	time.Sleep(150 * time.Millisecond)
	if !tb.allow() {
		t.Fatal("expected allow after refill")
	}
}

func TestConnectionLimiterAllowsNormalUsage(t *testing.T) {
	rl := NewConnectionLimiter()
	for i := 0; i < 5; i++ {
		allowed, disconnect := rl.Allow("list-rooms")
		if !allowed {
			t.Fatalf("expected allow on request %d", i)
		}
		if disconnect {
			t.Fatal("unexpected disconnect")
		}
	}
}

func TestConnectionLimiterPerTypeLimit(t *testing.T) {
	rl := NewConnectionLimiter()
	for i := 0; i < 4; i++ {
		allowed, _ := rl.Allow("submit-word")
		if !allowed {
			t.Fatalf("expected allow on submit-word %d", i)
		}
	}
	allowed, _ := rl.Allow("submit-word")
	if allowed {
		t.Fatal("expected deny on submit-word after burst exhausted")
	}
}

func TestConnectionLimiterUnknownTypeGetsStrictDefault(t *testing.T) {
	rl := NewConnectionLimiter()
	allowed, _ := rl.Allow("totally-unrecognized")
	if !allowed {
		t.Fatal("expected first request under the unknown-type default to be allowed")
	}
	allowed, _ = rl.Allow("totally-unrecognized")
	if !allowed {
		t.Fatal("expected second request (burst=2) to be allowed")
	}
	allowed, _ = rl.Allow("totally-unrecognized")
	if allowed {
		t.Fatal("expected third request to exceed the unknown-type burst of 2")
	}
}

func TestConnectionLimiterEscalatesToDisconnect(t *testing.T) {
	rl := NewConnectionLimiter()
	var disconnect bool
	for i := 0; i < violationsBeforeDisconnect+5; i++ {
		_, disconnect = rl.Allow("submit-word")
	}
	if !disconnect {
		t.Fatal("expected sustained violations to eventually signal disconnect")
	}
}

func TestConnectionLimiterGlobalCapAppliesAcrossTypes(t *testing.T) {
	// Spread requests across several distinct message types whose
	// combined per-type bursts (5+5+16+3+3=32) exceed the global burst of
	// 20, so the global bucket, not any single type's bucket, bounds the
	// total allowed.
	rl := NewConnectionLimiter()
	types := []string{"list-rooms", "ping", "player-typing", "join-room", "leave-room"}
	allowedCount := 0
	for i := 0; i < len(types)*7; i++ {
		allowed, _ := rl.Allow(types[i%len(types)])
		if allowed {
			allowedCount++
		}
	}
	if allowedCount > int(globalLimit.Burst) {
		t.Fatalf("expected the global bucket to cap total allowed requests at burst=%d, got %d", int(globalLimit.Burst), allowedCount)
	}
	if allowedCount == 0 {
		t.Fatal("expected at least the initial burst of requests to be allowed")
	}
}
