package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinBurst(t *testing.T) {
	cl := New(1, 3)
	defer cl.Stop()

	for i := 0; i < 3; i++ {
		if !cl.Allow("client-a") {
			t.Fatalf("request %d within burst should be allowed", i+1)
		}
	}

	if cl.Allow("client-a") {
		t.Error("request beyond burst should be denied")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	cl := New(1, 1)
	defer cl.Stop()

	if !cl.Allow("client-a") {
		t.Fatal("first request for client-a should be allowed")
	}
	if cl.Allow("client-a") {
		t.Error("second request for client-a should be denied")
	}

	// A different key has its own bucket.
	if !cl.Allow("client-b") {
		t.Error("first request for client-b should be allowed")
	}
}

func TestRefill(t *testing.T) {
	cl := New(100, 1)
	defer cl.Stop()

	if !cl.Allow("client-a") {
		t.Fatal("first request should be allowed")
	}
	if cl.Allow("client-a") {
		t.Fatal("bucket should be empty")
	}

	// At 100 rps a token returns within 10ms.
	time.Sleep(20 * time.Millisecond)

	if !cl.Allow("client-a") {
		t.Error("request after refill should be allowed")
	}
}

func TestEvictIdle(t *testing.T) {
	cl := New(1, 1)
	defer cl.Stop()

	cl.Allow("client-a")

	cl.evictIdle(0)

	cl.mu.Lock()
	_, exists := cl.clients["client-a"]
	cl.mu.Unlock()

	if exists {
		t.Error("idle client bucket should have been evicted")
	}

	// Evicted client starts over with a full bucket.
	if !cl.Allow("client-a") {
		t.Error("request after eviction should be allowed")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	cl := New(1, 1)
	cl.Stop()
	cl.Stop()
}
