// Package ratelimit provides a per-client request limiter using the token
// bucket algorithm. Each client key gets an independent bucket; idle buckets
// are evicted periodically so the map does not grow without bound.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const evictInterval = 5 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter manages per-client rate limiting for inbound requests.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	limit   rate.Limit
	burst   int

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a client limiter allowing rps requests per second with the
// given burst size per client key.
func New(rps float64, burst int) *ClientLimiter {
	cl := &ClientLimiter{
		clients: make(map[string]*clientBucket),
		limit:   rate.Limit(rps),
		burst:   burst,
		done:    make(chan struct{}),
	}

	go cl.evictLoop()

	return cl
}

// Allow reports whether a request for the given client key should proceed.
// Returns immediately without blocking.
func (cl *ClientLimiter) Allow(key string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	bucket, ok := cl.clients[key]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.clients[key] = bucket
	}
	bucket.lastSeen = time.Now()

	return bucket.limiter.Allow()
}

// Stop shuts down the eviction goroutine.
func (cl *ClientLimiter) Stop() {
	cl.stopOnce.Do(func() {
		close(cl.done)
	})
}

func (cl *ClientLimiter) evictLoop() {
	ticker := time.NewTicker(evictInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cl.done:
			return
		case <-ticker.C:
			cl.evictIdle(evictInterval)
		}
	}
}

// evictIdle drops buckets not seen within maxIdle. A dropped client simply
// gets a fresh full bucket on its next request.
func (cl *ClientLimiter) evictIdle(maxIdle time.Duration) {
	cutoff := time.Now().Add(-maxIdle)

	cl.mu.Lock()
	defer cl.mu.Unlock()

	for key, bucket := range cl.clients {
		if bucket.lastSeen.Before(cutoff) {
			delete(cl.clients, key)
		}
	}
}
