package middlewares

import (
	"net"
	"net/http"
	"sync"
	"time"
)

type limiterEntry struct {
	tokens     int
	lastAccess time.Time
}

// RateLimiter is a coarse per-client-IP token bucket. One instance per
// router; no package-level state.
type RateLimiter struct {
	mu                sync.Mutex
	store             map[string]*limiterEntry
	requestsPerMinute int
}

func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 120
	}
	return &RateLimiter{
		store:             make(map[string]*limiterEntry),
		requestsPerMinute: requestsPerMinute,
	}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		if !l.allow(host) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(key string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.store[key]
	if !exists {
		l.store[key] = &limiterEntry{tokens: l.requestsPerMinute - 1, lastAccess: now}
		return true
	}

	elapsed := now.Sub(entry.lastAccess).Minutes()
	entry.tokens += int(elapsed * float64(l.requestsPerMinute))
	if entry.tokens > l.requestsPerMinute {
		entry.tokens = l.requestsPerMinute
	}
	entry.lastAccess = now

	if entry.tokens <= 0 {
		return false
	}
	entry.tokens--
	return true
}
