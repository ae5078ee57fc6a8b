package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientIdle is how long a client may stay silent before its bucket is dropped
const clientIdle = 10 * time.Minute

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client host. Buckets idle for
// longer than clientIdle are swept on lookup at most once per clientIdle.
type IPRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     rate.Limit
	burst     int
	nextSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter creates a limiter allowing limit requests per second
// per client with the given burst.
func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether host may make a request now.
func (l *IPRateLimiter) Allow(host string) bool {
	now := l.now()
	l.mu.Lock()
	if !now.Before(l.nextSweep) {
		for h, c := range l.clients {
			if now.Sub(c.lastSeen) > clientIdle {
				delete(l.clients, h)
			}
		}
		l.nextSweep = now.Add(clientIdle)
	}
	c, ok := l.clients[host]
	if !ok {
		c = &client{bucket: rate.NewLimiter(l.limit, l.burst)}
		l.clients[host] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	return c.bucket.AllowN(now, 1)
}

// Clients returns the number of tracked client hosts.
func (l *IPRateLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// LimitMiddleware rejects requests over the client's rate with 429
func (l *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !l.Allow(host) {
			writeError(w, http.StatusTooManyRequests, "too many requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}
