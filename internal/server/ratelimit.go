package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client bucket survives without requests.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientRateLimiter hands out one token bucket per client address. Buckets
// idle for longer than limiterIdleTTL are evicted.
type clientRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	r         rate.Limit
	b         int
	now       func() time.Time
	lastSweep time.Time
}

func newClientRateLimiter(r rate.Limit, b int) *clientRateLimiter {
	return &clientRateLimiter{
		limiters:  make(map[string]*clientLimiter),
		r:         r,
		b:         b,
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

func (l *clientRateLimiter) limiter(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterIdleTTL {
		l.sweep(now)
	}

	entry, exists := l.limiters[client]
	if !exists {
		entry = &clientLimiter{limiter: rate.NewLimiter(l.r, l.b)}
		l.limiters[client] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweep drops idle buckets. Callers hold l.mu.
func (l *clientRateLimiter) sweep(now time.Time) {
	for client, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= limiterIdleTTL {
			delete(l.limiters, client)
		}
	}
	l.lastSweep = now
}

// Middleware rejects requests with 429 once a client exhausts its bucket.
func (l *clientRateLimiter) Middleware(h *handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.limiter(clientAddress(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				h.respondErrorWithOp(w, r, http.StatusTooManyRequests, "too many requests, try again later", "server.rateLimit")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientAddress returns the host part of the remote address.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
