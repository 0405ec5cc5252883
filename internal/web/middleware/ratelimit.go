package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/JonMunkholm/bizdir/internal/logging"
)

// idleTTL is how long an unused per-IP limiter is kept.
const idleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps a token bucket per client IP.
type RateLimiter struct {
	mu        sync.Mutex
	ips       map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter allows perMinute requests per IP with the given burst.
// A burst below 1 defaults to perMinute.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if burst < 1 {
		burst = perMinute
	}
	return &RateLimiter{
		ips:   make(map[string]*limiterEntry),
		limit: rate.Every(time.Minute / time.Duration(max(perMinute, 1))),
		burst: burst,
		now:   time.Now,
	}
}

// Allow reports whether a request from ip may proceed, consuming a token.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > idleTTL {
		for k, e := range rl.ips {
			if now.Sub(e.lastSeen) > idleTTL {
				delete(rl.ips, k)
			}
		}
		rl.lastSweep = now
	}

	e, ok := rl.ips[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.ips[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Len returns the number of tracked IPs.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.ips)
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
// It keys on r.RemoteAddr, so it must run after TrustedRealIP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(r.RemoteAddr) {
			retry := time.Duration(float64(time.Second) / float64(rl.limit))
			w.Header().Set("Retry-After", strconv.Itoa(max(int(retry.Seconds()), 1)))
			logging.FromContext(r.Context()).Warn("rate limit exceeded", "ip", r.RemoteAddr, "path", r.URL.Path)
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded", "RATE001")
			return
		}
		next.ServeHTTP(w, r)
	})
}
