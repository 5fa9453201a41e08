package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides whether the caller identified by key may proceed
type Limiter interface {
	Allow(key string) bool
}

// TokenBucketLimiter keeps one token bucket per key
type TokenBucketLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	idleAfter time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewTokenBucketLimiter allows bursts of maxTokens and adds one token every
// refillRate.
func NewTokenBucketLimiter(maxTokens int, refillRate time.Duration) *TokenBucketLimiter {
	return newLimiter(rate.Every(refillRate), maxTokens)
}

// NewPerMinuteLimiter allows requestsPerMinute requests per key, refilled evenly
func NewPerMinuteLimiter(requestsPerMinute int) *TokenBucketLimiter {
	return newLimiter(rate.Limit(float64(requestsPerMinute)/time.Minute.Seconds()), requestsPerMinute)
}

func newLimiter(limit rate.Limit, burst int) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		buckets:   make(map[string]*bucket),
		limit:     limit,
		burst:     burst,
		idleAfter: time.Hour,
		now:       time.Now,
	}
}

// Allow takes a token from the key's bucket
func (l *TokenBucketLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// sweep drops buckets that have been idle long enough to be full again
func (l *TokenBucketLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleAfter {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.idleAfter {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// RateLimit rejects requests over the client's budget with 429. The client is
// keyed by remote IP, so it belongs after chi's RealIP middleware.
func RateLimit(limiter Limiter, errs StatusWriter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", "60")
				errs.HandleStatus(w, r, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
