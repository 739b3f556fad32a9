package app

import (
	"net/http"
	"strings"
	"sync"

	"gradehub/internal/app/apiresp"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const reviewerKeyHeader = "X-Reviewer-Key"

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	buckets map[string]*rate.Limiter
}

func NewIPRateLimiter(perSecond float64, burst int) *IPRateLimiter {
	if perSecond <= 0 {
		perSecond = 10
	}
	if burst <= 0 {
		burst = 30
	}
	return &IPRateLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		buckets: make(map[string]*rate.Limiter),
	}
}

func (l *IPRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = b
	}
	l.mu.Unlock()
	return b.Allow()
}

func RateLimitMiddleware(l *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if i := strings.LastIndex(ip, ":"); i > 0 {
				ip = ip[:i]
			}
			if !l.Allow(ip) {
				apiresp.WriteError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireReviewer guards reviewer endpoints with a shared API key, compared
// against its bcrypt hash from config. Full identity management is an
// external collaborator; this only keeps candidates out of review routes.
func RequireReviewer(keyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.TrimSpace(keyHash) == "" {
				apiresp.WriteError(w, r, http.StatusForbidden, "reviewer access is not configured")
				return
			}
			key := strings.TrimSpace(r.Header.Get(reviewerKeyHeader))
			if key == "" {
				apiresp.WriteError(w, r, http.StatusUnauthorized, "missing reviewer key")
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)); err != nil {
				apiresp.WriteError(w, r, http.StatusUnauthorized, "invalid reviewer key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
