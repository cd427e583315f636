package devserver

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/DeBrosOfficial/indexer-client/pkg/auth"
	"github.com/DeBrosOfficial/indexer-client/pkg/httputil"
)

// rateLimiter is a token bucket per caller. Callers are keyed by x-signer,
// or by remote IP for unsigned requests.
type rateLimiter struct {
	mu      sync.Mutex
	callers map[string]*bucket
	rate    float64 // tokens per second
	burst   int
	now     func() time.Time
}

type bucket struct {
	tokens    float64
	lastCheck time.Time
}

// newRateLimiter allows ratePerMinute sustained requests. A burst of zero
// defaults to ratePerMinute.
func newRateLimiter(ratePerMinute, burst int) *rateLimiter {
	if burst <= 0 {
		burst = ratePerMinute
	}
	return &rateLimiter{
		callers: make(map[string]*bucket),
		rate:    float64(ratePerMinute) / 60.0,
		burst:   burst,
		now:     time.Now,
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.callers[key]
	if !ok {
		rl.callers[key] = &bucket{tokens: float64(rl.burst) - 1, lastCheck: now}
		return true
	}

	b.tokens += now.Sub(b.lastCheck).Seconds() * rl.rate
	if b.tokens > float64(rl.burst) {
		b.tokens = float64(rl.burst)
	}
	b.lastCheck = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// retryAfter is the number of whole seconds until one token is available.
func (rl *rateLimiter) retryAfter() int {
	secs := int(1/rl.rate) + 1
	if secs < 1 {
		secs = 1
	}
	return secs
}

func callerKey(r *http.Request) string {
	if signer := r.Header.Get(auth.HeaderSigner); signer != "" {
		return httputil.NormalizeWalletAddress(signer)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// rateLimit answers 429 when a caller exceeds the configured rate. /health is exempt.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || s.limiter.allow(callerKey(r)) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Retry-After", strconv.Itoa(s.limiter.retryAfter()))
		httputil.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
	})
}
