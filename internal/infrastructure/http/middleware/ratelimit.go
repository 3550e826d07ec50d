package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/response"
	"github.com/alchemorsel/recipebox/pkg/errors"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than the cleanup interval are dropped by Cleanup.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing RequestsPerMin per IP with
// BurstSize burst
func NewRateLimiter(cfg config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	idle := cfg.CleanupInterval
	if idle <= 0 {
		idle = 5 * time.Minute
	}
	burst := cfg.BurstSize
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(cfg.RequestsPerMin) / 60),
		burst:    burst,
		idle:     idle,
		logger:   logger.Named("rate-limiter"),
		now:      time.Now,
	}
}

// Allow reports whether a request from ip may proceed
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Cleanup drops idle visitors and returns how many were removed
func (l *RateLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idle)
	removed := 0
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every idle interval until ctx is done
func (l *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.idle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Cleanup(); n > 0 {
				l.logger.Debug("Dropped idle rate limit buckets", zap.Int("count", n))
			}
		}
	}
}

// Handler rejects requests over the limit with 429
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
			response.Error(w, r, l.logger, errors.NewAppError(errors.CodeTooManyRequests, "Rate limit exceeded", ""))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) retryAfterSeconds() int {
	if l.limit <= 0 {
		return 60
	}
	secs := int(1 / float64(l.limit))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// clientIP uses RemoteAddr, which chi's RealIP middleware has already
// rewritten from forwarding headers
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
