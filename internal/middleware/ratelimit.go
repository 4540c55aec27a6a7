package middleware

import (
	"net/http"
	"sync"
	"time"

	"courtside/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimiter caps requests per client IP over a sliding window. State is
// in-process only; a multi-instance deployment needs a shared limiter in
// front instead.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	logger zerolog.Logger
}

func NewRateLimiter(cfg config.RateLimitConfig, logger zerolog.Logger) *RateLimiter {
	l := &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  cfg.Requests,
		window: cfg.Window,
		logger: logger,
	}
	go l.evictLoop()
	return l
}

// allow prunes the key's window in place and admits the request if the cap
// is not reached.
func (l *RateLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := now.Add(-l.window)
	fresh := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			fresh = append(fresh, t)
		}
	}
	if len(fresh) >= l.limit {
		l.hits[key] = fresh
		return false
	}
	l.hits[key] = append(fresh, now)
	return true
}

// evictLoop drops idle keys so the map does not hold an entry for every IP
// ever seen.
func (l *RateLimiter) evictLoop() {
	for range time.Tick(time.Minute) {
		cutoff := time.Now().Add(-l.window)
		l.mu.Lock()
		for key, times := range l.hits {
			if len(times) == 0 || !times[len(times)-1].After(cutoff) {
				delete(l.hits, key)
			}
		}
		l.mu.Unlock()
	}
}

// Middleware rejects over-limit clients with 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			l.logger.Warn().Str("ip", c.ClientIP()).Str("path", c.FullPath()).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests", "code": "RateLimited"})
			return
		}
		c.Next()
	}
}
