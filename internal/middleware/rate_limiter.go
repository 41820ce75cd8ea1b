package middleware

import (
	"net/http"
	"sync"
	"time"

	"stockdesk/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

// windowLimiter counts requests per client IP in fixed windows. Expired
// entries are purged on access, at most once per purgeInterval.
type windowLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	entries   map[string]*windowEntry
	lastPurge time.Time
	now       func() time.Time
}

type windowEntry struct {
	count     int
	windowEnd time.Time
}

func newWindowLimiter(limit int, window time.Duration) *windowLimiter {
	return &windowLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// allow records one request for key and reports whether it is within the
// limit, plus the end of the current window.
func (l *windowLimiter) allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPurge) >= purgeInterval {
		l.purge(now)
	}

	e, ok := l.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[key] = e
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

func (l *windowLimiter) purge(now time.Time) {
	purged := 0
	for k, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, k)
			purged++
		}
	}
	l.lastPurge = now
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.entries)).Msg("rate limiter entries purged")
	}
}

func (l *windowLimiter) middleware(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login and refresh attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newWindowLimiter(20, time.Minute).middleware("too many login attempts, try again in a minute")
}

// RateLimiter is the general API limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newWindowLimiter(limit, window).middleware("too many requests, try again shortly")
}
