package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"resume-assistant/internal/shared/telemetry"
)

// RateLimitRule allows Burst requests at once, refilled at Rate per second.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// PerMinute builds a rule from a requests-per-minute budget.
func PerMinute(n float64, burst int) RateLimitRule {
	return RateLimitRule{Rate: n / 60, Burst: burst}
}

func (r RateLimitRule) disabled() bool {
	return r.Rate <= 0 || r.Burst <= 0
}

// idleBucketTTL bounds how long a silent client's limiter is retained.
const idleBucketTTL = 10 * time.Minute

// RateLimiter keeps one rate.Limiter per key. Safe for concurrent use.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	now       func() time.Time
	lastSweep time.Time
}

type clientLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{clients: make(map[string]*clientLimiter), now: now}
}

// Allow takes a token for key. When none is available it reports how long
// until the next one.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.disabled() {
		return true, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{lim: rate.NewLimiter(rate.Limit(rule.Rate), rule.Burst)}
		l.clients[key] = cl
	}
	cl.seen = now

	res := cl.lim.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// sweep drops idle limiters at most once per idleBucketTTL. Caller holds mu.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < idleBucketTTL {
		return
	}
	for k, cl := range l.clients {
		if now.Sub(cl.seen) >= idleBucketTTL {
			delete(l.clients, k)
		}
	}
	l.lastSweep = now
}

func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimit throttles requests per client IP within the named group.
func RateLimit(group string, rule RateLimitRule, limiter *RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		limiter = NewRateLimiter(nil)
	}
	return func(c *gin.Context) {
		allowed, retryAfter := limiter.Allow(group+"|"+c.ClientIP(), rule)
		if allowed {
			c.Next()
			return
		}

		retryMs := retryAfter.Milliseconds()
		if retryMs <= 0 {
			retryMs = 1000
		}
		retrySec := (retryMs + 999) / 1000
		telemetry.Warn("rate_limited", map[string]any{
			"group":          group,
			"client_ip":      c.ClientIP(),
			"path":           c.Request.URL.Path,
			"retry_after_ms": retryMs,
		})
		c.Header("Retry-After", strconv.FormatInt(retrySec, 10))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success":      false,
			"error":        "rate_limited",
			"retryAfterMs": retryMs,
		})
	}
}
