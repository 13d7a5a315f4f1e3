package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/config"
	"github.com/dmehra2102/prod-golang-projects/ordercast/pkg/metrics"
)

const limiterIdleTTL = 10 * time.Minute

type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rps      rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

// sweep drops limiters for IPs not seen within the TTL so the map does not
// grow without bound.
func (l *ipLimiters) sweep() {
	for range time.Tick(limiterIdleTTL) {
		l.mu.Lock()
		cutoff := time.Now().Add(-limiterIdleTTL)
		for ip, e := range l.limiters {
			if e.lastSeen.Before(cutoff) {
				delete(l.limiters, ip)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit enforces a per-client-IP token bucket on the endpoints it wraps.
func RateLimit(cfg config.RateLimitConfig, m *metrics.Collector) gin.HandlerFunc {
	l := &ipLimiters{
		limiters: make(map[string]*limiterEntry),
		rps:      rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.BurstSize,
	}
	go l.sweep()

	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			m.RateLimited.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests. Please slow down.",
				"code":    "RATE_LIMITED",
			})
			return
		}
		c.Next()
	}
}
