package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ujblackjack-cmd/it-da/config"
	"github.com/ujblackjack-cmd/it-da/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// callerLimiter tracks one token bucket per caller IP. Entries idle for
// longer than staleAfter are dropped on the next sweep so the map does not
// grow without bound behind a proxy that rotates source addresses.
type callerLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucketEntry
	perMin    int
	lastSweep time.Time
}

type bucketEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const staleAfter = 10 * time.Minute

func newCallerLimiter(perMin int) *callerLimiter {
	if perMin <= 0 {
		perMin = 200
	}
	return &callerLimiter{
		buckets:   make(map[string]*bucketEntry),
		perMin:    perMin,
		lastSweep: time.Now(),
	}
}

func (l *callerLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > staleAfter {
		for k, e := range l.buckets {
			if now.Sub(e.lastSeen) > staleAfter {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.buckets[ip]
	if !ok {
		e = &bucketEntry{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)}
		l.buckets[ip] = e
	}
	e.lastSeen = now
	return e.limiter.Allow()
}

// RateLimitMiddleware throttles each caller IP to MAX_REQUESTS_PER_MIN.
func RateLimitMiddleware() gin.HandlerFunc {
	limiter := newCallerLimiter(config.AppConfig.MaxRequestsPerMin)
	return func(c *gin.Context) {
		ip := clientIP(c)
		if !limiter.allow(ip) {
			utils.GetLogger().Warn("rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				gin.H{"error": "rate limit exceeded, try again later"})
			return
		}
		c.Next()
	}
}

// clientIP resolves the original caller address, preferring proxy headers
// over the socket peer.
func clientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	if xri := c.GetHeader("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}
