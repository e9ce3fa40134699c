package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiterConfig struct {
	RequestsPerSecond int
	Burst             int
	CleanupInterval   time.Duration
	TTL               time.Duration
}

type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	cfg      RateLimiterConfig
}

func (r *rateLimiter) get(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, exists := r.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Limit(r.cfg.RequestsPerSecond), r.cfg.Burst)
		r.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanup forgets visitors that haven't been seen for cfg.TTL until ctx is done
func (r *rateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.mu.Lock()
			for ip, v := range r.visitors {
				if time.Since(v.lastSeen) > r.cfg.TTL {
					delete(r.visitors, ip)
				}
			}
			r.mu.Unlock()
		}
	}
}

// RateLimiterMiddleware limits every client IP to RequestsPerSecond requests.
// A zero RequestsPerSecond disables limiting. The visitor cleanup runs until
// ctx is done.
func RateLimiterMiddleware(ctx context.Context, config RateLimiterConfig) gin.HandlerFunc {
	if config.RequestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	if config.Burst <= 0 {
		config.Burst = config.RequestsPerSecond
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}
	if config.TTL == 0 {
		config.TTL = 3 * time.Minute
	}

	r := &rateLimiter{
		visitors: make(map[string]*visitor),
		cfg:      config,
	}

	go r.cleanup(ctx)

	return func(c *gin.Context) {
		if !r.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":   "Too many requests",
				"requestID": c.GetString("requestID"),
			})
			return
		}

		c.Next()
	}
}
