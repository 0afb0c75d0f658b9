package handler

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/go-boiler/backend/internal/apperror"
	"github.com/go-boiler/backend/internal/config"
)

// RateLimit applies a global token bucket and one bucket per client IP,
// both refilling at the configured per-minute rate. Exceeding either
// answers 429 through the envelope.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	global := rate.NewLimiter(rate.Limit(cfg.GlobalPerMinute)/60, cfg.GlobalPerMinute)

	var mu sync.Mutex
	perIP := make(map[string]*rate.Limiter)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		limiter, ok := perIP[ip]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(cfg.PerIPPerMinute)/60, cfg.PerIPPerMinute)
			perIP[ip] = limiter
		}
		return limiter
	}

	return func(c *gin.Context) {
		if !global.Allow() {
			abortError(c, apperror.TooManyRequests("Too many requests, please try again later."))
			return
		}
		if !limiterFor(c.ClientIP()).Allow() {
			abortError(c, apperror.TooManyRequests("Too many requests from this IP, please try again later."))
			return
		}
		c.Next()
	}
}
