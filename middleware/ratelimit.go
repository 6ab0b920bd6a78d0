package middleware

import (
	"net/http"
	"sync"
	"time"

	"sealgate/config"
	"sealgate/logging"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter manages per-client rate limiting for HTTP requests
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	config   *config.Config
	logger   *logging.Logger
}

// NewRateLimiter creates a new rate limiter middleware
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		config:   cfg,
		logger:   logging.GetLogger(),
	}
}

// getLimiter returns or creates a rate limiter for a specific client
func (rl *RateLimiter) getLimiter(clientIP string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[clientIP]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Check again in case another goroutine created it
	if limiter, exists := rl.limiters[clientIP]; exists {
		return limiter
	}

	requestsPerMin := rl.config.Security.RateLimiting.RequestsPerMin
	burst := rl.config.Security.RateLimiting.Burst

	ratePerSec := float64(requestsPerMin) / 60.0

	limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst)
	rl.limiters[clientIP] = limiter

	return limiter
}

// Handler returns a gin middleware enforcing the configured rate limit
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.config.Security.RateLimiting.Enabled {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		limiter := rl.getLimiter(clientIP)

		if !limiter.Allow() {
			rl.logger.Warn("Rate limit exceeded for client %s", clientIP)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}

// PrintRateLimitInfo logs the current rate limit configuration
func (rl *RateLimiter) PrintRateLimitInfo(serviceName string) {
	if !rl.config.Security.RateLimiting.Enabled {
		rl.logger.Startup("Rate limiting: DISABLED")
		return
	}

	requestsPerMin := rl.config.Security.RateLimiting.RequestsPerMin
	burst := rl.config.Security.RateLimiting.Burst

	rl.logger.Startup(
		"Rate limiting: ENABLED - %d requests/min (burst: %d) for %s",
		requestsPerMin,
		burst,
		serviceName,
	)

	avgTimeBetween := time.Minute / time.Duration(requestsPerMin)
	rl.logger.Startup(
		"Average time between allowed requests: %v",
		avgTimeBetween.Round(time.Second),
	)
}

// GetCurrentLimit returns the current rate limit configuration
func (rl *RateLimiter) GetCurrentLimit() (requestsPerMin int, burst int, enabled bool) {
	return rl.config.Security.RateLimiting.RequestsPerMin,
		rl.config.Security.RateLimiting.Burst,
		rl.config.Security.RateLimiting.Enabled
}
