package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wallofhumanity/backend/internal/apperr"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter counts requests per key in fixed windows stored in Redis. A
// limiter without a client lets every request through.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	logger *zap.Logger
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{redis: redisClient, config: config, logger: logger}
}

// NewLoginRateLimiter limits login and registration attempts per client IP.
func NewLoginRateLimiter(redisClient *redis.Client, perHour int, logger *zap.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     perHour,
		KeyPrefix: "rate_limit:auth",
	}, logger)
}

// NewRequestCreationRateLimiter limits donation requests per user.
func NewRequestCreationRateLimiter(redisClient *redis.Client, perHour int, logger *zap.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     perHour,
		KeyPrefix: "rate_limit:request_creation",
	}, logger)
}

// ByClientIP returns a middleware keyed on the client address.
func (rl *RateLimiter) ByClientIP() gin.HandlerFunc {
	return rl.middleware(func(c *gin.Context) string { return c.ClientIP() })
}

// ByUser returns a middleware keyed on the authenticated user. It must run
// after AuthMiddleware.
func (rl *RateLimiter) ByUser() gin.HandlerFunc {
	return rl.middleware(func(c *gin.Context) string {
		if id, ok := c.Get(UserIDKey); ok {
			return fmt.Sprintf("%v", id)
		}
		return c.ClientIP()
	})
}

func (rl *RateLimiter) middleware(key func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.redis == nil || rl.config.Limit <= 0 {
			c.Next()
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), key(c))
		if err != nil {
			// fail open
			rl.logger.Warn("rate limit check failed", zap.String("prefix", rl.config.KeyPrefix), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(time.Until(resetTime).Seconds())))
			e := apperr.New(apperr.KindValidation, http.StatusTooManyRequests, apperr.CodeRateLimited,
				fmt.Sprintf("Too many requests, limit is %d per %v", rl.config.Limit, rl.config.Window))
			RespondError(c, e.WithDetail("retryAfter", int(time.Until(resetTime).Seconds())))
			return
		}

		c.Next()
	}
}

// IsAllowed counts a request for key.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := time.Now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}
