package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sifan077/slugurl/config"
	"go.uber.org/zap"
)

// RateLimit creates a fixed-window, per-IP rate limiting middleware backed by Redis.
// Requests are allowed through when Redis is unavailable.
func RateLimit(redisClient *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) fiber.Handler {
	window := cfg.Window()
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "ratelimit"
	}

	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		key := prefix + ":" + c.IP()

		// EXPIRE NX runs on every hit so a key that lost its TTL heals on the next request.
		var incr *redis.IntCmd
		var ttlCmd *redis.DurationCmd
		_, err := redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, window)
			ttlCmd = pipe.TTL(ctx, key)
			return nil
		})
		if err != nil {
			logger.Error("rate limit redis error", zap.Error(err), zap.String("key", key))
			return c.Next()
		}

		count := incr.Val()
		ttl := ttlCmd.Val()
		if ttl < 0 {
			ttl = window
		}

		remaining := cfg.MaxRequests - int(count)
		c.Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, remaining)))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))

		if count > int64(cfg.MaxRequests) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(ttl.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "rate_limited",
				"message": "Too many requests, retry later",
			})
		}

		return c.Next()
	}
}
