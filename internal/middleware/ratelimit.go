package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/ecofinds-market/internal/config"
)

// RateLimit returns a fixed-window request limiter backed by redis.
// Each (client IP, route) pair gets cfg.Limit requests per cfg.Window;
// the counter key expires with the window, so idle clients cost
// nothing. When the limiter is disabled or no redis client is
// available, requests pass through untouched, and redis errors also
// fail open so a limiter outage never takes the API down with it.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg.Prefix, c)
			ctx := c.Request().Context()

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				return next(c)
			}
			if n == 1 {
				// First hit of the window owns setting the expiry.
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}
			if n > int64(cfg.Limit) {
				ttl, _ := rdb.TTL(ctx, key).Result()
				if ttl < 0 {
					ttl = cfg.Window
				}
				c.Response().Header().Set("Retry-After",
					strconv.Itoa(int(ttl/time.Second)+1))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
			}

			remaining := int64(cfg.Limit) - n
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			return next(c)
		}
	}
}

// rateKey namespaces the counter by client IP and matched route so one
// noisy endpoint cannot starve the rest of the API for the same client.
func rateKey(prefix string, c echo.Context) string {
	route := c.Path()
	if route == "" {
		route = c.Request().URL.Path
	}
	return strings.Join([]string{prefix, c.RealIP(), route}, ":")
}
