package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ecofinds-market/internal/config"
)

func limitedEcho(cfg config.RateLimitConfig, rdb *redis.Client) *echo.Echo {
	e := echo.New()
	e.Use(RateLimit(cfg, rdb))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	return e
}

func hit(e *echo.Echo) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitBlocksAboveWindowLimit(t *testing.T) {
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.RateLimitConfig{Enabled: true, Limit: 2, Window: time.Minute, Prefix: "rl"}
	e := limitedEcho(cfg, rdb)

	require.Equal(t, http.StatusOK, hit(e).Code)
	require.Equal(t, http.StatusOK, hit(e).Code)

	rec := hit(e)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false}
	e := limitedEcho(cfg, nil)

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, hit(e).Code)
	}
}

func TestRateLimitFailsOpenWithoutRedis(t *testing.T) {
	// Enabled but no client: the limiter must never block traffic.
	cfg := config.RateLimitConfig{Enabled: true, Limit: 1, Window: time.Minute, Prefix: "rl"}
	e := limitedEcho(cfg, nil)

	require.Equal(t, http.StatusOK, hit(e).Code)
	require.Equal(t, http.StatusOK, hit(e).Code)
}
