package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, config RateLimiterConfig) (*RateLimiter, *miniredis.Miniredis) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRateLimiter(client, config), server
}

func TestCheckLimitAllowsWithinWindow(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimiterConfig{
		MaxRequests: 3,
		Window:      time.Minute,
	})

	for i := 0; i < 3; i++ {
		allowed, _, err := rl.CheckLimit("10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, retryAfter, err := rl.CheckLimit("10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestCheckLimitIsPerIP(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimiterConfig{
		MaxRequests: 1,
		Window:      time.Minute,
	})

	allowed, _, err := rl.CheckLimit("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = rl.CheckLimit("10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed, "a different IP has its own counter")
}

func TestCheckLimitWindowResets(t *testing.T) {
	rl, server := newTestLimiter(t, RateLimiterConfig{
		MaxRequests: 1,
		Window:      time.Minute,
	})

	allowed, _, err := rl.CheckLimit("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = rl.CheckLimit("10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	server.FastForward(2 * time.Minute)

	allowed, _, err = rl.CheckLimit("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed, "counter expires with the window")
}

func TestMiddlewareRejectsWithRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl, _ := newTestLimiter(t, RateLimiterConfig{
		MaxRequests: 1,
		Window:      time.Minute,
	})

	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do().Code)

	w := do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestMiddlewareFailsOpenWhenRedisDown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl, server := newTestLimiter(t, RateLimiterConfig{
		MaxRequests: 1,
		Window:      time.Minute,
	})
	server.Close()

	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
