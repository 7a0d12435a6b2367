package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, limit int, window time.Duration) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(limit, window)
	t.Cleanup(rl.Stop)
	return rl
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows the burst then blocks", func(t *testing.T) {
		rl := newLimiter(t, 3, time.Minute)
		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow("client"), "request %d", i+1)
		}
		assert.False(t, rl.Allow("client"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		rl := newLimiter(t, 1, time.Minute)
		assert.True(t, rl.Allow("a"))
		assert.False(t, rl.Allow("a"))
		assert.True(t, rl.Allow("b"))
	})

	t.Run("tokens refill over the window", func(t *testing.T) {
		rl := newLimiter(t, 2, 40*time.Millisecond)
		assert.True(t, rl.Allow("client"))
		assert.True(t, rl.Allow("client"))
		assert.False(t, rl.Allow("client"))
		assert.Eventually(t, func() bool { return rl.Allow("client") }, time.Second, 5*time.Millisecond)
	})

	t.Run("remaining", func(t *testing.T) {
		rl := newLimiter(t, 5, time.Hour)
		assert.Equal(t, 5, rl.Remaining("client"))
		rl.Allow("client")
		rl.Allow("client")
		assert.Equal(t, 3, rl.Remaining("client"))
	})

	t.Run("concurrent access", func(t *testing.T) {
		rl := newLimiter(t, 50, time.Hour)
		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if rl.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, allowed)
	})

	t.Run("non-positive settings fall back", func(t *testing.T) {
		rl := newLimiter(t, 0, 0)
		assert.Equal(t, 1, rl.Limit())
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("headers and 429", func(t *testing.T) {
		r := newEngine(RateLimit(newLimiter(t, 2, time.Hour), nil))

		w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

		serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))
		w = serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMITED")

		retry, err := strconv.Atoi(w.Header().Get("Retry-After"))
		require.NoError(t, err)
		assert.Positive(t, retry)
	})

	t.Run("separate budgets per address", func(t *testing.T) {
		r := newEngine(RateLimit(newLimiter(t, 1, time.Hour), ClientIPKey))
		for _, addr := range []string{"10.0.0.1:1234", "10.0.0.2:1234"} {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = addr
			assert.Equal(t, http.StatusOK, serve(r, req).Code, addr)
		}
	})

	t.Run("auth keys do not share the general budget", func(t *testing.T) {
		rl := newLimiter(t, 1, time.Hour)
		r := gin.New()
		r.GET("/general", RateLimit(rl, ClientIPKey), func(c *gin.Context) { c.Status(http.StatusOK) })
		r.GET("/login", RateLimit(rl, AuthKey), func(c *gin.Context) { c.Status(http.StatusOK) })

		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/general", nil)).Code)
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/login", nil)).Code)
		assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/login", nil)).Code)
	})
}
