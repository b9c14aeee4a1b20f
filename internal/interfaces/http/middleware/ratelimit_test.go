package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within the limit", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("caja-1"), "request %d should pass", i+1)
		}
		assert.False(t, limiter.Allow("caja-1"))
	})

	t.Run("keys are tracked independently", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		assert.True(t, limiter.Allow("caja-a"))
		assert.True(t, limiter.Allow("caja-a"))
		assert.False(t, limiter.Allow("caja-a"))

		assert.True(t, limiter.Allow("caja-b"))
		assert.True(t, limiter.Allow("caja-b"))
	})

	t.Run("window reset refills tokens", func(t *testing.T) {
		limiter := NewRateLimiter(2, 50*time.Millisecond)

		assert.True(t, limiter.Allow("caja-2"))
		assert.True(t, limiter.Allow("caja-2"))
		assert.False(t, limiter.Allow("caja-2"))

		time.Sleep(60 * time.Millisecond)

		assert.True(t, limiter.Allow("caja-2"))
	})

	t.Run("remaining reflects consumed tokens", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		assert.Equal(t, 5, limiter.Remaining("fresh"))

		limiter.Allow("fresh")
		limiter.Allow("fresh")

		assert.Equal(t, 3, limiter.Remaining("fresh"))
	})

	t.Run("concurrent callers never exceed the limit", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0

		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(limiter *RateLimiter) *gin.Engine {
		router := gin.New()
		router.Use(RateLimit(limiter))
		router.GET("/productos", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		return router
	}

	t.Run("returns 429 once the limit is spent", func(t *testing.T) {
		router := newRouter(NewRateLimiter(2, time.Minute))

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/productos", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/productos", nil))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	})

	t.Run("reports limit headers on allowed requests", func(t *testing.T) {
		router := newRouter(NewRateLimiter(5, time.Minute))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/productos", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("tenant header scopes the key", func(t *testing.T) {
		router := newRouter(NewRateLimiter(1, time.Minute))

		req1 := httptest.NewRequest("GET", "/productos", nil)
		req1.Header.Set("X-Tenant-ID", "ferreteria-central")
		w1 := httptest.NewRecorder()
		router.ServeHTTP(w1, req1)
		assert.Equal(t, http.StatusOK, w1.Code)

		req2 := httptest.NewRequest("GET", "/productos", nil)
		req2.Header.Set("X-Tenant-ID", "ferreteria-central")
		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, req2)
		assert.Equal(t, http.StatusTooManyRequests, w2.Code)

		req3 := httptest.NewRequest("GET", "/productos", nil)
		req3.Header.Set("X-Tenant-ID", "ferreteria-sur")
		w3 := httptest.NewRecorder()
		router.ServeHTTP(w3, req3)
		assert.Equal(t, http.StatusOK, w3.Code)
	})
}
