package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(time.Second, 5)
	defer rl.Stop()
	r := newLimitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiterRejectsOverBurst(t *testing.T) {
	rl := NewRateLimiter(time.Hour, 2)
	defer rl.Stop()
	r := newLimitedRouter(rl)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterTracksIPsIndependently(t *testing.T) {
	rl := NewRateLimiter(time.Hour, 1)
	defer rl.Stop()
	r := newLimitedRouter(rl)

	first := httptest.NewRecorder()
	req1, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	req1.RemoteAddr = "192.0.2.10:1234"
	req1.Header.Set("X-Forwarded-For", "10.0.0.1")
	r.ServeHTTP(first, req1)
	assert.Equal(t, http.StatusOK, first.Code)

	// A different client IP gets its own bucket.
	second := httptest.NewRecorder()
	req2, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	req2.RemoteAddr = "192.0.2.10:1234"
	req2.Header.Set("X-Forwarded-For", "10.0.0.2")
	r.ServeHTTP(second, req2)
	assert.Equal(t, http.StatusOK, second.Code)

	// Same IP as the first request is now over its burst.
	third := httptest.NewRecorder()
	req3, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	req3.RemoteAddr = "192.0.2.10:1234"
	req3.Header.Set("X-Forwarded-For", "10.0.0.1")
	r.ServeHTTP(third, req3)
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(time.Second, 1)
	rl.Stop()
	rl.Stop()
}
