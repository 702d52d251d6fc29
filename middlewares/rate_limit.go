package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitor holds the rate limiter and the last time we saw this IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Default limits for the general API surface.
const (
	DefaultRateEvery = time.Second
	DefaultRateBurst = 100
)

// RateLimiter is an injected per-IP limiter with its own lifecycle. The
// server constructs one, mounts its middleware and stops it on shutdown;
// there is no package-level state, so tests can build isolated instances.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	every time.Duration
	burst int

	stop chan struct{}
	once sync.Once
}

// NewRateLimiter allows one request per `every` on average with the given
// burst, per client IP. Idle IP buckets are pruned in the background.
func NewRateLimiter(every time.Duration, burst int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		every:    every,
		burst:    burst,
		stop:     make(chan struct{}),
	}
	go rl.pruneLoop()
	return rl
}

func (rl *RateLimiter) pruneLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if time.Since(v.lastSeen) > 10*time.Minute {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop halts background pruning. Existing middleware keeps working.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Every(rl.every), rl.burst)
		rl.visitors[ip] = &visitor{
			limiter:  limiter,
			lastSeen: time.Now(),
		}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// Middleware applies the per-IP limit to every request it wraps.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := rl.getVisitor(ip)

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please slow down.",
			})
			return
		}

		c.Next()
	}
}
