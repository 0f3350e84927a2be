package httpiface

import (
	"net/http"
	"sync"
	"time"

	"coffee-chat/domain/chat"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
)

type rateBucket struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
}

// rateLimiter enforces a fixed request count per window, bucketed by
// client IP. Buckets live in an expirable LRU so idle clients age out.
type rateLimiter struct {
	requests int
	window   time.Duration
	mu       sync.Mutex
	buckets  *expirable.LRU[string, *rateBucket]
}

func newRateLimiter(requests int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		requests: requests,
		window:   window,
		// Buckets expire two windows after last touch.
		buckets: expirable.NewLRU[string, *rateBucket](4096, nil, 2*window),
	}
}

func (rl *rateLimiter) allow(key string) bool {
	// Creation must be atomic or two concurrent first requests would
	// each install a bucket and one bucket's count would be lost.
	rl.mu.Lock()
	bucket, ok := rl.buckets.Get(key)
	if !ok {
		bucket = &rateBucket{windowStart: time.Now()}
		rl.buckets.Add(key, bucket)
	}
	rl.mu.Unlock()

	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	now := time.Now()
	if now.Sub(bucket.windowStart) >= rl.window {
		bucket.windowStart = now
		bucket.count = 0
	}

	if bucket.count >= rl.requests {
		return false
	}
	bucket.count++
	return true
}

func (rl *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			logrus.WithFields(logrus.Fields{
				"client_ip": c.ClientIP(),
				"path":      c.Request.URL.Path,
			}).Warn("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, chat.ErrorResponse{
				Status:  "error",
				Message: "Too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
