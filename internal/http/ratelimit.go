package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AttemptCounter is the windowed counter behind the auth rate limits.
// *repo.Redis satisfies it.
type AttemptCounter interface {
	CountAttempt(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit caps per-IP attempts on the sensitive auth endpoints using a
// one-minute counter window. Without a counter (or with a zero limit) it is
// a pass-through; a counter outage also passes through rather than locking
// everyone out.
func (h *Handler) RateLimit(bucket string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Limiter == nil || h.RateLimitPerMin <= 0 {
			c.Next()
			return
		}
		key := "rl:" + bucket + ":" + c.ClientIP()
		n, err := h.Limiter.CountAttempt(c.Request.Context(), key, time.Minute)
		if err != nil {
			c.Next()
			return
		}
		if n > int64(h.RateLimitPerMin) {
			fail(c, http.StatusTooManyRequests, "too many requests, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
