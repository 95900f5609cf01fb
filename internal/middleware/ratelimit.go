package middleware

import (
	"net/http"
	"time"

	"Blog_Backend/internal/repository/redis"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RateLimit 按客户端 IP 固定窗口限流，redis 不可用时放行
func RateLimit(limiter *redis.RateLimiter, scope string, maxRequests int64, window time.Duration) gin.HandlerFunc {
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}
	if window <= 0 {
		panic("window must be positive for RateLimit middleware")
	}
	return func(c *gin.Context) {
		n, err := limiter.Hit(c.Request.Context(), scope, c.ClientIP(), window)
		if err != nil {
			logrus.WithError(err).WithField("scope", scope).Warn("rate limit check failed")
			c.Next()
			return
		}
		if n > maxRequests {
			abort(c, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
			return
		}
		c.Next()
	}
}
