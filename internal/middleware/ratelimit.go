package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// rateLimitKey 拼出某个客户端的计数器键，统一挂在应用的键前缀下。
func rateLimitKey(keyPrefix, clientIP string) string {
	return keyPrefix + "ratelimit:" + clientIP
}

// RateLimit 返回一个基于客户端 IP 的速率限制中间件。
// 计数器存放在 Redis 里，INCR 加 EXPIRE 通过 Pipeline 执行。
func RateLimit(redisClient *redis.Client, keyPrefix string, maxRequests int, window time.Duration) gin.HandlerFunc {
	if redisClient == nil {
		panic("Redis client cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}
	if window <= 0 {
		panic("window duration must be positive for RateLimit middleware")
	}

	return func(c *gin.Context) {
		key := rateLimitKey(keyPrefix, c.ClientIP())

		pipe := redisClient.Pipeline()
		incrCmd := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, window)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			// Redis 故障时放行而不是拒绝所有流量
			logrus.WithError(err).Error("RateLimit: Redis pipeline failed, allowing request")
			c.Next()
			return
		}

		if incrCmd.Val() > int64(maxRequests) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}
