package middleware

import (
	"net/http"
	"strconv"

	"chat-threads/internal/redis"
	"chat-threads/internal/services"
	"chat-threads/internal/transport/httpdto"
	"chat-threads/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ThreadRateLimitMiddleware limits thread API calls per user.
// Should be applied to thread endpoints after auth middleware
func ThreadRateLimitMiddleware(limiter *redis.RateLimiter, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := services.UserIDFromContext(c.Request.Context())
		if !ok {
			// No user context, skip rate limiting (auth middleware will handle)
			c.Next()
			return
		}

		result, err := limiter.AllowThreadRequest(c.Request.Context(), userID)
		if err != nil {
			// Redis errors fail open.
			if l != nil {
				l.WarnCtx(c.Request.Context(), "rate limit check failed", zap.Error(err))
			}
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limit exceeded", "RATE_LIMITED"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
