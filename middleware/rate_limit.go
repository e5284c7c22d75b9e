package middleware

import (
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/NomadCrew/lunch-break-planner/errors"
	"github.com/NomadCrew/lunch-break-planner/logger"
	"github.com/NomadCrew/lunch-break-planner/services"
	"github.com/gin-gonic/gin"
)

// MutationRateLimiter limits trip-changing requests per client IP. Limiter
// failures let the request through; trips never depend on Redis.
func MutationRateLimiter(limiter services.RateLimiterInterface, requestsPerWindow int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("mutations:%s", c.ClientIP())

		allowed, retryAfter, err := limiter.CheckLimit(c.Request.Context(), key, requestsPerWindow, window)
		if err != nil {
			logger.GetLogger().Warnw("Rate limit check failed, allowing request",
				"error", err,
				"request_id", GetRequestID(c))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(requestsPerWindow))

		if !allowed {
			seconds := int(retryAfter.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(seconds))
			_ = c.Error(apperrors.RateLimitExceeded("Too many requests. Please try again later.", seconds))
			c.Abort()
			return
		}

		c.Next()
	}
}
