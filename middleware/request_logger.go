package middleware

import (
	"time"

	"github.com/NomadCrew/lunch-break-planner/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request. Health probes and metrics scrapes
// are logged at debug level.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := logger.GetLogger()
		fields := []interface{}{
			"request_id", GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"ip", c.ClientIP(),
			"bytes", c.Writer.Size(),
		}

		switch c.FullPath() {
		case "/health", "/health/liveness", "/health/readiness", "/metrics":
			log.Debugw("HTTP request", fields...)
		default:
			log.Infow("HTTP request", fields...)
		}
	}
}
