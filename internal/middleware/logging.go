package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtsidehq/courtside/pkg/logger"
)

// LoggerMiddleware logs one line per request with method, path, status and
// latency. Responses at 400 and above log at error level.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		duration := time.Since(startTime)

		logEvent := logger.Log.Info()
		if c.Writer.Status() >= 400 {
			logEvent = logger.Log.Error()
		}

		logEvent.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", duration).
			Msg("Incoming request")
	}
}
