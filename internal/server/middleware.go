package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// requestLogger logs one line per request once the handler has run.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if raw != "" {
			attrs = append(attrs, "query", raw)
		}
		if msg := c.Errors.ByType(gin.ErrorTypePrivate).String(); msg != "" {
			attrs = append(attrs, "error", msg)
		}

		switch {
		case status >= 500:
			logger.Error("http request", attrs...)
		case status >= 400:
			logger.Warn("http request", attrs...)
		default:
			logger.Debug("http request", attrs...)
		}
	}
}
