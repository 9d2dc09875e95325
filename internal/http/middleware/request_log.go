package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/screengrabber-backend/internal/platform/ctxutil"
	"github.com/yungbote/screengrabber-backend/internal/platform/logger"
)

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if rt, ok := ctxutil.RequestTraceFrom(c.Request.Context()); ok {
			if rt.TraceID != "" {
				fields = append(fields, "trace_id", rt.TraceID)
			}
			if rt.RequestID != "" {
				fields = append(fields, "request_id", rt.RequestID)
			}
		}
		if ua := c.Request.UserAgent(); ua != "" {
			fields = append(fields, "user_agent", ua)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
