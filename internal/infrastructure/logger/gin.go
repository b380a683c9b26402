package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ginLoggerKey = "logger"

// GinMiddleware logs every request and plants a request-scoped logger into
// the gin context. The log level follows the response status.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestLogger := base
		if requestID := c.GetString("request_id"); requestID != "" {
			requestLogger = base.With(zap.String("request_id", requestID))
		}
		c.Set(ginLoggerKey, requestLogger)
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), requestLogger))

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.Int("body_size", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			requestLogger.Error("request", fields...)
		case status >= 400:
			requestLogger.Warn("request", fields...)
		default:
			requestLogger.Info("request", fields...)
		}
	}
}

// GetGinLogger pulls the request-scoped logger out of the gin context.
func GetGinLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(ginLoggerKey); ok {
		if requestLogger, ok := l.(*zap.Logger); ok {
			return requestLogger
		}
	}
	return zap.NewNop()
}

// Recovery converts panics into 500 responses with a stack-traced log line.
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				GetGinLogger(c).Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"))
				c.AbortWithStatusJSON(500, gin.H{
					"success": false,
					"error":   gin.H{"code": "INTERNAL_ERROR", "message": "internal server error"},
				})
			}
		}()
		c.Next()
	}
}
