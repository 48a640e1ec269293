package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID holds the per-request correlation id.
const ContextKeyRequestID = "request_id"

// quietPaths are health check endpoints hit every few seconds by the orchestrator.
var quietPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
}

// RequestID reuses the caller's X-Request-ID or mints one, and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger writes one line per request. Successful health checks are skipped.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if quietPaths[c.Request.URL.Path] && status < 400 {
			return
		}

		user := "-"
		if id, err := GetUserID(c); err == nil {
			user = id.String()
		}
		log.Printf("[%s] %s %s %d %s user=%s ip=%s",
			c.GetString(ContextKeyRequestID),
			c.Request.Method,
			c.Request.URL.Path,
			status,
			time.Since(start),
			user,
			c.ClientIP(),
		)
	}
}

// Recovery turns a panicking handler into a 500 and logs the stack.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
