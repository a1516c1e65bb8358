package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"support-backend/internal/shared/metrics"
	"support-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request and counts it by route.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		for _, key := range []string{"ticketId", "manualId"} {
			if v := c.GetString(key); v != "" {
				fields[toSnake(key)] = v
			}
		}
		telemetry.Info("request.complete", fields)
		metrics.ObserveHTTP(c.Request.Method, c.FullPath(), status)
	}
}

func toSnake(key string) string {
	var b strings.Builder
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
