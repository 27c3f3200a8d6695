package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-assistant/internal/shared/telemetry"
)

// Request log fields live under their own keys so handlers can annotate a
// request without touching the authenticated identity.
const (
	logEmailKey = "log.userEmail"
	logKindKey  = "log.generationKind"
)

// SetLogEmail records the email a request acted on for the request log.
func SetLogEmail(c *gin.Context, email string) {
	c.Set(logEmailKey, email)
}

// SetLogGenerationKind records which prompt a generation request used.
func SetLogGenerationKind(c *gin.Context, kind string) {
	c.Set(logKindKey, kind)
}

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if email := c.GetString(logEmailKey); email != "" {
			fields["user_email"] = email
		}
		if kind := c.GetString(logKindKey); kind != "" {
			fields["generation_kind"] = kind
		}
		telemetry.Info("request.complete", fields)
	}
}
