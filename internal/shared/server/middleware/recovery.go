package middleware

import (
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-assistant/internal/shared/server/respond"
	"resume-assistant/internal/shared/telemetry"
)

const msgUnexpected = "Unexpected server error"

// Recovery turns a handler panic into a 500 envelope and a structured log line.
// gin's own recovery still handles broken client connections.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		telemetry.Error("panic", map[string]any{
			"request_id": RequestIDFromContext(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_email": c.GetString(logEmailKey),
			"error":      fmt.Sprint(rec),
			"stack":      string(debug.Stack()),
		})
		if c.Writer.Written() {
			c.Abort()
			return
		}
		respond.Error(c, http.StatusInternalServerError, msgUnexpected)
	})
}
