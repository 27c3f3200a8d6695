package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-assistant/internal/shared/telemetry"
)

// Envelope is the body shape shared by every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, data any) {
	JSON(c, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, data any) {
	JSON(c, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Fail reports a logical failure: the request was understood but could not be
// satisfied. Clients rely on these arriving with HTTP 200.
func Fail(c *gin.Context, message string) {
	JSON(c, http.StatusOK, Envelope{Success: false, Error: message})
}

// Error sends a failure envelope with a non-200 status and logs it.
func Error(c *gin.Context, status int, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: message})
}

// Internal reports an infrastructure failure with HTTP 500, surfacing the error text.
func Internal(c *gin.Context, err error) {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	Error(c, http.StatusInternalServerError, msg)
}
