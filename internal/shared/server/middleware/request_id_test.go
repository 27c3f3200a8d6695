package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestIDReusesWellFormedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	var seen string
	router.GET("/x", func(c *gin.Context) {
		seen = RequestIDFromContext(c)
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name    string
		inbound string
		reuse   bool
	}{
		{name: "absent", inbound: "", reuse: false},
		{name: "well formed", inbound: "req-123_abc.1", reuse: true},
		{name: "spaces", inbound: "bad id", reuse: false},
		{name: "too long", inbound: strings.Repeat("a", 65), reuse: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.inbound != "" {
				req.Header.Set("X-Request-Id", tt.inbound)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			got := resp.Header().Get("X-Request-Id")
			if got == "" || got != seen {
				t.Fatalf("header %q does not match context %q", got, seen)
			}
			if (got == tt.inbound) != tt.reuse {
				t.Fatalf("inbound %q reuse=%v, got %q", tt.inbound, tt.reuse, got)
			}
		})
	}
}
