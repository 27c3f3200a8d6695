package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-assistant/internal/shared/auth"
	"resume-assistant/internal/shared/server/respond"
)

const authEmailKey = "auth.email"

// RequireAuth validates a bearer token and stores the caller's email in context.
func RequireAuth(signer *auth.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" || signer == nil {
			respond.Error(c, http.StatusUnauthorized, "missing or invalid token")
			return
		}

		claims, err := signer.Verify(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "missing or invalid token")
			return
		}

		c.Set(authEmailKey, claims.Email)
		SetLogEmail(c, claims.Email)
		c.Next()
	}
}

// UserEmailFromContext fetches the email set by RequireAuth.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(authEmailKey)
}
