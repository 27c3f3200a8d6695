package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-assistant/internal/shared/auth"
)

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	signer, err := auth.NewSigner("test-secret", false)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	token, err := signer.Sign("ada@example.com", "Ada")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	router := gin.New()
	router.GET("/me", RequireAuth(signer), func(c *gin.Context) {
		c.String(http.StatusOK, UserEmailFromContext(c))
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid", header: "Bearer " + token, status: http.StatusOK, body: "ada@example.com"},
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer not-a-token", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
			if tt.body != "" && resp.Body.String() != tt.body {
				t.Fatalf("expected body %q, got %q", tt.body, resp.Body.String())
			}
		})
	}
}

func TestLogAnnotationsDoNotChangeIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	signer, err := auth.NewSigner("test-secret", false)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	token, err := signer.Sign("ada@example.com", "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	router := gin.New()
	router.GET("/me", RequireAuth(signer), func(c *gin.Context) {
		SetLogEmail(c, "mallory@example.com")
		c.String(http.StatusOK, UserEmailFromContext(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Body.String() != "ada@example.com" {
		t.Fatalf("identity changed by a log annotation: %q", resp.Body.String())
	}
}

func TestUserEmailFromContextIgnoresLogEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	SetLogEmail(c, "ada@example.com")
	if got := UserEmailFromContext(c); got != "" {
		t.Fatalf("expected no authenticated email, got %q", got)
	}
}
