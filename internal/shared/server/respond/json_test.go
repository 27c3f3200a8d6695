package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func serve(t *testing.T, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", h)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestFailUsesStatusOK(t *testing.T) {
	resp := serve(t, func(c *gin.Context) { Fail(c, "No user found") })
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := decode(t, resp)
	if body["success"] != false || body["error"] != "No user found" {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["data"]; ok {
		t.Fatalf("data should be omitted on failure")
	}
}

func TestInternalSurfacesErrorText(t *testing.T) {
	resp := serve(t, func(c *gin.Context) { Internal(c, errors.New("connection refused")) })
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	body := decode(t, resp)
	if body["error"] != "connection refused" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
}

func TestCreatedWrapsData(t *testing.T) {
	resp := serve(t, func(c *gin.Context) { Created(c, gin.H{"email": "a@b.c"}) })
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	body := decode(t, resp)
	data, ok := body["data"].(map[string]any)
	if !ok || data["email"] != "a@b.c" || body["success"] != true {
		t.Fatalf("unexpected body: %v", body)
	}
}
