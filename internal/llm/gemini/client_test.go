package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-assistant/internal/llm"
)

// wireRequest mirrors the generateContent body the SDK sends.
type wireRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		TopP            float64 `json:"topP"`
		TopK            float64 `json:"topK"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), "secret", "", Options{BaseURL: srv.URL})
	require.NoError(t, err)
	return client
}

func TestNewClientDefaults(t *testing.T) {
	_, err := NewClient(context.Background(), "", "", Options{})
	require.Error(t, err)

	client, err := NewClient(context.Background(), "key", "", Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, client.model)
	assert.Equal(t, float32(0.9), *client.config.Temperature)
	assert.Equal(t, float32(1), *client.config.TopP)
	assert.Equal(t, float32(1), *client.config.TopK)
	assert.Equal(t, int32(4096), client.config.MaxOutputTokens)
}

func TestGenerateRequestShape(t *testing.T) {
	var got wireRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-1.5-flash:generateContent"), r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Dear "},{"text":"team"}]},"finishReason":"STOP"}],"usageMetadata":{"totalTokenCount":9}}`))
	})

	text, err := client.Generate(context.Background(), "write something")
	require.NoError(t, err)
	assert.Equal(t, "Dear team", text)

	require.Len(t, got.Contents, 1)
	require.Len(t, got.Contents[0].Parts, 1)
	assert.Equal(t, "write something", got.Contents[0].Parts[0].Text)
	assert.InDelta(t, 0.9, got.GenerationConfig.Temperature, 1e-6)
	assert.Equal(t, 1.0, got.GenerationConfig.TopP)
	assert.Equal(t, 1.0, got.GenerationConfig.TopK)
	assert.Equal(t, 4096, got.GenerationConfig.MaxOutputTokens)
}

func TestGenerateUpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "api error", status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, want: "API key not valid"},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":{"code":403,"message":"permission denied","status":"PERMISSION_DENIED"}}`, want: "status 403"},
		{name: "blocked", status: http.StatusOK, body: `{"promptFeedback":{"blockReason":"SAFETY"}}`, want: "SAFETY"},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, want: "missing candidates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Generate(context.Background(), "prompt")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGenerateEmptyText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`))
	})

	_, err := client.Generate(context.Background(), "prompt")
	assert.True(t, errors.Is(err, llm.ErrEmptyOutput))
}

func TestGenerateHonorsContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Generate(ctx, "prompt")
	require.Error(t, err)
}
