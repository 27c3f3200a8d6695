package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"resume-assistant/internal/llm"
	"resume-assistant/internal/shared/telemetry"
)

const DefaultModel = "gemini-1.5-flash"

// Client implements llm.Generator on the Gemini API through the genai SDK.
type Client struct {
	model  string
	config *genai.GenerateContentConfig
	models *genai.Models
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	// BaseURL points the SDK at another endpoint, e.g. a test server.
	BaseURL  string
	Timeout  time.Duration
	Sampling *llm.Sampling
}

// NewClient constructs a Gemini client. An empty model selects DefaultModel.
func NewClient(ctx context.Context, apiKey, model string, opts Options) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	sampling := llm.DefaultSampling
	if opts.Sampling != nil {
		sampling = *opts.Sampling
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cc.HTTPOptions.BaseURL = strings.TrimRight(base, "/") + "/"
	}
	sdk, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{model: model, config: generationConfig(sampling), models: sdk.Models}, nil
}

func generationConfig(s llm.Sampling) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(s.Temperature)),
		TopP:            genai.Ptr(float32(s.TopP)),
		TopK:            genai.Ptr(float32(s.TopK)),
		MaxOutputTokens: int32(s.MaxOutputTokens),
	}
}

// Generate sends a single-turn prompt and returns the text of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), c.config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("gemini http status %d: %s (%s)", apiErr.Code, apiErr.Message, apiErr.Status)
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", errors.New("gemini response missing candidates")
	}

	first := resp.Candidates[0]
	var b strings.Builder
	if first.Content != nil {
		for _, p := range first.Content.Parts {
			if p != nil && !p.Thought {
				b.WriteString(p.Text)
			}
		}
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyOutput
	}
	logUsage(c.model, first.FinishReason, resp.UsageMetadata)
	return text, nil
}

func logUsage(model string, finish genai.FinishReason, usage *genai.GenerateContentResponseUsageMetadata) {
	fields := map[string]any{
		"provider":      "gemini",
		"model":         model,
		"finish_reason": string(finish),
	}
	if usage != nil {
		fields["prompt_tokens"] = usage.PromptTokenCount
		fields["completion_tokens"] = usage.CandidatesTokenCount
		fields["total_tokens"] = usage.TotalTokenCount
	}
	telemetry.Info("llm.response", fields)
}
