package perception

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"humanizer/internal/logging"
)

// GeminiClient implements LLMClient on top of the Google GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	cfg    GeminiConfig
}

// DefaultGeminiConfig returns sensible defaults for rewriting.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:      apiKey,
		Model:       "gemini-2.5-flash",
		Timeout:     120 * time.Second,
		Temperature: 0.85,
		MaxTokens:   1600,
	}
}

// NewGeminiClient creates a Gemini client. No request is made until the first call.
func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrNoAPIKey)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, cfg: cfg}, nil
}

// Complete sends a prompt and returns the completion.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends the user prompt with the system prompt as system instruction.
func (c *GeminiClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	logging.RewriteDebug("[Gemini] CompleteWithSystem: model=%s system_len=%d user_len=%d", c.cfg.Model, len(systemPrompt), len(userPrompt))

	gc := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.cfg.Temperature)),
		MaxOutputTokens: int32(c.cfg.MaxTokens),
	}
	if systemPrompt != "" {
		gc.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model,
		[]*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}, gc)
	if err != nil {
		logging.RewriteError("[Gemini] request failed after %v: %v", time.Since(startTime), err)
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	logging.Rewrite("[Gemini] CompleteWithSystem: completed in %v response_len=%d", time.Since(startTime), len(text))
	return text, nil
}

// SetModel changes the model used for completions.
func (c *GeminiClient) SetModel(model string) {
	c.cfg.Model = model
}

// GetModel returns the current model.
func (c *GeminiClient) GetModel() string {
	return c.cfg.Model
}
