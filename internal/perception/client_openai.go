package perception

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"humanizer/internal/logging"
)

// OpenAIClient implements LLMClient for OpenAI-compatible chat-completions APIs.
// Each call is a single request: there is no retry loop.
type OpenAIClient struct {
	cfg        OpenAIConfig
	httpClient *http.Client
}

// DefaultOpenAIConfig returns the rewrite defaults: gpt-4o, temperature 0.85, 1600 tokens.
func DefaultOpenAIConfig(apiKey string) OpenAIConfig {
	return OpenAIConfig{
		APIKey:      apiKey,
		BaseURL:     "https://api.openai.com/v1",
		Model:       "gpt-4o",
		Timeout:     120 * time.Second,
		Temperature: 0.85,
		MaxTokens:   1600,
	}
}

// NewOpenAIClient creates a new OpenAI client with default config.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return NewOpenAIClientWithConfig(DefaultOpenAIConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom config.
func NewOpenAIClientWithConfig(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &OpenAIClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Complete sends a prompt and returns the completion.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a system and a user message and returns the trimmed reply.
func (c *OpenAIClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	logging.RewriteDebug("[OpenAI] CompleteWithSystem: model=%s system_len=%d user_len=%d", c.cfg.Model, len(systemPrompt), len(userPrompt))

	if c.cfg.APIKey == "" {
		return "", ErrNoAPIKey
	}

	messages := make([]OpenAIMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, OpenAIMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, OpenAIMessage{Role: "user", Content: userPrompt})

	jsonData, err := json.Marshal(OpenAIRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.RewriteError("[OpenAI] request failed after %v: %v", time.Since(startTime), err)
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		logging.RewriteError("[OpenAI] rate limited: %s", strings.TrimSpace(string(body)))
		return "", ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var openaiResp OpenAIResponse
	if err := json.Unmarshal(body, &openaiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if openaiResp.Error != nil {
		return "", fmt.Errorf("API error: %s", openaiResp.Error.Message)
	}
	if len(openaiResp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	choice := openaiResp.Choices[0]
	if choice.FinishReason == "length" {
		logging.Rewrite("[OpenAI] completion hit max_tokens=%d", c.cfg.MaxTokens)
	}
	response := strings.TrimSpace(choice.Message.Content)
	logging.Rewrite("[OpenAI] CompleteWithSystem: completed in %v response_len=%d tokens=%d", time.Since(startTime), len(response), openaiResp.Usage.TotalTokens)
	return response, nil
}

// SetModel changes the model used for completions.
func (c *OpenAIClient) SetModel(model string) {
	c.cfg.Model = model
}

// GetModel returns the current model.
func (c *OpenAIClient) GetModel() string {
	return c.cfg.Model
}
