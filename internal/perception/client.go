// Package perception holds the rewrite collaborators: chat-completion clients that
// turn an assembled prompt into rewritten prose.
package perception

import (
	"context"
	"errors"
	"fmt"
)

// LLMClient defines the interface for LLM providers.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

var (
	// ErrNoAPIKey is returned before any request is made when no key is configured.
	ErrNoAPIKey = errors.New("API key not configured")
	// ErrRateLimited maps an HTTP 429 from the provider.
	ErrRateLimited = errors.New("rate limit exceeded (429)")
	// ErrEmptyResponse is returned when the provider answers without any completion.
	ErrEmptyResponse = errors.New("no completion returned")
)

// StatusError is a non-200 response from a provider.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, body)
}
