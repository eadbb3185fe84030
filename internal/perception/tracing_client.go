package perception

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"humanizer/internal/logging"
)

// Trace captures one rewrite call.
type Trace struct {
	ID          string
	SessionID   string
	SystemLen   int
	UserLen     int
	ResponseLen int
	Duration    time.Duration
	Success     bool
	Error       string
	Timestamp   time.Time
}

// TracingClient wraps any LLMClient, logs every call to the rewrite category
// under a request ID and keeps the most recent trace.
type TracingClient struct {
	underlying LLMClient

	mu        sync.RWMutex
	sessionID string
	last      *Trace
	calls     int
}

// NewTracingClient creates a tracing wrapper around an existing client.
func NewTracingClient(underlying LLMClient) *TracingClient {
	return &TracingClient{underlying: underlying}
}

// SetSession attributes subsequent traces to sessionID.
func (tc *TracingClient) SetSession(sessionID string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.sessionID = sessionID
}

// Complete implements LLMClient.Complete with tracing.
func (tc *TracingClient) Complete(ctx context.Context, prompt string) (string, error) {
	return tc.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem implements LLMClient.CompleteWithSystem with tracing.
func (tc *TracingClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	tc.mu.RLock()
	sessionID := tc.sessionID
	tc.mu.RUnlock()

	trace := &Trace{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		SystemLen: len(systemPrompt),
		UserLen:   len(userPrompt),
		Timestamp: time.Now(),
	}
	rl := logging.WithRequestID(logging.CategoryRewrite, trace.ID).WithField("session", sessionID)
	rl.Info("rewrite call started: prompt_len=%d", len(userPrompt))

	response, err := tc.underlying.CompleteWithSystem(ctx, systemPrompt, userPrompt)

	trace.Duration = time.Since(trace.Timestamp)
	trace.ResponseLen = len(response)
	trace.Success = err == nil
	if err != nil {
		trace.Error = err.Error()
		rl.Error("rewrite call failed after %v: %v", trace.Duration, err)
	} else {
		rl.Info("rewrite call completed in %v response_len=%d", trace.Duration, len(response))
	}

	tc.mu.Lock()
	tc.last = trace
	tc.calls++
	tc.mu.Unlock()

	return response, err
}

// LastTrace returns a copy of the most recent trace, or nil before the first call.
func (tc *TracingClient) LastTrace() *Trace {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	if tc.last == nil {
		return nil
	}
	t := *tc.last
	return &t
}

// Calls reports how many calls went through the wrapper.
func (tc *TracingClient) Calls() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.calls
}
