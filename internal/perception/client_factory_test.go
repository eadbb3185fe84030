package perception

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"humanizer/internal/config"
)

func TestNewClientFromConfig_Providers(t *testing.T) {
	cfg := config.DefaultConfig().LLM
	cfg.APIKey = "sk-openai-test"

	client, err := NewClientFromConfig(cfg)
	require.NoError(t, err)
	oc, ok := client.(*OpenAIClient)
	require.True(t, ok, "expected *OpenAIClient, got %T", client)
	assert.Equal(t, "https://api.openai.com/v1", oc.cfg.BaseURL)
	assert.Equal(t, 0.85, oc.cfg.Temperature)

	cfg.Provider = "openrouter"
	cfg.BaseURL = ""
	client, err = NewClientFromConfig(cfg)
	require.NoError(t, err)
	oc, ok = client.(*OpenAIClient)
	require.True(t, ok, "expected *OpenAIClient, got %T", client)
	assert.Equal(t, config.OpenRouterBaseURL, oc.cfg.BaseURL)
	assert.Equal(t, "humanizer", oc.cfg.Headers["X-Title"])

	cfg = config.DefaultConfig().LLM
	cfg.Provider = "gemini"
	cfg.APIKey = "gemini-key"
	cfg.Model = "gemini-2.5-pro"
	client, err = NewClientFromConfig(cfg)
	require.NoError(t, err)
	gc, ok := client.(*GeminiClient)
	require.True(t, ok, "expected *GeminiClient, got %T", client)
	assert.Equal(t, "gemini-2.5-pro", gc.GetModel())
	assert.Empty(t, gc.cfg.BaseURL, "OpenAI base URL must not leak into the gemini client")
}

func TestNewClientFromConfig_DefaultModelFollowsProvider(t *testing.T) {
	cfg := config.DefaultConfig().LLM
	cfg.Provider = "gemini"
	cfg.APIKey = "gemini-key"

	client, err := NewClientFromConfig(cfg)
	require.NoError(t, err)
	gc, ok := client.(*GeminiClient)
	require.True(t, ok, "expected *GeminiClient, got %T", client)
	assert.Equal(t, config.DefaultModels["gemini"], gc.GetModel())

	cfg = config.DefaultConfig().LLM
	cfg.Provider = "openrouter"
	cfg.APIKey = "or-key"
	client, err = NewClientFromConfig(cfg)
	require.NoError(t, err)
	oc, ok := client.(*OpenAIClient)
	require.True(t, ok, "expected *OpenAIClient, got %T", client)
	assert.Equal(t, "openai/gpt-4o", oc.cfg.Model)
}

func TestLoad_GeminiKeyOnly(t *testing.T) {
	for _, k := range []string{"OPENAI_API_KEY", "OPENROUTER_API_KEY", "HUMANIZER_MODEL", "HUMANIZER_JOURNAL"} {
		t.Setenv(k, "")
	}
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	client, err := NewClientFromConfig(cfg.LLM)
	require.NoError(t, err)
	gc, ok := client.(*GeminiClient)
	require.True(t, ok, "expected *GeminiClient, got %T", client)
	assert.Equal(t, "gemini-2.5-flash", gc.GetModel())
}

func TestNewClientFromConfig_Errors(t *testing.T) {
	cfg := config.DefaultConfig().LLM
	cfg.Provider = "zai"
	_, err := NewClientFromConfig(cfg)
	assert.Error(t, err)

	cfg.Provider = "gemini"
	cfg.APIKey = ""
	_, err = NewClientFromConfig(cfg)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGeminiClient_CompleteWithSystem(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Contains(t, r.URL.Path, ":generateContent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"  Rewritten by gemini. "}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	cfg := DefaultGeminiConfig("g-key")
	cfg.BaseURL = srv.URL + "/"
	client, err := NewGeminiClient(cfg)
	require.NoError(t, err)

	out, err := client.CompleteWithSystem(context.Background(), "be human", "rewrite this")
	require.NoError(t, err)
	assert.Equal(t, "Rewritten by gemini.", out)
	assert.Equal(t, 1, calls)
}
