package perception

import (
	"fmt"

	"humanizer/internal/config"
)

// NewClientFromConfig creates the rewrite client for the configured provider.
func NewClientFromConfig(cfg config.LLMConfig) (LLMClient, error) {
	switch Provider(cfg.Provider) {
	case ProviderOpenAI, ProviderOpenRouter:
		oc := OpenAIConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Timeout:     cfg.TimeoutDuration(),
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}
		if config.IsDefaultModel(oc.Model) {
			oc.Model = config.DefaultModels[cfg.Provider]
		}
		if oc.BaseURL == "" {
			oc.BaseURL = DefaultOpenAIConfig("").BaseURL
			if Provider(cfg.Provider) == ProviderOpenRouter {
				oc.BaseURL = config.OpenRouterBaseURL
			}
		}
		if Provider(cfg.Provider) == ProviderOpenRouter {
			oc.Headers = map[string]string{"X-Title": "humanizer"}
		}
		return NewOpenAIClientWithConfig(oc), nil

	case ProviderGemini:
		gc := DefaultGeminiConfig(cfg.APIKey)
		if !config.IsDefaultModel(cfg.Model) {
			gc.Model = cfg.Model
		}
		// The OpenAI default base URL is meaningless for the GenAI SDK.
		if cfg.BaseURL != "" && cfg.BaseURL != config.DefaultConfig().LLM.BaseURL {
			gc.BaseURL = cfg.BaseURL
		}
		gc.Timeout = cfg.TimeoutDuration()
		gc.Temperature = cfg.Temperature
		gc.MaxTokens = cfg.MaxTokens
		return NewGeminiClient(gc)

	default:
		return nil, fmt.Errorf("unknown provider: %s (valid: %v)", cfg.Provider, config.ValidProviders)
	}
}
