package config

import "time"

// OpenRouterBaseURL is the OpenAI-compatible endpoint used for the openrouter provider.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{"openai", "openrouter", "gemini"}

// DefaultModels is the model each provider uses when none was chosen for it.
var DefaultModels = map[string]string{
	"openai":     "gpt-4o",
	"openrouter": "openai/gpt-4o",
	"gemini":     "gemini-2.5-flash",
}

// IsDefaultModel reports whether model is empty or some provider's default, i.e.
// nobody picked it on purpose.
func IsDefaultModel(model string) bool {
	if model == "" {
		return true
	}
	for _, m := range DefaultModels {
		if m == model {
			return true
		}
	}
	return false
}

// LLMConfig configures the rewrite call.
type LLMConfig struct {
	Provider    string  `yaml:"provider" validate:"required,oneof=openai openrouter gemini"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model" validate:"required"`
	BaseURL     string  `yaml:"base_url" validate:"omitempty,url"`
	Timeout     string  `yaml:"timeout"`
	Temperature float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `yaml:"max_tokens" validate:"gt=0"`
}

// TimeoutDuration parses Timeout, falling back to 120s.
func (l LLMConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(l.Timeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}
