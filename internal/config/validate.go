package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	vOnce sync.Once
	v     *validator.Validate
)

func getValidator() *validator.Validate {
	vOnce.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
	})
	return v
}

// Validate checks field ranges and cross-field constraints.
// It does not require an API key; see RequireAPIKey.
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RequireAPIKey reports an error when no key is configured for the provider.
func (c *Config) RequireAPIKey() error {
	if c.LLM.APIKey != "" {
		return nil
	}
	return fmt.Errorf("LLM API key not configured for provider %s (set OPENAI_API_KEY, OPENROUTER_API_KEY or GEMINI_API_KEY, or llm.api_key)", c.LLM.Provider)
}
