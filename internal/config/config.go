package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where the CLI looks for its config file, relative to the workspace.
const DefaultConfigPath = ".humanizer/config.yaml"

// Config holds all humanizer configuration.
type Config struct {
	// LLM configuration for the rewrite call
	LLM LLMConfig `yaml:"llm"`

	// Mangling pipeline tuning
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Persona table selection
	Personas PersonasConfig `yaml:"personas"`

	// Run journal
	Journal JournalConfig `yaml:"journal"`

	// Passage loading
	Ingest IngestConfig `yaml:"ingest"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// PipelineConfig tunes the mangling stages.
type PipelineConfig struct {
	MaxInputChars          int     `yaml:"max_input_chars" validate:"gt=0"`
	LongThreshold          int     `yaml:"long_threshold" validate:"gt=0"`
	ShortRunCap            int     `yaml:"short_run_cap" validate:"gte=0"`
	ShortSuffixProbability float64 `yaml:"short_suffix_probability" validate:"gte=0,lte=1"`
	ChunkMinWords          int     `yaml:"chunk_min_words" validate:"gt=0"`
	ChunkMaxWords          int     `yaml:"chunk_max_words" validate:"gtefield=ChunkMinWords"`
	RedundancyProbability  float64 `yaml:"redundancy_probability" validate:"gte=0,lte=1"`
	RedundancyMinWords     int     `yaml:"redundancy_min_words" validate:"gte=0"`
	FragmentProbability    float64 `yaml:"fragment_probability" validate:"gte=0,lte=1"`
	MaxFragments           int     `yaml:"max_fragments" validate:"gte=0"`
}

// PersonasConfig selects the persona table.
type PersonasConfig struct {
	// File is an optional YAML persona table; empty means the built-in table.
	File string `yaml:"file"`
	// Enabled restricts the table to these labels; empty means all.
	Enabled []string `yaml:"enabled"`
}

// JournalConfig configures the run journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true"`
}

// IngestConfig configures passage loading.
type IngestConfig struct {
	MaxConcurrency int `yaml:"max_concurrency" validate:"gte=1,lte=64"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       DefaultModels["openai"],
			BaseURL:     "https://api.openai.com/v1",
			Timeout:     "120s",
			Temperature: 0.85,
			MaxTokens:   1600,
		},

		Pipeline: PipelineConfig{
			MaxInputChars:          10000,
			LongThreshold:          20,
			ShortRunCap:            2,
			ShortSuffixProbability: 0.3,
			ChunkMinWords:          6,
			ChunkMaxWords:          12,
			RedundancyProbability:  0.15,
			RedundancyMinWords:     6,
			FragmentProbability:    0.18,
			MaxFragments:           5,
		},

		Journal: JournalConfig{
			Enabled: true,
			Path:    ".humanizer/journal.db",
		},

		Ingest: IngestConfig{
			MaxConcurrency: 4,
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Later keys win: OPENROUTER over OPENAI, GEMINI over both.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.switchProvider("openai")
	}
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.LLM.Provider != "openrouter" {
			c.switchProvider("openrouter")
			if c.LLM.BaseURL == "" || c.LLM.BaseURL == DefaultConfig().LLM.BaseURL {
				c.LLM.BaseURL = OpenRouterBaseURL
			}
		}
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.switchProvider("gemini")
	}

	if model := os.Getenv("HUMANIZER_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if path := os.Getenv("HUMANIZER_JOURNAL"); path != "" {
		c.Journal.Path = path
	}
}

// switchProvider changes the provider. A model left at a default follows the switch;
// one set explicitly is kept.
func (c *Config) switchProvider(provider string) {
	if c.LLM.Provider == provider {
		return
	}
	if IsDefaultModel(c.LLM.Model) {
		c.LLM.Model = DefaultModels[provider]
	}
	c.LLM.Provider = provider
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	return c.LLM.TimeoutDuration()
}
