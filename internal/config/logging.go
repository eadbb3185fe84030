package config

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	DebugMode  bool            `yaml:"debug_mode"`  // Master toggle - false = no log files
	JSONFormat bool            `yaml:"json_format"` // One JSON object per line
	Categories map[string]bool `yaml:"categories"`  // Per-category toggles
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Returns false if debug_mode is false.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}
