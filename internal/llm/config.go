package llm

import (
	"fmt"
	"time"

	"linguaspeak/internal/config"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "anthropic", "mock"
	Provider string

	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig

	// Timeout bounds a single model call. Default: 30s.
	Timeout time.Duration
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-2.5-pro"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// ConfigFrom maps application settings onto provider configuration.
func ConfigFrom(ai config.AIConfig) Config {
	return Config{
		Provider: ai.Provider,
		Gemini: GeminiConfig{
			APIKey: ai.GeminiAPIKey,
			Model:  ai.GeminiModel,
		},
		OpenAI: OpenAIConfig{
			APIKey:  ai.OpenAIAPIKey,
			Model:   ai.OpenAIModel,
			BaseURL: ai.OpenAIBaseURL,
		},
		Anthropic: AnthropicConfig{
			APIKey: ai.AnthropicAPIKey,
			Model:  ai.AnthropicModel,
		},
		Timeout: ai.Timeout,
	}
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
