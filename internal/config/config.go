package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is only acceptable outside production
const DefaultJWTSecret = "your-secret-key"

var ErrInsecureSecret = errors.New("JWT_SECRET must be set in production")

// Config holds application configuration
type Config struct {
	Env            string
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	JWTSecret string
	TokenTTL  time.Duration

	AI AIConfig

	RateLimit       int
	RateLimitWindow time.Duration

	SESRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string
}

// AIConfig selects and configures the language model used for corrections
type AIConfig struct {
	Provider string
	Timeout  time.Duration

	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	AnthropicModel  string
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from .env, an optional config file and environment
// variables, in increasing order of precedence.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	cfg := &Config{
		Env:            v.GetString("app_env"),
		ServerPort:     v.GetString("port"),
		DatabaseType:   v.GetString("db_type"),
		DatabasePath:   v.GetString("db_path"),
		DatabaseURL:    v.GetString("database_url"),
		MigrationsPath: v.GetString("migrations_path"),

		JWTSecret: v.GetString("jwt_secret"),
		TokenTTL:  v.GetDuration("token_ttl"),

		AI: AIConfig{
			Provider:        strings.ToLower(v.GetString("ai_provider")),
			Timeout:         v.GetDuration("ai_timeout"),
			GeminiAPIKey:    v.GetString("gemini_api_key"),
			GeminiModel:     v.GetString("gemini_model"),
			OpenAIAPIKey:    v.GetString("openai_api_key"),
			OpenAIModel:     v.GetString("openai_model"),
			OpenAIBaseURL:   v.GetString("openai_base_url"),
			AnthropicAPIKey: v.GetString("anthropic_api_key"),
			AnthropicModel:  v.GetString("anthropic_model"),
		},

		RateLimit:       v.GetInt("rate_limit"),
		RateLimitWindow: v.GetDuration("rate_limit_window"),

		SESRegion:    v.GetString("ses_region"),
		SESFromEmail: v.GetString("ses_from_email"),
		SESFromName:  v.GetString("ses_from_name"),
		AppBaseURL:   v.GetString("app_base_url"),
	}

	if cfg.IsProduction() && cfg.JWTSecret == DefaultJWTSecret {
		return nil, ErrInsecureSecret
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("port", "3000")
	v.SetDefault("db_type", "sqlite")
	v.SetDefault("db_path", "./linguaspeak.db")
	v.SetDefault("database_url", "")
	v.SetDefault("migrations_path", "./migrations")

	v.SetDefault("jwt_secret", DefaultJWTSecret)
	v.SetDefault("token_ttl", 7*24*time.Hour)

	v.SetDefault("ai_provider", "gemini")
	v.SetDefault("ai_timeout", 30*time.Second)
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-2.5-pro")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("anthropic_model", "claude-haiku")

	v.SetDefault("rate_limit", 10)
	v.SetDefault("rate_limit_window", time.Minute)

	v.SetDefault("ses_region", "us-east-1")
	v.SetDefault("ses_from_email", "")
	v.SetDefault("ses_from_name", "LinguaSpeak")
	v.SetDefault("app_base_url", "http://localhost:3000")
}
