// Package config loads service settings from .env, an optional config.yaml
// and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	HTTPAddress     string `mapstructure:"http_address" validate:"required"`
	LogLevel        string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat       string `mapstructure:"log_format" validate:"oneof=text json"`
	LLMProvider     string `mapstructure:"llm_provider" validate:"oneof=openai gemini"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key" validate:"required_if=LLMProvider openai"`
	OpenAIBaseURL   string `mapstructure:"openai_base_url" validate:"omitempty,url"`
	OpenAIModel     string `mapstructure:"openai_model" validate:"required_if=LLMProvider openai"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key" validate:"required_if=LLMProvider gemini"`
	GeminiModel     string `mapstructure:"gemini_model" validate:"required_if=LLMProvider gemini"`
	MaxOutputTokens int    `mapstructure:"max_output_tokens" validate:"gt=0"`
	PostgresConn    string `mapstructure:"postgres_conn"`
}

var defaults = map[string]any{
	"http_address":      ":8080",
	"log_level":         "info",
	"log_format":        "text",
	"llm_provider":      ProviderOpenAI,
	"openai_api_key":    "",
	"openai_base_url":   "https://api.openai.com/v1",
	"openai_model":      "gpt-5-mini-2025-08-07",
	"gemini_api_key":    "",
	"gemini_model":      "gemini-2.5-flash",
	"max_output_tokens": 2048,
	"postgres_conn":     "",
}

// Load reads the configuration. A missing .env or config.yaml is not an
// error.
func Load() (*Config, error) {
	const op = "config.Load"

	// .env only fills variables that are not already set.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%s: invalid configuration: %w", op, err)
	}

	return &cfg, nil
}

// ArchiveEnabled reports whether generated letters are stored.
func (c *Config) ArchiveEnabled() bool {
	return c.PostgresConn != ""
}
