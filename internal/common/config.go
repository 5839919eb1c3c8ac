package common

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Extract ExtractConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr        string
	MaxUploadMB int
}

// LLMConfig holds generative-model configuration
type LLMConfig struct {
	APIKey        string
	Model         string
	FallbackModel string
	Timeout       time.Duration
	MaxRetries    int
}

// ExtractConfig holds per-document processing configuration
type ExtractConfig struct {
	MaxTextChars int
	Concurrency  int
}

// LoadConfig loads configuration from environment variables (and an optional
// config file path) via viper.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("max_upload_mb", 32)
	v.SetDefault("gemini_model", "gemini-2.0-flash-lite")
	v.SetDefault("gemini_fallback_model", "gemini-1.5-flash")
	v.SetDefault("gemini_timeout", 45*time.Second)
	v.SetDefault("gemini_max_retries", 2)
	v.SetDefault("max_text_chars", 10000)
	v.SetDefault("concurrency", 1)

	v.AutomaticEnv()
	// The secret comes from the environment, never from a config file.
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("http_addr", "HTTP_ADDR")
	_ = v.BindEnv("max_upload_mb", "MAX_UPLOAD_MB")
	_ = v.BindEnv("gemini_model", "GEMINI_MODEL")
	_ = v.BindEnv("gemini_fallback_model", "GEMINI_FALLBACK_MODEL")
	_ = v.BindEnv("gemini_timeout", "GEMINI_TIMEOUT")
	_ = v.BindEnv("gemini_max_retries", "GEMINI_MAX_RETRIES")
	_ = v.BindEnv("max_text_chars", "MAX_TEXT_CHARS")
	_ = v.BindEnv("concurrency", "CONCURRENCY")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return &Config{
		Server: ServerConfig{
			Addr:        v.GetString("http_addr"),
			MaxUploadMB: v.GetInt("max_upload_mb"),
		},
		LLM: LLMConfig{
			APIKey:        v.GetString("gemini_api_key"),
			Model:         v.GetString("gemini_model"),
			FallbackModel: v.GetString("gemini_fallback_model"),
			Timeout:       v.GetDuration("gemini_timeout"),
			MaxRetries:    v.GetInt("gemini_max_retries"),
		},
		Extract: ExtractConfig{
			MaxTextChars: v.GetInt("max_text_chars"),
			Concurrency:  v.GetInt("concurrency"),
		},
	}, nil
}

// Validate validates the loaded configuration. A missing API key is reported
// once at startup and blocks all processing.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError(CodeConfig, "GEMINI_API_KEY is required; set it in the environment or a .env file", ErrInvalidInput)
	}
	if c.LLM.Model == "" {
		return NewAppError(CodeConfig, "GEMINI_MODEL must not be empty", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError(CodeConfig, "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Extract.Concurrency < 1 {
		return NewAppError(CodeConfig, "CONCURRENCY must be at least 1", ErrInvalidInput)
	}
	return nil
}
