// Package config loads service configuration from a YAML file and
// FORKFUL_-prefixed environment variables, with sane defaults for
// everything except secrets.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service.
type Config struct {
	Server ServerConfig
	HTTP   HTTPConfig
	AI     AIConfig
	Cache  CacheConfig
}

// ServerConfig holds the listening side.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// HTTPConfig holds the outbound page-fetching client settings.
type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// AIConfig holds the model-provider settings. An empty APIKey disables
// the AI extraction stage rather than failing startup.
type AIConfig struct {
	APIKey           string  `mapstructure:"api_key"`
	BaseURL          string  `mapstructure:"base_url"`
	Model            string  `mapstructure:"model"`
	MaxContentLength int     `mapstructure:"max_content_length"`
	Temperature      float32 `mapstructure:"temperature"`
	MaxTokens        int     `mapstructure:"max_tokens"`
}

// CacheConfig holds the on-disk cache settings. An empty Dir disables
// caching entirely.
type CacheConfig struct {
	Dir    string        `mapstructure:"dir"`
	MaxAge time.Duration `mapstructure:"max_age"`
}

// Load reads configuration from an optional config.yaml and the
// environment. Missing config files are fine; invalid values are not.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/forkful/")

	v.SetEnvPrefix("FORKFUL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("http.timeout", "10s")
	v.SetDefault("http.user_agent", "Mozilla/5.0 (compatible; ForkfulBot/1.0)")

	// Secrets and endpoints default to empty but still need registration:
	// viper only surfaces env-var values for keys it knows about.
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.max_content_length", 8000)
	v.SetDefault("ai.temperature", 0.1)
	v.SetDefault("ai.max_tokens", 1000)

	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.max_age", "24h")
}

func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}
	if config.HTTP.Timeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got: %s", config.HTTP.Timeout)
	}
	if config.AI.MaxContentLength <= 0 {
		return fmt.Errorf("ai max_content_length must be positive, got: %d", config.AI.MaxContentLength)
	}
	if config.AI.MaxTokens <= 0 {
		return fmt.Errorf("ai max_tokens must be positive, got: %d", config.AI.MaxTokens)
	}
	if config.AI.Temperature < 0 || config.AI.Temperature > 2 {
		return fmt.Errorf("ai temperature must be in [0, 2], got: %g", config.AI.Temperature)
	}
	if config.Cache.MaxAge < 0 {
		return fmt.Errorf("cache max_age must not be negative, got: %s", config.Cache.MaxAge)
	}
	return nil
}
