package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cleanupEnv := func() {
		os.Unsetenv("FORKFUL_SERVER_PORT")
		os.Unsetenv("FORKFUL_SERVER_ENVIRONMENT")
		os.Unsetenv("FORKFUL_HTTP_TIMEOUT")
		os.Unsetenv("FORKFUL_HTTP_USER_AGENT")
		os.Unsetenv("FORKFUL_AI_API_KEY")
		os.Unsetenv("FORKFUL_AI_BASE_URL")
		os.Unsetenv("FORKFUL_AI_MODEL")
		os.Unsetenv("FORKFUL_AI_MAX_CONTENT_LENGTH")
		os.Unsetenv("FORKFUL_AI_MAX_TOKENS")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.HTTP.Timeout != 10*time.Second {
			t.Errorf("HTTP.Timeout = %v, want 10s", cfg.HTTP.Timeout)
		}
		if cfg.AI.Model != "gpt-4o-mini" {
			t.Errorf("AI.Model = %s, want gpt-4o-mini", cfg.AI.Model)
		}
		if cfg.AI.MaxContentLength != 8000 {
			t.Errorf("AI.MaxContentLength = %d, want 8000", cfg.AI.MaxContentLength)
		}
		if cfg.AI.MaxTokens != 1000 {
			t.Errorf("AI.MaxTokens = %d, want 1000", cfg.AI.MaxTokens)
		}
		if cfg.AI.APIKey != "" {
			t.Errorf("AI.APIKey = %s, want empty (AI disabled by default)", cfg.AI.APIKey)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FORKFUL_SERVER_PORT", "9090")
		os.Setenv("FORKFUL_SERVER_ENVIRONMENT", "production")
		os.Setenv("FORKFUL_HTTP_TIMEOUT", "30s")
		os.Setenv("FORKFUL_AI_API_KEY", "sk-test")
		os.Setenv("FORKFUL_AI_MODEL", "gpt-4o")
		os.Setenv("FORKFUL_AI_MAX_TOKENS", "2000")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.HTTP.Timeout != 30*time.Second {
			t.Errorf("HTTP.Timeout = %v, want 30s", cfg.HTTP.Timeout)
		}
		if cfg.AI.APIKey != "sk-test" {
			t.Errorf("AI.APIKey = %s, want sk-test", cfg.AI.APIKey)
		}
		if cfg.AI.Model != "gpt-4o" {
			t.Errorf("AI.Model = %s, want gpt-4o", cfg.AI.Model)
		}
		if cfg.AI.MaxTokens != 2000 {
			t.Errorf("AI.MaxTokens = %d, want 2000", cfg.AI.MaxTokens)
		}
	})

	t.Run("env-only AI credentials enable the extractor path", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FORKFUL_AI_API_KEY", "sk-env-only")
		os.Setenv("FORKFUL_AI_BASE_URL", "http://localhost:8081/v1")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.AI.APIKey != "sk-env-only" {
			t.Errorf("AI.APIKey = %q, want sk-env-only (no config file present)", cfg.AI.APIKey)
		}
		if cfg.AI.BaseURL != "http://localhost:8081/v1" {
			t.Errorf("AI.BaseURL = %q, want the env value", cfg.AI.BaseURL)
		}
	})

	t.Run("fails validation for non-positive timeout", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FORKFUL_HTTP_TIMEOUT", "0s")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for zero timeout")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080"},
			HTTP:   HTTPConfig{Timeout: 10 * time.Second},
			AI: AIConfig{
				Model:            "gpt-4o-mini",
				MaxContentLength: 8000,
				Temperature:      0.1,
				MaxTokens:        1000,
			},
		}
	}

	t.Run("accepts a complete configuration", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("accepts an empty API key", func(t *testing.T) {
		cfg := valid()
		cfg.AI.APIKey = ""
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil (AI is optional)", err)
		}
	})

	t.Run("fails for empty port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty port")
		}
	})

	t.Run("fails for out-of-range temperature", func(t *testing.T) {
		cfg := valid()
		cfg.AI.Temperature = 3
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for temperature 3")
		}
	})

	t.Run("fails for non-positive content length", func(t *testing.T) {
		cfg := valid()
		cfg.AI.MaxContentLength = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero content length")
		}
	})
}
