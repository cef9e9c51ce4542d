package llm

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
		"STEPWISE_LLM_PROVIDER",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestConfigFromEnv_Explicit(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("STEPWISE_LLM_PROVIDER", "openai")
	t.Setenv("STEPWISE_LLM_OPENAI_API_KEY", "sk-test")
	t.Setenv("STEPWISE_LLM_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("STEPWISE_LLM_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("STEPWISE_LLM_TIMEOUT", "10s")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("provider = %q, want openai", cfg.Provider)
	}
	if cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.Model != "gpt-4.1-mini" {
		t.Errorf("openai config = %+v", cfg.OpenAI)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("retry attempts = %d, want 5", cfg.Retry.MaxAttempts)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("timeout = %s, want 10s", cfg.Timeout)
	}
	// Untouched fields keep their defaults.
	if cfg.Anthropic.Model != "claude-haiku" {
		t.Errorf("anthropic model = %q, want default", cfg.Anthropic.Model)
	}
	if cfg.Retry.Multiplier != 2.0 {
		t.Errorf("multiplier = %v, want 2.0", cfg.Retry.Multiplier)
	}
}

func TestConfigFromEnv_Discovers(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != ProviderGemini {
		t.Errorf("provider = %q, want gemini", cfg.Provider)
	}
	if cfg.Gemini.APIKey != "g-key" {
		t.Errorf("gemini key = %q, want g-key", cfg.Gemini.APIKey)
	}
}

func TestConfigFromEnv_Offline(t *testing.T) {
	clearProviderEnv(t)

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Configured() {
		t.Fatalf("expected no provider, got %q", cfg.Provider)
	}
}

func TestConfigFromEnv_BadValue(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("STEPWISE_LLM_TIMEOUT", "soon")

	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("expected parse error for bad duration")
	}
}

func TestNewProvider_NotConfigured(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{}, nil, nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: ProviderAnthropic}, nil, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != ProviderMock {
		t.Fatalf("name = %q, want mock", p.Name())
	}
}

func TestNewProvider_WrapsWithMiddleware(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenRouter
	cfg.OpenRouter.APIKey = "sk-or"

	p, err := NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*RetryProvider); !ok {
		t.Fatalf("expected *RetryProvider, got %T", p)
	}
	if p.Name() != ProviderOpenRouter {
		t.Fatalf("name = %q, want openrouter", p.Name())
	}
}
