package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_BODY_LIMIT_MB",
		"LLM_PROVIDER", "LLM_TEMPERATURE", "LLM_TIMEOUT",
		"GEMINI_API_KEY", "API_KEY", "GEMINI_MODEL",
		"GIGACHAT_API_KEY", "GIGACHAT_SCOPE", "GIGACHAT_MODEL", "GIGACHAT_INSECURE_SKIP_VERIFY",
		"LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeout != 180*time.Second {
		t.Fatalf("expected default write timeout 180s, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Server.BodyLimit != 32*1024*1024 {
		t.Fatalf("expected default body limit 32MB, got %d", cfg.Server.BodyLimit)
	}
	if cfg.LLM.Provider != ProviderGemini {
		t.Fatalf("expected default provider %q, got %q", ProviderGemini, cfg.LLM.Provider)
	}
	if cfg.LLM.Temperature != 0.2 {
		t.Fatalf("expected default temperature 0.2, got %v", cfg.LLM.Temperature)
	}
	if cfg.LLM.CallTimeout != 120*time.Second {
		t.Fatalf("expected default call timeout 120s, got %v", cfg.LLM.CallTimeout)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Fatalf("expected default gemini model, got %q", cfg.Gemini.Model)
	}
	if cfg.GigaChat.Scope != "GIGACHAT_API_PERS" {
		t.Fatalf("expected default gigachat scope, got %q", cfg.GigaChat.Scope)
	}
	if !cfg.GigaChat.InsecureSkipVerify {
		t.Fatalf("expected insecure skip verify enabled by default")
	}
	if cfg.Logger.Level != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.Logger.Level)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_WRITE_TIMEOUT", "60")
	t.Setenv("SERVER_BODY_LIMIT_MB", "30")
	t.Setenv("LLM_PROVIDER", "gigachat")
	t.Setenv("LLM_TEMPERATURE", "0.7")
	t.Setenv("LLM_TIMEOUT", "45")
	t.Setenv("GIGACHAT_INSECURE_SKIP_VERIFY", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port override, got %q", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeout != 60*time.Second {
		t.Fatalf("expected write timeout 60s, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Server.BodyLimit != 30*1024*1024 {
		t.Fatalf("expected body limit 30MB, got %d", cfg.Server.BodyLimit)
	}
	if cfg.LLM.Provider != ProviderGigaChat {
		t.Fatalf("expected provider gigachat, got %q", cfg.LLM.Provider)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Fatalf("expected temperature 0.7, got %v", cfg.LLM.Temperature)
	}
	if cfg.LLM.CallTimeout != 45*time.Second {
		t.Fatalf("expected call timeout 45s, got %v", cfg.LLM.CallTimeout)
	}
	if cfg.GigaChat.InsecureSkipVerify {
		t.Fatalf("expected insecure skip verify disabled")
	}
}

func TestLoadGeminiKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "fallback-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gemini.APIKey != "fallback-key" {
		t.Fatalf("expected API_KEY fallback, got %q", cfg.Gemini.APIKey)
	}

	t.Setenv("GEMINI_API_KEY", "primary-key")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gemini.APIKey != "primary-key" {
		t.Fatalf("expected GEMINI_API_KEY to win, got %q", cfg.Gemini.APIKey)
	}
}
