package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("MONGO_URI", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LLM.APIKey != PlaceholderAPIKey {
		t.Fatalf("expected placeholder api key, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "gpt-4o" || cfg.LLM.MaxTokens != 4000 || cfg.LLM.Temperature != 0.7 {
		t.Fatalf("unexpected llm defaults: %+v", cfg.LLM)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("unexpected port: %d", cfg.Server.Port)
	}
	if !cfg.History.Enabled {
		t.Fatal("history should be enabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-live")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("LLM_BREAKER_THRESHOLD", "5")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("HISTORY_ENABLED", "false")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LLM.APIKey != "sk-live" || cfg.LLM.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected llm config: %+v", cfg.LLM)
	}
	if cfg.LLM.Timeout != 15*time.Second || cfg.LLM.BreakerThreshold != 5 {
		t.Fatalf("unexpected llm timing: %+v", cfg.LLM)
	}
	if cfg.Server.Port != 9090 || cfg.History.Enabled {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Mongo.Database != "pipelineai" {
		t.Fatalf("unexpected mongo db: %q", cfg.Mongo.Database)
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := &Config{
		Server: HTTPServerConfig{Host: "0.0.0.0", Port: 0},
		LLM:    DefaultLLMConfig(),
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for port 0")
	}
}

func TestValidateRejectsBadBaseURL(t *testing.T) {
	llm := DefaultLLMConfig()
	llm.BaseURL = "not a url"
	cfg := &Config{
		Server: HTTPServerConfig{Host: "0.0.0.0", Port: 8080},
		LLM:    llm,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for base url")
	}
}

func TestLoadLLMFlagOverridesEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := LoadLLM("sk-flag")
	if err != nil {
		t.Fatalf("load llm: %v", err)
	}
	if cfg.APIKey != "sk-flag" {
		t.Fatalf("expected flag key, got %q", cfg.APIKey)
	}

	cfg, err = LoadLLM("")
	if err != nil {
		t.Fatalf("load llm: %v", err)
	}
	if cfg.APIKey != "sk-env" {
		t.Fatalf("expected env key, got %q", cfg.APIKey)
	}
}
