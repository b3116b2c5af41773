package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyEnvToConfig_FillsUnsetOnly(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "env-tavily")
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT", "5")
	t.Setenv("RATE_WINDOW", "30s")

	cfg := Config{LLMModel: "flag-model"}
	ApplyEnvToConfig(&cfg)

	if cfg.TavilyAPIKey != "env-tavily" {
		t.Fatalf("tavily key = %q", cfg.TavilyAPIKey)
	}
	if cfg.LLMModel != "flag-model" {
		t.Fatalf("explicit value overwritten: %q", cfg.LLMModel)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("listen addr = %q", cfg.ListenAddr)
	}
	if cfg.RateLimit != 5 || cfg.RateWindow != 30*time.Second {
		t.Fatalf("rate config = %d/%v", cfg.RateLimit, cfg.RateWindow)
	}
}

func TestApplyEnvToConfig_OpenAIKeyFallback(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "oa-key")
	var cfg Config
	ApplyEnvToConfig(&cfg)
	if cfg.LLMAPIKey != "oa-key" {
		t.Fatalf("llm key = %q", cfg.LLMAPIKey)
	}
}

func TestLoadConfigFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
listen: ":8090"
tavily:
  key: file-tavily
llm:
  model: gpt-4o-mini
pipeline:
  targetProducts: 5
rateLimit:
  requests: 10
recheck:
  enable: true
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cfg := Config{ListenAddr: ":7000"}
	ApplyFileConfig(&cfg, fc)

	if cfg.ListenAddr != ":7000" {
		t.Fatalf("flag value overwritten: %q", cfg.ListenAddr)
	}
	if cfg.TavilyAPIKey != "file-tavily" || cfg.LLMModel != "gpt-4o-mini" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.TargetCount != 5 || cfg.RateLimit != 10 {
		t.Fatalf("numeric values: %+v", cfg)
	}
	if !cfg.RecheckEnabled {
		t.Fatalf("recheck not enabled")
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(Config{LLMModel: "m"}); err == nil {
		t.Fatalf("missing tavily key accepted")
	}
	if err := ValidateConfig(Config{TavilyAPIKey: "k"}); err == nil {
		t.Fatalf("missing model accepted")
	}
	if err := ValidateConfig(Config{TavilyAPIKey: "k", LLMModel: "m", TargetCount: -1}); err == nil {
		t.Fatalf("negative limit accepted")
	}
	if err := ValidateConfig(Config{TavilyAPIKey: "k", LLMModel: "m"}); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}
