package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Halo.StatusNew != 1 || cfg.Halo.StatusInProgress != 2 {
		t.Errorf("unexpected default status codes: new=%d in_progress=%d", cfg.Halo.StatusNew, cfg.Halo.StatusInProgress)
	}
	if cfg.Halo.DefaultCategoryID != 137 || cfg.Halo.DefaultAgentID != 3 || cfg.Halo.DefaultUserID != 125 {
		t.Errorf("unexpected vendor defaults: %+v", cfg.Halo)
	}
	if cfg.Halo.TokenSafetyMarginSeconds != 60 {
		t.Errorf("expected 60s token safety margin, got %d", cfg.Halo.TokenSafetyMarginSeconds)
	}
	if cfg.OpenAI.Model != "gpt-4" || cfg.OpenAI.MaxTokens != 500 || cfg.OpenAI.Temperature != 0.5 {
		t.Errorf("unexpected LLM defaults: %+v", cfg.OpenAI)
	}
	if cfg.OpenAI.MaxSummaryChars != 1000 || cfg.OpenAI.MaxDetailsChars != 3000 {
		t.Errorf("unexpected truncation budgets: %+v", cfg.OpenAI)
	}
	if cfg.Redis.KeyPrefix != "halo:ticket:" {
		t.Errorf("unexpected redis key prefix: %q", cfg.Redis.KeyPrefix)
	}
	if cfg.Halo.CategoryMatchCutoff != 0.3 {
		t.Errorf("unexpected category cutoff: %v", cfg.Halo.CategoryMatchCutoff)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HALO_BASE_URL", "http://127.0.0.1:8484")
	t.Setenv("HALO_STATUS_IN_PROGRESS", "5")
	t.Setenv("HALO_DEFAULT_AGENT_ID", "12")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("HALO_REQUEST_TIMEOUT_SECONDS", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Halo.BaseURL != "http://127.0.0.1:8484" {
		t.Errorf("unexpected base url: %q", cfg.Halo.BaseURL)
	}
	if cfg.Halo.StatusInProgress != 5 {
		t.Errorf("expected overridden status 5, got %d", cfg.Halo.StatusInProgress)
	}
	if cfg.Halo.DefaultAgentID != 12 {
		t.Errorf("expected overridden agent id 12, got %d", cfg.Halo.DefaultAgentID)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("expected overridden model, got %q", cfg.OpenAI.Model)
	}
	if cfg.Halo.RequestTimeout() != 10*time.Second {
		t.Errorf("unexpected request timeout: %v", cfg.Halo.RequestTimeout())
	}
}

func TestValidate_RequiresCredentials(t *testing.T) {
	t.Setenv("HALO_BASE_URL", "http://127.0.0.1:8484")
	t.Setenv("HALO_CLIENT_ID", "")
	t.Setenv("HALO_CLIENT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error without credentials")
	}

	t.Setenv("HALO_CLIENT_ID", "id")
	t.Setenv("HALO_CLIENT_SECRET", "secret")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestGetEnvAsInt_Invalid(t *testing.T) {
	t.Setenv("HALO_DEFAULT_AGENT_ID", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Halo.DefaultAgentID != 3 {
		t.Errorf("expected fallback 3 for unparsable int, got %d", cfg.Halo.DefaultAgentID)
	}
}
