package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxPublications != 2 {
		t.Fatalf("expected quota 2, got %d", cfg.MaxPublications)
	}
	if cfg.RetentionDays != 60 {
		t.Fatalf("expected retention 60, got %d", cfg.RetentionDays)
	}
	if cfg.HistoryFile != "pubblicati.json" || cfg.FeedsFile != "feeds.txt" || cfg.ErrorLogFile != "errori_log.txt" {
		t.Fatalf("unexpected file defaults: %+v", cfg)
	}
	if cfg.Temperature != 0.5 {
		t.Fatalf("expected temperature 0.5, got %v", cfg.Temperature)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Fatalf("unexpected request timeout %v", cfg.RequestTimeout)
	}
	if cfg.Model() != "gpt-3.5-turbo" {
		t.Fatalf("unexpected default model %q", cfg.Model())
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("MAX_PUBLICATIONS", "5")
	t.Setenv("MODELLO_OPENAI", "gpt-4o-mini")
	t.Setenv("HISTORY_STORE", " BBolt ")
	t.Setenv("GENERATOR_PROVIDER", "gemini")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-flash")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxPublications != 5 {
		t.Fatalf("expected quota 5, got %d", cfg.MaxPublications)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("expected MODELLO_OPENAI to set the model, got %q", cfg.OpenAIModel)
	}
	if cfg.HistoryStore != "bbolt" {
		t.Fatalf("expected normalized store type, got %q", cfg.HistoryStore)
	}
	if cfg.Model() != "gemini-2.5-flash" {
		t.Fatalf("expected gemini model, got %q", cfg.Model())
	}
}

func TestLoadRejectsNonPositiveQuota(t *testing.T) {
	t.Setenv("MAX_PUBLICATIONS", "0")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for zero quota")
	}
}

func TestValidateRequiresProviderKey(t *testing.T) {
	cfg := &Config{GeneratorProvider: ProviderOpenAI, StrapiAPIURL: "https://cms.example", StrapiAPIToken: "tok"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected missing openai key error")
	}
	cfg.OpenAIAPIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cfg.GeneratorProvider = "llama"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected unsupported provider error")
	}
}
