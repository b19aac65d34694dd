package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"meetscan/internal/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MEETSCAN_LLM_API_KEY", "test-key")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Select.Author != "Tactiq" {
		t.Fatalf("unexpected default author: %q", cfg.Select.Author)
	}
	if len(cfg.Select.TagPrefixes) != 2 || cfg.Select.TagPrefixes[0] != "Meetings." {
		t.Fatalf("unexpected default tag prefixes: %v", cfg.Select.TagPrefixes)
	}
	if cfg.LLM.Mode != "openai" {
		t.Fatalf("unexpected default llm mode: %q", cfg.LLM.Mode)
	}
	if cfg.LLM.APIKey != "test-key" {
		t.Fatalf("expected API key from env, got %q", cfg.LLM.APIKey)
	}
	wantMeta := filepath.Join(tempHome, "Calibre Library", "metadata.db")
	if cfg.MetadataDBPath() != wantMeta {
		t.Fatalf("unexpected metadata path: got %q want %q", cfg.MetadataDBPath(), wantMeta)
	}
	wantDebug := filepath.Join(cfg.Reports.Dir, "debug")
	if cfg.Debug.Dir != wantDebug {
		t.Fatalf("unexpected debug dir: got %q want %q", cfg.Debug.Dir, wantDebug)
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := strings.Join([]string{
		`[library]`,
		`root = "~/travel-library"`,
		``,
		`[select]`,
		`author = ""`,
		`tag_prefixes = ["Standup.", "Standup.", " "]`,
		``,
		`[reports]`,
		`dir = "~/reports"`,
		``,
		`[llm]`,
		`mode = "none"`,
		``,
		`[logging]`,
		`format = "json"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Library.Root != filepath.Join(tempHome, "travel-library") {
		t.Fatalf("library root not expanded: %q", cfg.Library.Root)
	}
	if cfg.Select.Author != "" {
		t.Fatalf("expected author filter disabled, got %q", cfg.Select.Author)
	}
	if len(cfg.Select.TagPrefixes) != 1 || cfg.Select.TagPrefixes[0] != "Standup." {
		t.Fatalf("expected deduped prefixes, got %v", cfg.Select.TagPrefixes)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging format: %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsUnknownLLMMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[llm]\nmode = \"anthropic\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown llm mode")
	}
}

func TestLoadRequiresAPIKeyInOpenAIMode(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MEETSCAN_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[llm]\nmode = \"openai\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected missing key to be a configuration error")
	}
	if !strings.Contains(err.Error(), "llm.api_key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("MEETSCAN_LLM_API_KEY", "sample-key")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.LLM.MaxOutputTokens != 800 {
		t.Fatalf("unexpected sample output budget: %d", cfg.LLM.MaxOutputTokens)
	}
}
