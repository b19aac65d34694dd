package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"meetscan/internal/testsupport"
)

func seedBooks() []testsupport.SeedBook {
	return []testsupport.SeedBook{{
		ID:     1,
		Title:  "Weekly Sync",
		Path:   "Tactiq/Weekly Sync (1)",
		Author: "Tactiq",
		Tags:   []string{"Meetings.2025-11-25"},
		Text:   "Alice: The launch is at risk of slipping past Friday.",
	}}
}

func TestProcessCommandWritesRiskLog(t *testing.T) {
	env := setupCLITestEnv(t, seedBooks())

	out, stderr, err := runCLI(t, []string{
		"process", "--start", "2025-11-25", "--end", "2025-11-25",
	}, env.configPath)
	if err != nil {
		t.Fatalf("process: %v (stderr: %s)", err, stderr)
	}
	requireContains(t, out, "Meetings scanned")
	requireContains(t, out, "1")

	body, err := os.ReadFile(filepath.Join(env.cfg.Reports.Dir, "risks.md"))
	if err != nil {
		t.Fatalf("expected risks log: %v", err)
	}
	if !strings.Contains(string(body), "R-0001") {
		t.Fatalf("risks log missing entry:\n%s", body)
	}
}

func TestProcessCommandDryRun(t *testing.T) {
	env := setupCLITestEnv(t, seedBooks())

	_, stderr, err := runCLI(t, []string{
		"process", "--start", "2025-11-25", "--end", "2025-11-25", "--dry-run",
	}, env.configPath)
	if err != nil {
		t.Fatalf("process --dry-run: %v (stderr: %s)", err, stderr)
	}

	if _, err := os.Stat(filepath.Join(env.cfg.Reports.Dir, "risks.md")); !os.IsNotExist(err) {
		t.Fatal("dry run must not write the risks log")
	}
}

func TestProcessCommandRejectsInvalidWindow(t *testing.T) {
	env := setupCLITestEnv(t, seedBooks())

	_, _, err := runCLI(t, []string{
		"process", "--start", "2025-11-30", "--end", "2025-11-25",
	}, env.configPath)
	if err == nil {
		t.Fatal("expected error for inverted window")
	}
}

func TestProcessCommandRejectsUnknownMode(t *testing.T) {
	env := setupCLITestEnv(t, seedBooks())

	_, _, err := runCLI(t, []string{
		"process", "--llm", "gemini",
	}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown extraction mode")
	}
}

func TestProcessCommandOpenAIModeRequiresKey(t *testing.T) {
	env := setupCLITestEnv(t, seedBooks())
	t.Setenv("MEETSCAN_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	_, _, err := runCLI(t, []string{
		"process", "--llm", "openai",
	}, env.configPath)
	if err == nil {
		t.Fatal("expected error for openai mode without credential")
	}
	if !strings.Contains(err.Error(), "api_key") {
		t.Fatalf("expected api_key in error, got %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected error without --overwrite")
	}
}

func TestConfigShow(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "select.author")
	requireContains(t, out, "Tactiq")
}

func TestDepsCommand(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	out, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	requireContains(t, out, "pdftotext")
	requireContains(t, out, "pandoc")
}
