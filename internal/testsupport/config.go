package testsupport

import (
	"path/filepath"
	"testing"

	"meetscan/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// LLM mode defaults to "none" so tests never reach for the network.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Library.Root = filepath.Join(base, "library")
	cfg.Library.MetadataDB = filepath.Join(base, "library", "metadata.db")
	cfg.Library.FulltextDB = filepath.Join(base, "library", "full-text-search.db")
	cfg.Reports.Dir = filepath.Join(base, "reports")
	cfg.Debug.Dir = filepath.Join(base, "reports", "debug")
	cfg.LLM.Mode = "none"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithLLM switches the config to openai mode pointed at the given endpoint.
func WithLLM(baseURL, model string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.LLM.Mode = "openai"
		cfg.LLM.APIKey = "test-key"
		cfg.LLM.BaseURL = baseURL
		cfg.LLM.Model = model
	}
}
