// Package extract turns meeting transcripts into categorized actionable items.
//
// Two interchangeable strategies implement the Extractor interface: a keyword
// heuristic that needs no external services, and an LLM-backed extractor that
// sends a bounded transcript window to an OpenAI-compatible endpoint. The
// strategy is fixed per run by the configured llm mode.
package extract

import (
	"context"
	"fmt"
	"log/slog"

	"meetscan/internal/config"
	"meetscan/internal/meetings"
	"meetscan/internal/services/llm"
	"meetscan/internal/transcript"
)

// Category classifies an extracted item.
type Category string

const (
	CategoryRisk  Category = "risk"
	CategoryIssue Category = "issue"
	CategoryTask  Category = "task"
	CategoryGrow  Category = "grow"
	CategoryGlow  Category = "glow"
)

// Categories lists all categories in their stable report order.
var Categories = []Category{CategoryRisk, CategoryIssue, CategoryTask, CategoryGrow, CategoryGlow}

// IDPrefix returns the log entry ID prefix for the category.
func (c Category) IDPrefix() string {
	switch c {
	case CategoryRisk:
		return "R-"
	case CategoryIssue:
		return "I-"
	case CategoryTask:
		return "T-"
	case CategoryGrow:
		return "G-"
	case CategoryGlow:
		return "GL-"
	}
	return ""
}

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	return c.IDPrefix() != ""
}

// ParseCategory maps a free-form string to a known category.
func ParseCategory(value string) (Category, bool) {
	c := Category(value)
	if c.Valid() {
		return c, true
	}
	return "", false
}

// Item is one actionable finding extracted from a single meeting transcript.
// Category and Description are always set; Person may be empty for
// team-scoped items.
type Item struct {
	Category    Category
	Description string
	Person      string
	Meeting     string
	Date        string
}

// Extractor produces items from one meeting occurrence and its transcript.
// An unavailable transcript yields zero items and no error.
type Extractor interface {
	Extract(ctx context.Context, occ meetings.Occurrence, tr transcript.Transcript) ([]Item, error)
	Name() string
}

// ForMode selects the extraction strategy for the configured llm mode. An
// unrecognized mode is a configuration error.
func ForMode(cfg *config.Config, logger *slog.Logger) (Extractor, error) {
	switch cfg.LLM.Mode {
	case "none":
		return NewHeuristic(logger), nil
	case "openai":
		client := llm.NewClient(llm.Config{
			APIKey:         cfg.LLM.APIKey,
			BaseURL:        cfg.LLM.BaseURL,
			Model:          cfg.LLM.Model,
			TimeoutSeconds: cfg.LLM.TimeoutSeconds,
		})
		return NewLLM(client, cfg, logger), nil
	default:
		return nil, fmt.Errorf("extract: unknown llm mode %q (expected \"none\" or \"openai\")", cfg.LLM.Mode)
	}
}
