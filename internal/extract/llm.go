package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"meetscan/internal/config"
	"meetscan/internal/logging"
	"meetscan/internal/meetings"
	"meetscan/internal/services/llm"
	"meetscan/internal/textutil"
	"meetscan/internal/transcript"
)

const llmTemperature = 0.2

// Completer is the completion surface the LLM extractor needs. Satisfied by
// *llm.Client.
type Completer interface {
	CompleteJSON(ctx context.Context, req llm.Request) (llm.Completion, error)
}

// LLM extracts items by sending a bounded transcript window to an
// OpenAI-compatible endpoint and parsing the structured JSON reply.
type LLM struct {
	client        Completer
	maxInputChars int
	maxTokens     int
	focusMarker   string
	capture       bool
	titleFilter   string
	captureDir    string
	logger        *slog.Logger
}

// NewLLM creates the LLM-backed extractor from the runtime configuration.
func NewLLM(client Completer, cfg *config.Config, logger *slog.Logger) *LLM {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LLM{
		client:        client,
		maxInputChars: cfg.LLM.MaxInputChars,
		maxTokens:     cfg.LLM.MaxOutputTokens,
		focusMarker:   cfg.LLM.FocusMarker,
		capture:       cfg.Debug.Capture,
		titleFilter:   cfg.Debug.TitleFilter,
		captureDir:    cfg.Debug.Dir,
		logger:        logging.NewComponentLogger(logger, "llm-extract"),
	}
}

func (l *LLM) Name() string { return "llm" }

type llmPayload struct {
	Items []struct {
		Category    string `json:"category"`
		Description string `json:"description"`
		Person      string `json:"person"`
	} `json:"items"`
}

// Extract sends one completion request for the occurrence. Truncated output
// is surfaced as an actionable warning rather than an error; API failures
// are returned to the caller, which degrades the meeting to zero items.
func (l *LLM) Extract(ctx context.Context, occ meetings.Occurrence, tr transcript.Transcript) ([]Item, error) {
	if !tr.Available() {
		return nil, nil
	}

	window := promptWindow(tr.Text, l.focusMarker, l.maxInputChars)
	if len(window) < len(tr.Text) {
		l.logger.Debug("transcript bounded for completion",
			logging.String(logging.FieldMeeting, occ.Title),
			logging.Int("transcript_chars", len(tr.Text)),
			logging.Int("window_chars", len(window)),
		)
	}

	completion, err := l.client.CompleteJSON(ctx, llm.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   buildUserPrompt(occ.Title, occ.DateString(), window),
		MaxTokens:    l.maxTokens,
		Temperature:  llmTemperature,
	})
	l.writeCapture(occ, completion)

	truncated := errors.Is(err, llm.ErrTruncated)
	if err != nil && !truncated {
		return nil, fmt.Errorf("llm extract %q: %w", occ.Title, err)
	}
	if truncated {
		l.logger.Warn("completion truncated by output budget, raise llm.max_output_tokens",
			logging.String(logging.FieldMeeting, occ.Title),
			logging.Int("max_output_tokens", l.maxTokens),
		)
	}

	var payload llmPayload
	if err := llm.DecodeJSON(completion.Content, &payload); err != nil {
		if truncated {
			// Partial JSON from a truncated reply is expected; the meeting
			// degrades to zero items for this run.
			return nil, nil
		}
		return nil, fmt.Errorf("llm extract %q: parse payload: %w", occ.Title, err)
	}

	var items []Item
	var skippedUnknownCategory, skippedMissingDescription int
	for _, raw := range payload.Items {
		category, ok := ParseCategory(strings.ToLower(strings.TrimSpace(raw.Category)))
		if !ok {
			skippedUnknownCategory++
			continue
		}
		description := textutil.CollapseWhitespace(raw.Description)
		if description == "" {
			skippedMissingDescription++
			continue
		}
		items = append(items, Item{
			Category:    category,
			Description: description,
			Person:      CanonicalPerson(raw.Person),
			Meeting:     occ.Title,
			Date:        occ.DateString(),
		})
	}
	l.logger.Debug("llm payload parsed",
		logging.String(logging.FieldMeeting, occ.Title),
		logging.Int("accepted", len(items)),
		logging.Int("skipped_unknown_category", skippedUnknownCategory),
		logging.Int("skipped_missing_description", skippedMissingDescription),
	)
	return items, nil
}

func (l *LLM) shouldCapture(title string) bool {
	if !l.capture || l.captureDir == "" {
		return false
	}
	if l.titleFilter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(l.titleFilter))
}

// writeCapture persists the request and response payloads for one meeting.
// Capture failures are logged and never fail the extraction.
func (l *LLM) writeCapture(occ meetings.Occurrence, completion llm.Completion) {
	if !l.shouldCapture(occ.Title) {
		return
	}
	if err := os.MkdirAll(l.captureDir, 0o755); err != nil {
		l.logger.Warn("debug capture directory unavailable", logging.Error(err))
		return
	}
	base := fmt.Sprintf("%s-%s", textutil.SanitizeToken(occ.Title), uuid.NewString()[:8])
	artifacts := map[string][]byte{
		base + "-request.json":  completion.RequestBody,
		base + "-response.json": completion.ResponseBody,
	}
	for name, body := range artifacts {
		if len(body) == 0 {
			continue
		}
		path := filepath.Join(l.captureDir, name)
		if err := os.WriteFile(path, body, 0o644); err != nil {
			l.logger.Warn("debug capture write failed",
				logging.String("path", path),
				logging.Error(err),
			)
			continue
		}
		l.logger.Debug("debug capture written",
			logging.String(logging.FieldMeeting, occ.Title),
			logging.String("path", path),
		)
	}
}
