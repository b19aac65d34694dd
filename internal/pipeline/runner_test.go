package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"meetscan/internal/config"
	"meetscan/internal/extract"
	"meetscan/internal/library"
	"meetscan/internal/meetings"
	"meetscan/internal/report"
	"meetscan/internal/testsupport"
	"meetscan/internal/transcript"
)

func seededRunner(t *testing.T, books []testsupport.SeedBook) (*Runner, *config.Config, *report.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	testsupport.SeedLibrary(t, cfg, books)

	lib, err := library.Open(cfg.Library.Root, cfg.MetadataDBPath(), cfg.FulltextDBPath())
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	t.Cleanup(func() { lib.Close() })

	reports, err := report.NewStore(cfg.Reports.Dir, nil)
	if err != nil {
		t.Fatalf("open report store: %v", err)
	}

	resolver := transcript.NewResolver(lib, nil, nil)
	runner := NewRunner(lib, resolver, extract.NewHeuristic(nil), reports, nil)
	return runner, cfg, reports
}

func mustWindow(t *testing.T, start, end string) meetings.Window {
	t.Helper()
	window, err := meetings.ParseWindow(start, end)
	if err != nil {
		t.Fatalf("ParseWindow(%q, %q): %v", start, end, err)
	}
	return window
}

func defaultOptions(t *testing.T) Options {
	return Options{
		Window:      mustWindow(t, "2025-11-25", "2025-11-25"),
		Author:      "Tactiq",
		TagPrefixes: []string{"Meetings.", "Meeting."},
	}
}

func TestRunSingleMeetingProducesRiskEntry(t *testing.T) {
	books := []testsupport.SeedBook{{
		ID:     1,
		Title:  "Weekly Sync",
		Path:   "Tactiq/Weekly Sync (1)",
		Author: "Tactiq",
		Tags:   []string{"Meetings.2025-11-25"},
		Text:   "Alice: The launch is at risk of slipping past Friday.",
	}}
	runner, _, reports := seededRunner(t, books)

	summary, err := runner.Run(context.Background(), defaultOptions(t))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Scanned != 1 || summary.Skipped != 0 {
		t.Fatalf("expected 1 scanned / 0 skipped, got %d/%d", summary.Scanned, summary.Skipped)
	}
	if summary.Extracted[extract.CategoryRisk] != 1 || summary.NewEntries != 1 || summary.Repeats != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	risks, err := reports.Entries(extract.CategoryRisk)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(risks) != 1 {
		t.Fatalf("expected 1 risk entry, got %d", len(risks))
	}
	if risks[0].ID != "R-0001" || risks[0].Incidents != 1 || risks[0].Person != "Alice" {
		t.Fatalf("unexpected entry %+v", risks[0])
	}

	records, err := reports.RunRecords()
	if err != nil {
		t.Fatalf("RunRecords: %v", err)
	}
	if len(records) != 1 || records[0].Scanned != 1 || records[0].New != 1 {
		t.Fatalf("unexpected run history %+v", records)
	}
	if records[0].Extracted[extract.CategoryRisk] != 1 || records[0].Extracted[extract.CategoryGlow] != 0 {
		t.Fatalf("per-category history counts wrong: %+v", records[0].Extracted)
	}
	if records[0].RunID != summary.RunID {
		t.Fatalf("history run id %q does not match summary %q", records[0].RunID, summary.RunID)
	}
}

func TestRunIdempotentRerunIncrementsIncidents(t *testing.T) {
	books := []testsupport.SeedBook{{
		ID:     1,
		Title:  "Weekly Sync",
		Path:   "Tactiq/Weekly Sync (1)",
		Author: "Tactiq",
		Tags:   []string{"Meetings.2025-11-25"},
		Text:   "Alice: The launch is at risk of slipping past Friday.",
	}}
	runner, _, reports := seededRunner(t, books)
	opts := defaultOptions(t)

	if _, err := runner.Run(context.Background(), opts); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := runner.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.NewEntries != 0 || second.Repeats != 1 {
		t.Fatalf("expected rerun to increment, got %+v", second)
	}

	risks, _ := reports.Entries(extract.CategoryRisk)
	if len(risks) != 1 {
		t.Fatalf("rerun must not duplicate rows, got %d", len(risks))
	}
	if risks[0].ID != "R-0001" || risks[0].Incidents != 2 {
		t.Fatalf("expected R-0001 with 2 incidents, got %+v", risks[0])
	}

	records, _ := reports.RunRecords()
	if len(records) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(records))
	}
	if records[0].RunID == records[1].RunID {
		t.Error("run ids must differ per invocation")
	}
}

func TestRunMissingTranscriptIsSkippedNotFatal(t *testing.T) {
	books := []testsupport.SeedBook{
		{
			ID:     1,
			Title:  "Silent Meeting",
			Path:   "Tactiq/Silent Meeting (1)",
			Author: "Tactiq",
			Tags:   []string{"Meetings.2025-11-25"},
		},
		{
			ID:     2,
			Title:  "Weekly Sync",
			Path:   "Tactiq/Weekly Sync (2)",
			Author: "Tactiq",
			Tags:   []string{"Meetings.2025-11-25"},
			Text:   "Bob: Great job on the rollout.",
		},
	}
	runner, _, reports := seededRunner(t, books)

	summary, err := runner.Run(context.Background(), defaultOptions(t))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Scanned != 2 || summary.Skipped != 1 {
		t.Fatalf("expected 2 scanned / 1 skipped, got %d/%d", summary.Scanned, summary.Skipped)
	}
	if summary.SkipReasons[SkipNoTranscript] != 1 {
		t.Fatalf("unexpected skip reasons %+v", summary.SkipReasons)
	}

	glows, _ := reports.Entries(extract.CategoryGlow)
	if len(glows) != 1 {
		t.Fatalf("expected the available meeting to merge, got %d glow entries", len(glows))
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	books := []testsupport.SeedBook{{
		ID:     1,
		Title:  "Weekly Sync",
		Path:   "Tactiq/Weekly Sync (1)",
		Author: "Tactiq",
		Tags:   []string{"Meetings.2025-11-25"},
		Text:   "Alice: The launch is at risk of slipping.",
	}}
	runner, cfg, _ := seededRunner(t, books)
	opts := defaultOptions(t)
	opts.DryRun = true

	summary, err := runner.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.NewEntries != 1 {
		t.Fatalf("expected dry run to report 1 new entry, got %d", summary.NewEntries)
	}

	entries, err := os.ReadDir(cfg.Reports.Dir)
	if err != nil {
		t.Fatalf("read reports dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".md") {
			t.Fatalf("dry run must not write report files, found %s", entry.Name())
		}
	}
}

func TestRunWindowExcludesOtherDates(t *testing.T) {
	books := []testsupport.SeedBook{{
		ID:     1,
		Title:  "Old Meeting",
		Path:   "Tactiq/Old Meeting (1)",
		Author: "Tactiq",
		Tags:   []string{"Meetings.2025-10-01"},
		Text:   "Alice: The launch is at risk of slipping.",
	}}
	runner, _, _ := seededRunner(t, books)

	summary, err := runner.Run(context.Background(), defaultOptions(t))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Scanned != 0 {
		t.Fatalf("expected no candidates outside the window, got %d", summary.Scanned)
	}
}

func TestRunAuthorFilter(t *testing.T) {
	books := []testsupport.SeedBook{{
		ID:     1,
		Title:  "Weekly Sync",
		Path:   "Other/Weekly Sync (1)",
		Author: "Somebody Else",
		Tags:   []string{"Meetings.2025-11-25"},
		Text:   "Alice: The launch is at risk of slipping.",
	}}
	runner, _, _ := seededRunner(t, books)

	summary, err := runner.Run(context.Background(), defaultOptions(t))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Scanned != 0 {
		t.Fatalf("author filter should exclude the meeting, got %d scanned", summary.Scanned)
	}
}

func TestRunPDFFallback(t *testing.T) {
	books := []testsupport.SeedBook{{
		ID:       1,
		Title:    "PDF Only",
		Path:     "Tactiq/PDF Only (1)",
		Author:   "Tactiq",
		Tags:     []string{"Meetings.2025-11-25"},
		PDFName:  "PDF Only",
		PDFBytes: []byte("%PDF-1.4 stub"),
	}}
	cfg := testsupport.NewConfig(t)
	testsupport.SeedLibrary(t, cfg, books)

	lib, err := library.Open(cfg.Library.Root, cfg.MetadataDBPath(), cfg.FulltextDBPath())
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	reports, err := report.NewStore(cfg.Reports.Dir, nil)
	if err != nil {
		t.Fatalf("open report store: %v", err)
	}

	resolver := transcript.NewResolver(lib, stubExtractor{text: "Alice: kudos to Bob for the fix."}, nil)
	runner := NewRunner(lib, resolver, extract.NewHeuristic(nil), reports, nil)

	summary, err := runner.Run(context.Background(), defaultOptions(t))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Skipped != 0 || summary.Extracted[extract.CategoryGlow] != 1 {
		t.Fatalf("expected pdf fallback extraction, got %+v", summary)
	}

	if _, err := os.Stat(filepath.Join(cfg.Reports.Dir, report.CategoryFileName(extract.CategoryGlow))); err != nil {
		t.Fatalf("expected glow log to exist: %v", err)
	}
}

type stubExtractor struct {
	text string
}

func (s stubExtractor) Extract(_ context.Context, _ string) (string, error) {
	return s.text, nil
}
