// Package pipeline orchestrates one meetscan run: select candidate meetings,
// resolve transcripts, extract items, and merge them into the report logs.
//
// The run is single threaded and processes meetings strictly in selector
// order, so the log files come out deterministic for a given library state.
// Per-meeting failures degrade that meeting to zero items; only
// configuration problems abort a run before processing starts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"meetscan/internal/extract"
	"meetscan/internal/logging"
	"meetscan/internal/meetings"
	"meetscan/internal/report"
	"meetscan/internal/transcript"
)

// Skip reasons reported in the run summary.
const (
	SkipNoTranscript     = "no transcript"
	SkipExtractionFailed = "extraction failed"
)

// Library is the candidate source the runner selects meetings from.
type Library interface {
	MeetingTags(ctx context.Context, author string, tagPrefixes []string) ([]meetings.TagRow, error)
}

// Resolver attaches transcript text to an occurrence.
type Resolver interface {
	Resolve(ctx context.Context, occ meetings.Occurrence) (transcript.Transcript, error)
}

// Reports is the durable merge target.
type Reports interface {
	Merge(ctx context.Context, items []extract.Item, dryRun bool) (report.MergeResult, error)
	WritePersonPages() (int, error)
	AppendRunRecord(record report.RunRecord) error
}

// Options select and scope one run.
type Options struct {
	Window      meetings.Window
	Author      string
	TagPrefixes []string
	DryRun      bool
}

// Summary is the human-facing outcome of one run.
type Summary struct {
	RunID            string
	Window           string
	DryRun           bool
	Scanned          int
	Skipped          int
	SkipReasons      map[string]int
	Extracted        map[extract.Category]int
	NewEntries       int
	Repeats          int
	FailedCategories []extract.Category
}

// TotalExtracted sums the extracted items across categories.
func (s Summary) TotalExtracted() int {
	var total int
	for _, count := range s.Extracted {
		total += count
	}
	return total
}

// Runner threads a run context through the pipeline stages.
type Runner struct {
	library   Library
	resolver  Resolver
	extractor extract.Extractor
	reports   Reports
	logger    *slog.Logger
}

// NewRunner wires the pipeline stages together.
func NewRunner(library Library, resolver Resolver, extractor extract.Extractor, reports Reports, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		library:   library,
		resolver:  resolver,
		extractor: extractor,
		reports:   reports,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run executes one full pipeline pass. The returned error covers failures
// before or around processing (library access, report locking, run history);
// per-meeting failures are absorbed into the summary instead.
func (r *Runner) Run(ctx context.Context, opts Options) (Summary, error) {
	summary := Summary{
		RunID:       report.NewRunID(),
		Window:      opts.Window.String(),
		DryRun:      opts.DryRun,
		SkipReasons: make(map[string]int),
		Extracted:   make(map[extract.Category]int),
	}

	rows, err := r.library.MeetingTags(ctx, opts.Author, opts.TagPrefixes)
	if err != nil {
		return summary, fmt.Errorf("load meeting tags: %w", err)
	}
	occurrences := meetings.Select(rows, opts.TagPrefixes, opts.Window, r.logger)
	r.logger.Info("run started",
		logging.String("run_id", summary.RunID),
		logging.String("window", summary.Window),
		logging.String("extractor", r.extractor.Name()),
		logging.Int("candidates", len(occurrences)),
		logging.Bool("dry_run", opts.DryRun),
	)

	var items []extract.Item
	for _, occ := range occurrences {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Scanned++
		occItems := r.processOccurrence(ctx, occ, &summary)
		for _, item := range occItems {
			summary.Extracted[item.Category]++
		}
		items = append(items, occItems...)
	}

	mergeResult, err := r.reports.Merge(ctx, items, opts.DryRun)
	if err != nil {
		return summary, fmt.Errorf("merge reports: %w", err)
	}
	summary.NewEntries = mergeResult.New()
	summary.Repeats = mergeResult.Incremented()
	summary.FailedCategories = mergeResult.Failed()

	if !opts.DryRun {
		if _, err := r.reports.WritePersonPages(); err != nil {
			r.logger.Warn("person pages not updated", logging.Error(err))
		}
		record := report.RunRecord{
			RunID:     summary.RunID,
			Timestamp: time.Now(),
			Window:    summary.Window,
			Scanned:   summary.Scanned,
			Skipped:   summary.Skipped,
			Extracted: summary.Extracted,
			New:       summary.NewEntries,
			Repeats:   summary.Repeats,
			Errors:    len(summary.FailedCategories) + summary.SkipReasons[SkipExtractionFailed],
		}
		if err := r.reports.AppendRunRecord(record); err != nil {
			return summary, fmt.Errorf("record run: %w", err)
		}
	}

	r.logger.Info("run finished",
		logging.String("run_id", summary.RunID),
		logging.Int("scanned", summary.Scanned),
		logging.Int("skipped", summary.Skipped),
		logging.Int("extracted", summary.TotalExtracted()),
		logging.Int("new", summary.NewEntries),
		logging.Int("repeats", summary.Repeats),
		logging.Int("failed_categories", len(summary.FailedCategories)),
	)
	return summary, nil
}

// processOccurrence walks one meeting through resolve and extract. Any
// failure degrades the meeting to zero items so the run keeps moving; the
// occurrence still counts as processed.
func (r *Runner) processOccurrence(ctx context.Context, occ meetings.Occurrence, summary *Summary) []extract.Item {
	tr, err := r.resolver.Resolve(ctx, occ)
	if err != nil {
		r.logger.Warn("transcript resolution failed",
			logging.String(logging.FieldMeeting, occ.Title),
			logging.Error(err),
		)
		summary.Skipped++
		summary.SkipReasons[SkipNoTranscript]++
		return nil
	}
	if !tr.Available() {
		r.logger.Info("no transcript available",
			logging.String(logging.FieldMeeting, occ.Title),
			logging.String("date", occ.DateString()),
		)
		summary.Skipped++
		summary.SkipReasons[SkipNoTranscript]++
		return nil
	}
	r.logger.Debug("transcript resolved",
		logging.String(logging.FieldMeeting, occ.Title),
		logging.String("source", string(tr.Source)),
		logging.Int("chars", len(tr.Text)),
	)

	items, err := r.extractor.Extract(ctx, occ, tr)
	if err != nil {
		r.logger.Warn("extraction failed, meeting yields zero items",
			logging.String(logging.FieldMeeting, occ.Title),
			logging.Error(err),
		)
		summary.Skipped++
		summary.SkipReasons[SkipExtractionFailed]++
		return nil
	}
	return items
}
