package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"meetscan/internal/config"
	"meetscan/internal/extract"
	"meetscan/internal/library"
	"meetscan/internal/meetings"
	"meetscan/internal/pipeline"
	"meetscan/internal/report"
	"meetscan/internal/transcript"
)

type processFlags struct {
	start        string
	end          string
	author       string
	tagPrefixes  []string
	dryRun       bool
	llmMode      string
	llmModel     string
	llmMaxChars  int
	llmMaxTokens int
	debugCapture bool
	debugTitle   string
	debugDir     string
}

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var flags processFlags

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Scan the library for meetings in the date window and merge extracted items",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runProcess(cmd, ctx, cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.start, "start", "", "Window start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&flags.end, "end", "", "Window end date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&flags.author, "author", "", "Override the author filter (empty keeps the configured value)")
	cmd.Flags().StringArrayVar(&flags.tagPrefixes, "tag-prefix", nil, "Override the tag prefixes (repeatable)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Compute and report counts without writing any report file")
	cmd.Flags().StringVar(&flags.llmMode, "llm", "", "Extraction strategy override: none or openai")
	cmd.Flags().StringVar(&flags.llmModel, "llm-model", "", "LLM model override")
	cmd.Flags().IntVar(&flags.llmMaxChars, "llm-max-chars", 0, "Maximum transcript characters sent to the LLM")
	cmd.Flags().IntVar(&flags.llmMaxTokens, "llm-max-tokens", 0, "Maximum completion tokens requested from the LLM")
	cmd.Flags().BoolVar(&flags.debugCapture, "debug-capture", false, "Persist LLM request/response payloads per meeting")
	cmd.Flags().StringVar(&flags.debugTitle, "debug-title", "", "Only capture meetings whose title contains this substring")
	cmd.Flags().StringVar(&flags.debugDir, "debug-dir", "", "Debug artifact directory override")

	return cmd
}

// applyOverrides folds the command-line overrides into a copy of the loaded
// configuration and re-validates it, so a bad override fails before any
// meeting is processed.
func applyOverrides(cfg *config.Config, flags processFlags) (*config.Config, error) {
	overridden := *cfg
	if flags.author != "" {
		overridden.Select.Author = flags.author
	}
	if len(flags.tagPrefixes) > 0 {
		overridden.Select.TagPrefixes = flags.tagPrefixes
	}
	if flags.llmMode != "" {
		overridden.LLM.Mode = strings.ToLower(strings.TrimSpace(flags.llmMode))
	}
	if flags.llmModel != "" {
		overridden.LLM.Model = flags.llmModel
	}
	if flags.llmMaxChars > 0 {
		overridden.LLM.MaxInputChars = flags.llmMaxChars
	}
	if flags.llmMaxTokens > 0 {
		overridden.LLM.MaxOutputTokens = flags.llmMaxTokens
	}
	if flags.debugCapture {
		overridden.Debug.Capture = true
	}
	if flags.debugTitle != "" {
		overridden.Debug.TitleFilter = flags.debugTitle
	}
	if flags.debugDir != "" {
		overridden.Debug.Dir = flags.debugDir
	}
	if err := overridden.Validate(); err != nil {
		return nil, err
	}
	return &overridden, nil
}

func runProcess(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, flags processFlags) error {
	cfg, err := applyOverrides(cfg, flags)
	if err != nil {
		return err
	}

	window, err := meetings.ParseWindow(flags.start, flags.end)
	if err != nil {
		return err
	}

	logger, err := ctx.newLogger(cfg)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	lib, err := library.Open(cfg.Library.Root, cfg.MetadataDBPath(), cfg.FulltextDBPath())
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer lib.Close()

	reports, err := report.NewStore(cfg.Reports.Dir, logger)
	if err != nil {
		return err
	}

	extractor, err := extract.ForMode(cfg, logger)
	if err != nil {
		return err
	}

	var pdf transcript.PDFExtractor
	if ce := transcript.NewCommandExtractor(cfg.PdftotextBinary()); ce != nil {
		pdf = ce
	}
	resolver := transcript.NewResolver(lib, pdf, logger)

	runner := pipeline.NewRunner(lib, resolver, extractor, reports, logger)
	summary, err := runner.Run(cmd.Context(), pipeline.Options{
		Window:      window,
		Author:      cfg.Select.Author,
		TagPrefixes: cfg.Select.TagPrefixes,
		DryRun:      flags.dryRun,
	})
	if err != nil {
		return err
	}

	printSummary(cmd, summary)
	return nil
}

func printSummary(cmd *cobra.Command, summary pipeline.Summary) {
	out := cmd.OutOrStdout()

	headers := []string{"Metric", "Value"}
	rows := [][]string{
		{"Run ID", summary.RunID},
		{"Window", summary.Window},
		{"Dry run", yesNo(summary.DryRun)},
		{"Meetings scanned", strconv.Itoa(summary.Scanned)},
		{"Meetings skipped", strconv.Itoa(summary.Skipped)},
	}
	for _, reason := range []string{pipeline.SkipNoTranscript, pipeline.SkipExtractionFailed} {
		if count := summary.SkipReasons[reason]; count > 0 {
			rows = append(rows, []string{"  " + reason, strconv.Itoa(count)})
		}
	}
	for _, category := range extract.Categories {
		if count := summary.Extracted[category]; count > 0 {
			rows = append(rows, []string{"Extracted " + string(category) + "s", strconv.Itoa(count)})
		}
	}
	rows = append(rows,
		[]string{"New entries", strconv.Itoa(summary.NewEntries)},
		[]string{"Incident increments", strconv.Itoa(summary.Repeats)},
	)
	if len(summary.FailedCategories) > 0 {
		names := make([]string, len(summary.FailedCategories))
		for i, category := range summary.FailedCategories {
			names[i] = string(category)
		}
		rows = append(rows, []string{"Failed categories", strings.Join(names, ", ")})
	}

	fmt.Fprintln(out, renderSummaryTable(out, headers, rows, []columnAlignment{alignLeft, alignRight}))
	if len(summary.FailedCategories) > 0 {
		fmt.Fprintln(out, "Some category logs failed to merge; see the log output above.")
	}
}
