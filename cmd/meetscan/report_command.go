package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"meetscan/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Report utilities",
	}

	reportCmd.AddCommand(newReportRenderCommand(ctx))

	return reportCmd
}

func newReportRenderCommand(ctx *commandContext) *cobra.Command {
	var pdfEngine string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the markdown reports to PDF via pandoc",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			store, err := report.NewStore(cfg.Reports.Dir, logger)
			if err != nil {
				return err
			}

			engine := pdfEngine
			if engine == "" {
				engine = cfg.Render.PandocPDFEngine
			}
			renderer := report.NewRenderer(store, cfg.PandocBinary(), engine)
			result, err := renderer.Render(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Skipped {
				fmt.Fprintln(out, "pandoc is not installed; nothing rendered")
				return nil
			}
			for _, path := range result.Rendered {
				fmt.Fprintf(out, "Rendered %s\n", path)
			}
			if len(result.Rendered) == 0 {
				fmt.Fprintln(out, "No report files to render; run `meetscan process` first")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pdfEngine, "pdf-engine", "", "Pandoc PDF engine override (default from config)")
	return cmd
}
