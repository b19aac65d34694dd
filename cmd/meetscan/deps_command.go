package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"meetscan/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Show availability of optional external binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Defaults(cfg.PdftotextBinary(), cfg.PandocBinary()))

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				detail := status.Detail
				if status.Available {
					detail = "ok"
				}
				rows = append(rows, []string{status.Name, status.Command, yesNo(status.Available), detail, status.Description})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSummaryTable(out,
				[]string{"Name", "Command", "Available", "Detail", "Used for"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
