package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warp/resource-planner/export"
	"github.com/warp/resource-planner/planning"
)

func exportCmd(g *globals) *cobra.Command {
	var (
		scenario string
		out      string
		period   periodFlags
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the report as an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := period.options()
			if err != nil {
				return err
			}
			doc, settings, err := loadDocument(cmd.Context(), g, scenario)
			if err != nil {
				return err
			}
			report, err := planning.BuildReport(doc, opts)
			if err != nil {
				return err
			}
			if err := export.SaveReport(out, report, settings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d rows)\n", out, len(report.Timeline.Rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "resource_report.xlsx", "Output path")
	cmd.Flags().StringVar(&scenario, "scenario", "", "Export a built-in demo scenario instead of the store")
	cmd.Flags().StringVar(&period.from, "from", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&period.to, "to", "", "Period end (YYYY-MM-DD)")
	return cmd
}
