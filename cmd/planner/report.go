package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/warp/resource-planner/config"
	"github.com/warp/resource-planner/planning"
)

func reportCmd(g *globals) *cobra.Command {
	var (
		scenario string
		period   periodFlags
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print utilization, conflicts and costs",
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
			return printReport(cmd.OutOrStdout(), report, settings)
		},
	}

	cmd.Flags().StringVar(&scenario, "scenario", "", "Report on a built-in demo scenario instead of the store")
	cmd.Flags().StringVar(&period.from, "from", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&period.to, "to", "", "Period end (YYYY-MM-DD)")
	return cmd
}

func printReport(out io.Writer, r *planning.Report, settings config.Settings) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	if r.Utilization.Period.Valid() {
		fmt.Fprintf(tw, "Period: %s\n\n", r.Utilization.Period)
	}

	fmt.Fprintln(tw, "RESOURCE\tTYPE\tDEPARTMENT\tUTILIZATION\tOVERALLOCATION\tCONFLICT DAYS\tSTATUS")
	for _, u := range r.Utilization.Utilization {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f%%\t%.2f%%\t%d\t%s\n",
			u.Resource, u.Type, u.Department, u.Utilization, u.Overallocation, u.ConflictDays,
			settings.Status(u.Utilization, u.Overallocation))
	}

	fmt.Fprintf(tw, "\nConflicts: %d\n", len(r.Utilization.Conflicts))
	for _, c := range r.Utilization.Conflicts {
		fmt.Fprintf(tw, "  %s\t%s\t%.0f%%\t%s\n", c.Resource, c.Date, c.TotalAllocation, strings.Join(c.Projects, ", "))
	}

	fmt.Fprintln(tw, "\nPROJECT\tPRIORITY\tBUDGET\tCOST\tREMAINING\t")
	for _, pc := range r.ProjectCosts {
		flag := ""
		if pc.OverBudget {
			flag = "OVER BUDGET"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s%s\t%s%s\t%s%s\t%s\n",
			pc.Project, pc.Priority,
			settings.CurrencySymbol, pc.Budget.StringFixed(2),
			settings.CurrencySymbol, pc.Cost.StringFixed(2),
			settings.CurrencySymbol, pc.Remaining.StringFixed(2),
			flag)
	}

	if n := len(r.Timeline.Errors); n > 0 {
		fmt.Fprintf(tw, "\nSkipped records: %d\n", n)
		for _, e := range r.Timeline.Errors {
			fmt.Fprintf(tw, "  %s\n", e)
		}
	}
	return tw.Flush()
}
