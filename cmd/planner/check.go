package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/planning"
)

func checkCmd(g *globals) *cobra.Command {
	var scenario string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run integrity and validation checks",
		Long: `Run the membership integrity check and record validation.

Exits with status 1 when anything is reported, so it can gate CI on the
data file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadDocument(cmd.Context(), g, scenario)
			if err != nil {
				return err
			}
			integrity := planning.CheckIntegrity(doc.People, doc.Teams, doc.Departments)
			validation := planning.ValidateDocument(doc)

			printCheck(cmd.OutOrStdout(), integrity, validation)
			if !integrity.Clean() || len(validation) > 0 {
				return errIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scenario, "scenario", "", "Check a built-in demo scenario instead of the store")
	return cmd
}

func printCheck(out io.Writer, integrity *planning.IntegrityReport, validation generic.ValidationErrors) {
	if integrity.Clean() && len(validation) == 0 {
		fmt.Fprintln(out, "OK: no issues found")
		return
	}
	for _, c := range integrity.Cycles {
		fmt.Fprintf(out, "cycle: %s -> %s\n", strings.Join(c, " -> "), c[0])
	}
	printMemberships(out, "person in multiple teams", integrity.MultiTeam)
	printMemberships(out, "person in multiple departments", integrity.MultiDepartmentPeople)
	printMemberships(out, "team in multiple departments", integrity.MultiDepartmentTeams)
	for _, v := range validation {
		fmt.Fprintf(out, "invalid: %s\n", v)
	}
	fmt.Fprintf(out, "%d integrity issue(s), %d validation issue(s)\n", integrity.IssueCount(), len(validation))
}

func printMemberships(out io.Writer, label string, ms []planning.Membership) {
	for _, m := range ms {
		fmt.Fprintf(out, "%s: %s (%s)\n", label, m.Name, strings.Join(m.Groups, ", "))
	}
}
