/*
Package export renders a planning report as an Excel workbook.

PURPOSE:
  Planners share allocation reports as spreadsheets. One sheet per report
  table; every sheet gets its header row even when the table is empty.

SHEETS:
  Timeline:    One row per allocation row
  Utilization: Per-resource utilization, overallocation and status
  Conflicts:   One row per overbooked (resource, day)
  Costs:       Per-project cost against budget
  Integrity:   Cycles and multi-membership findings

USAGE:
  report, _ := planning.BuildReport(doc, planning.AggregateOptions{})
  err := export.SaveReport("report.xlsx", report, settings)

SEE ALSO:
  - planning/report.go: Report contents
  - api/handlers.go: GET /api/export/workbook
*/
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/warp/resource-planner/config"
	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/planning"
	"github.com/xuri/excelize/v2"
)

// Sheet names, in workbook order.
const (
	SheetTimeline    = "Timeline"
	SheetUtilization = "Utilization"
	SheetConflicts   = "Conflicts"
	SheetCosts       = "Costs"
	SheetIntegrity   = "Integrity"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheet struct {
	name    string
	headers []string
	rows    [][]any
}

// WriteReport writes the workbook to w.
func WriteReport(w io.Writer, r *planning.Report, settings config.Settings) error {
	f, err := build(r, settings)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveReport writes the workbook to a file.
func SaveReport(path string, r *planning.Report, settings config.Settings) error {
	f, err := build(r, settings)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func build(r *planning.Report, settings config.Settings) (*excelize.File, error) {
	if r == nil {
		return nil, fmt.Errorf("export: %w", generic.ErrCatalogMissing)
	}
	settings = settings.WithDefaults()

	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	sheets := []sheet{
		timelineSheet(r, settings),
		utilizationSheet(r, settings),
		conflictsSheet(r),
		costsSheet(r, settings),
		integritySheet(r),
	}
	for i, s := range sheets {
		if i == 0 {
			// excelize starts with Sheet1
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	header := make([]any, len(s.headers))
	for i, h := range s.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", s.name, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(s.headers), 1)
	if err := f.SetCellStyle(s.name, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range s.rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", s.name, i+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(s.headers))
	return f.SetColWidth(s.name, "A", lastCol, 16)
}

// =============================================================================
// SHEETS
// =============================================================================

func timelineSheet(r *planning.Report, settings config.Settings) sheet {
	s := sheet{
		name: SheetTimeline,
		headers: []string{"Resource", "Type", "Department", "Team", "Project",
			"Start", "End", "Allocation %", "Days", "Cost (" + settings.Currency + ")"},
	}
	for _, row := range r.Timeline.Rows {
		s.rows = append(s.rows, []any{
			row.Resource, string(row.Type), row.Department, row.Team, row.Project,
			row.Start.String(), row.End.String(), row.Percentage, row.DurationDays,
			row.Cost.InexactFloat64(),
		})
	}
	return s
}

func utilizationSheet(r *planning.Report, settings config.Settings) sheet {
	s := sheet{
		name: SheetUtilization,
		headers: []string{"Resource", "Type", "Department", "Utilization %",
			"Overallocation %", "Status", "Conflict Days", "Peak %"},
	}
	for _, u := range r.Utilization.Utilization {
		s.rows = append(s.rows, []any{
			u.Resource, string(u.Type), u.Department,
			round2(u.Utilization), round2(u.Overallocation),
			settings.Status(u.Utilization, u.Overallocation),
			u.ConflictDays, u.PeakAllocation,
		})
	}
	return s
}

func conflictsSheet(r *planning.Report) sheet {
	s := sheet{
		name:    SheetConflicts,
		headers: []string{"Resource", "Date", "Total Allocation %", "Projects"},
	}
	for _, c := range r.Utilization.Conflicts {
		s.rows = append(s.rows, []any{
			c.Resource, c.Date.String(), c.TotalAllocation, strings.Join(c.Projects, ", "),
		})
	}
	return s
}

func costsSheet(r *planning.Report, settings config.Settings) sheet {
	s := sheet{
		name: SheetCosts,
		headers: []string{"Project", "Priority", "Budget (" + settings.Currency + ")",
			"Cost", "Remaining", "Over Budget"},
	}
	for _, pc := range r.ProjectCosts {
		s.rows = append(s.rows, []any{
			pc.Project, pc.Priority, pc.Budget.InexactFloat64(), pc.Cost.InexactFloat64(),
			pc.Remaining.InexactFloat64(), pc.OverBudget,
		})
	}
	return s
}

func integritySheet(r *planning.Report) sheet {
	s := sheet{
		name:    SheetIntegrity,
		headers: []string{"Issue", "Name", "Groups"},
	}
	for _, c := range r.Integrity.Cycles {
		s.rows = append(s.rows, []any{"Cycle", c[0], strings.Join(c, " -> ")})
	}
	add := func(issue string, ms []planning.Membership) {
		for _, m := range ms {
			s.rows = append(s.rows, []any{issue, m.Name, strings.Join(m.Groups, ", ")})
		}
	}
	add("Multiple teams", r.Integrity.MultiTeam)
	add("Person in multiple departments", r.Integrity.MultiDepartmentPeople)
	add("Team in multiple departments", r.Integrity.MultiDepartmentTeams)
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
