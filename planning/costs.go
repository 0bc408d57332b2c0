package planning

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COSTS & BUDGETS
// =============================================================================

// ProjectCost compares a project's allocated budget with its timeline cost.
type ProjectCost struct {
	Project    string
	Priority   int
	Budget     decimal.Decimal
	Cost       decimal.Decimal
	Remaining  decimal.Decimal // Budget - Cost, negative when over
	OverBudget bool
	Rows       int
}

// ResourceCost is the total cost of one resource across all projects.
type ResourceCost struct {
	Resource string
	Type     ResourceKind
	Cost     decimal.Decimal
	Days     int // sum of row durations
}

// SummarizeProjectCosts totals row costs per project, most urgent first.
// Departments carry no direct cost, so a department-only project costs zero.
func SummarizeProjectCosts(projects []Project, rows []AllocationRow) []ProjectCost {
	costs := make(map[string]decimal.Decimal, len(projects))
	counts := make(map[string]int, len(projects))
	for _, r := range rows {
		costs[r.Project] = costs[r.Project].Add(r.Cost)
		counts[r.Project]++
	}

	out := make([]ProjectCost, 0, len(projects))
	for _, p := range projects {
		cost := costs[p.Name]
		remaining := p.AllocatedBudget.Sub(cost)
		out = append(out, ProjectCost{
			Project:    p.Name,
			Priority:   p.Priority,
			Budget:     p.AllocatedBudget,
			Cost:       cost,
			Remaining:  remaining,
			OverBudget: remaining.IsNegative(),
			Rows:       counts[p.Name],
		})
	}
	slices.SortStableFunc(out, func(a, b ProjectCost) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return out
}

// SummarizeResourceCosts totals row costs per resource in first-seen order.
func SummarizeResourceCosts(rows []AllocationRow) []ResourceCost {
	index := make(map[string]int)
	out := []ResourceCost{}
	for _, r := range rows {
		i, seen := index[r.Resource]
		if !seen {
			i = len(out)
			index[r.Resource] = i
			out = append(out, ResourceCost{Resource: r.Resource, Type: r.Type, Cost: decimal.Zero})
		}
		out[i].Cost = out[i].Cost.Add(r.Cost)
		out[i].Days += r.DurationDays
	}
	return out
}
