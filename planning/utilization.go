package planning

import (
	"maps"
	"slices"

	"github.com/warp/resource-planner/generic"
)

// =============================================================================
// UTILIZATION & CONFLICTS
// =============================================================================

// AggregateOptions bounds the reporting period. A nil bound defaults to the
// earliest row start / latest row end.
type AggregateOptions struct {
	From *generic.TimePoint
	To   *generic.TimePoint
}

// ResourceUtilization summarizes one resource over the period.
type ResourceUtilization struct {
	Resource   string
	Type       ResourceKind
	Department string

	// Utilization is the average daily load with each day capped at 100%.
	// Always within [0, 100].
	Utilization float64

	// Overallocation is the average daily excess above 100%. Unbounded.
	Overallocation float64

	PeriodDays     int
	AllocatedDays  int     // days with any load
	ConflictDays   int     // days above 100%
	PeakAllocation float64 // highest daily load, percent
}

// Conflict is a day on which a resource is booked above 100%.
type Conflict struct {
	Resource        string
	Date            generic.TimePoint
	TotalAllocation float64  // percent
	Projects        []string // in row order
}

// UtilizationReport is the aggregator output.
type UtilizationReport struct {
	Period      generic.Period
	Utilization []ResourceUtilization
	Conflicts   []Conflict
}

// dayLoad accumulates one resource's per-day allocation.
type dayLoad struct {
	row      AllocationRow // first row seen, for type/department
	load     []float64
	projects [][]string
}

// Aggregate walks every resource day by day over the period.
//
// Rows are assumed pre-validated (Start <= End). Rows are clamped to the
// period; resources with no row inside it are left out of both tables.
// Percentages are not rounded.
func Aggregate(rows []AllocationRow, opts AggregateOptions) (*UtilizationReport, error) {
	report := &UtilizationReport{
		Utilization: []ResourceUtilization{},
		Conflicts:   []Conflict{},
	}

	period, ok, err := resolvePeriod(rows, opts)
	if err != nil {
		return nil, err
	}
	if !ok {
		return report, nil
	}
	report.Period = period
	total := period.Len()

	var order []string
	loads := make(map[string]*dayLoad)
	for _, r := range rows {
		span, overlaps := r.Period().Intersect(period)
		if !overlaps {
			continue
		}
		acc, seen := loads[r.Resource]
		if !seen {
			acc = &dayLoad{row: r, load: make([]float64, total), projects: make([][]string, total)}
			loads[r.Resource] = acc
			order = append(order, r.Resource)
		}
		for d := period.Index(span.Start); d <= period.Index(span.End); d++ {
			acc.load[d] += r.Percentage
			acc.projects[d] = append(acc.projects[d], r.Project)
		}
	}

	for _, name := range order {
		acc := loads[name]
		u := ResourceUtilization{
			Resource:   name,
			Type:       acc.row.Type,
			Department: acc.row.Department,
			PeriodDays: total,
		}
		counts := make(map[float64]int)
		for d, load := range acc.load {
			counts[load]++
			if load > 0 {
				u.AllocatedDays++
			}
			u.PeakAllocation = max(u.PeakAllocation, load)
			if generic.ExceedsFull(load) {
				u.ConflictDays++
				report.Conflicts = append(report.Conflicts, Conflict{
					Resource:        name,
					Date:            period.Start.AddDays(d),
					TotalAllocation: load,
					Projects:        slices.Clone(acc.projects[d]),
				})
			}
		}
		u.Utilization, u.Overallocation = dailyAverages(counts, total)
		report.Utilization = append(report.Utilization, u)
	}
	return report, nil
}

// dailyAverages weights each distinct daily load by the share of days it
// covers, so a load held for the whole period comes back unchanged.
func dailyAverages(counts map[float64]int, total int) (utilization, overallocation float64) {
	for _, load := range slices.Sorted(maps.Keys(counts)) {
		share := float64(counts[load]) / float64(total)
		utilization += min(load, generic.FullAllocation) * share
		overallocation += max(load-generic.FullAllocation, 0) * share
	}
	// shares can sum to a hair over 1
	return min(utilization, generic.FullAllocation), overallocation
}

// resolvePeriod fills missing bounds from the rows. ok is false when there
// is nothing to derive a bound from.
func resolvePeriod(rows []AllocationRow, opts AggregateOptions) (generic.Period, bool, error) {
	var period generic.Period
	if opts.From != nil {
		period.Start = *opts.From
	}
	if opts.To != nil {
		period.End = *opts.To
	}
	for _, r := range rows {
		if opts.From == nil && (period.Start.IsZero() || r.Start.Before(period.Start)) {
			period.Start = r.Start
		}
		if opts.To == nil && (period.End.IsZero() || r.End.After(period.End)) {
			period.End = r.End
		}
	}
	if period.Start.IsZero() || period.End.IsZero() {
		return generic.Period{}, false, nil
	}
	if period.End.Before(period.Start) {
		if opts.From != nil && opts.To != nil {
			return generic.Period{}, false, generic.ErrInvalidPeriod
		}
		// One bound came from the rows: the window simply misses them.
		return generic.Period{}, false, nil
	}
	return period, true, nil
}

// ConflictsFor filters a conflict table to one resource.
func (r *UtilizationReport) ConflictsFor(resource string) []Conflict {
	var out []Conflict
	for _, c := range r.Conflicts {
		if c.Resource == resource {
			out = append(out, c)
		}
	}
	return out
}

// Resource returns the utilization row for a resource.
func (r *UtilizationReport) Resource(name string) (ResourceUtilization, bool) {
	for _, u := range r.Utilization {
		if u.Resource == name {
			return u, true
		}
	}
	return ResourceUtilization{}, false
}
