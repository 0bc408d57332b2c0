package planning

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/resource-planner/generic"
)

// =============================================================================
// ALLOCATION ROW - Atomic unit of the timeline
// =============================================================================

// AllocationRow is one (resource, project, date range, percentage) tuple.
// For a fixed resource and day, the percentages of all rows covering that
// day add up to the resource's daily load.
type AllocationRow struct {
	Resource     string
	Type         ResourceKind
	Department   string
	Team         string
	Project      string
	Start        generic.TimePoint
	End          generic.TimePoint
	Percentage   float64
	DurationDays int
	Cost         decimal.Decimal
}

// Period returns the row's date range.
func (r AllocationRow) Period() generic.Period {
	return generic.Period{Start: r.Start, End: r.End}
}

// Timeline is the builder output: rows plus the records it had to skip.
type Timeline struct {
	Rows   []AllocationRow
	Errors []*generic.DataError
}

// =============================================================================
// BUILDER
// =============================================================================

// BuildTimeline expands every project into allocation rows.
//
// Projects with explicit allocations emit one row per allocation entry.
// Otherwise every assigned resource gets 100% for the full project span.
// Names the catalog doesn't know still produce rows, typed Unknown.
//
// A malformed project or allocation entry is skipped and reported in
// Timeline.Errors; the rest of the batch is still built. Only a missing
// catalog fails the call.
func BuildTimeline(projects []Project, catalog *Catalog) (*Timeline, error) {
	if catalog == nil {
		return nil, generic.ErrCatalogMissing
	}

	tl := &Timeline{Rows: []AllocationRow{}}
	for _, p := range projects {
		if derr := checkProjectSpan(p); derr != nil {
			tl.Errors = append(tl.Errors, derr)
			continue
		}

		if !p.HasExplicitAllocations() {
			for _, name := range p.AssignedResources {
				tl.Rows = append(tl.Rows, newRow(catalog, p.Name, name, p.Span(), generic.FullAllocation))
			}
			continue
		}

		for i, a := range p.Allocations {
			if derr := checkAllocationSpan(p.Name, i, a); derr != nil {
				tl.Errors = append(tl.Errors, derr)
				continue
			}
			tl.Rows = append(tl.Rows, newRow(catalog, p.Name, a.Resource, a.Period(), a.Percentage))
		}
	}
	return tl, nil
}

func checkProjectSpan(p Project) *generic.DataError {
	switch {
	case p.Start.IsZero():
		return &generic.DataError{Entity: "project", Name: p.Name, Field: "start_date", Err: generic.ErrMissingField}
	case p.End.IsZero():
		return &generic.DataError{Entity: "project", Name: p.Name, Field: "end_date", Err: generic.ErrMissingField}
	case p.End.Before(p.Start):
		return &generic.DataError{Entity: "project", Name: p.Name, Field: "end_date", Err: generic.ErrInvalidPeriod}
	}
	return nil
}

func checkAllocationSpan(project string, i int, a Allocation) *generic.DataError {
	field := fmt.Sprintf("resource_allocations[%d]", i)
	switch {
	case a.Start.IsZero() || a.End.IsZero():
		return &generic.DataError{Entity: "project", Name: project, Field: field, Err: generic.ErrMissingField}
	case a.End.Before(a.Start):
		return &generic.DataError{Entity: "project", Name: project, Field: field, Err: generic.ErrInvalidPeriod}
	}
	return nil
}

func newRow(catalog *Catalog, project, resource string, span generic.Period, percentage float64) AllocationRow {
	cls := catalog.Classify(resource)
	days := span.Len()
	return AllocationRow{
		Resource:     resource,
		Type:         cls.Kind,
		Department:   cls.Department,
		Team:         cls.Team,
		Project:      project,
		Start:        span.Start,
		End:          span.End,
		Percentage:   percentage,
		DurationDays: days,
		Cost:         generic.ProRate(catalog.DailyCost(resource), days, percentage),
	}
}
