package planning

import (
	"fmt"

	"github.com/warp/resource-planner/generic"
)

// =============================================================================
// VALIDATION - Checked before records reach the aggregator
// =============================================================================

// ValidatePerson checks a person's own fields.
func ValidatePerson(p Person) generic.ValidationErrors {
	var errs generic.ValidationErrors
	add := func(field, msg string, err error) {
		errs = append(errs, &generic.ValidationError{Entity: "person", Name: p.Name, Field: field, Message: msg, Err: err})
	}
	if p.Name == "" {
		add("name", "name is required", generic.ErrMissingField)
	}
	if p.DailyCost.IsNegative() {
		add("daily_cost", "daily cost must not be negative", generic.ErrInvalidRecord)
	}
	if len(p.WorkDays) == 0 {
		add("work_days", "at least one work day is required", generic.ErrMissingField)
	}
	if p.DailyWorkHours <= 0 || p.DailyWorkHours > 24 {
		add("daily_work_hours", fmt.Sprintf("daily work hours must be in (0, 24], got %g", p.DailyWorkHours), generic.ErrInvalidRecord)
	}
	return errs
}

// ValidateTeam checks a team's own fields.
func ValidateTeam(t Team) generic.ValidationErrors {
	var errs generic.ValidationErrors
	if t.Name == "" {
		errs = append(errs, &generic.ValidationError{Entity: "team", Field: "name", Message: "name is required", Err: generic.ErrMissingField})
	}
	return errs
}

// ValidateDepartment checks a department's own fields.
func ValidateDepartment(d Department) generic.ValidationErrors {
	var errs generic.ValidationErrors
	if d.Name == "" {
		errs = append(errs, &generic.ValidationError{Entity: "department", Field: "name", Message: "name is required", Err: generic.ErrMissingField})
	}
	return errs
}

// ValidateProject checks the project span and every allocation against it.
// A nil catalog skips the reference checks.
func ValidateProject(p Project, catalog *Catalog) generic.ValidationErrors {
	var errs generic.ValidationErrors
	add := func(field, msg string, err error) {
		errs = append(errs, &generic.ValidationError{Entity: "project", Name: p.Name, Field: field, Message: msg, Err: err})
	}

	if p.Name == "" {
		add("name", "name is required", generic.ErrMissingField)
	}
	if p.Start.IsZero() {
		add("start_date", "start date is required", generic.ErrMissingField)
	}
	if p.End.IsZero() {
		add("end_date", "end date is required", generic.ErrMissingField)
	}
	spanKnown := !p.Start.IsZero() && !p.End.IsZero()
	if spanKnown && p.End.Before(p.Start) {
		add("end_date", fmt.Sprintf("end %s is before start %s", p.End, p.Start), generic.ErrInvalidPeriod)
		spanKnown = false
	}
	if p.AllocatedBudget.IsNegative() {
		add("allocated_budget", "budget must not be negative", generic.ErrInvalidRecord)
	}

	for i, a := range p.Allocations {
		field := fmt.Sprintf("resource_allocations[%d]", i)
		if a.Resource == "" {
			add(field+".resource", "resource is required", generic.ErrMissingField)
		}
		if a.Percentage <= 0 || a.Percentage > generic.FullAllocation {
			add(field+".allocation_percentage", fmt.Sprintf("percentage must be in (0, 100], got %g", a.Percentage), generic.ErrInvalidAllocation)
		}
		if a.Start.IsZero() || a.End.IsZero() {
			add(field, "start and end dates are required", generic.ErrMissingField)
			continue
		}
		if a.End.Before(a.Start) {
			add(field, fmt.Sprintf("end %s is before start %s", a.End, a.Start), generic.ErrInvalidPeriod)
			continue
		}
		if spanKnown && !a.Period().Within(p.Span()) {
			add(field, fmt.Sprintf("%s lies outside project span %s", a.Period(), p.Span()), generic.ErrInvalidAllocation)
		}
	}

	if catalog != nil {
		for _, name := range p.AssignedResources {
			if !catalog.Has(name) {
				add("assigned_resources", fmt.Sprintf("unknown resource %q", name), generic.ErrDanglingReference)
			}
		}
		for i, a := range p.Allocations {
			if a.Resource != "" && !catalog.Has(a.Resource) {
				add(fmt.Sprintf("resource_allocations[%d].resource", i), fmt.Sprintf("unknown resource %q", a.Resource), generic.ErrDanglingReference)
			}
		}
	}
	return errs
}

// ValidateDocument runs every record check plus cross-reference checks.
// Dangling references are reported; the timeline still renders them as
// Unknown.
func ValidateDocument(doc *Document) generic.ValidationErrors {
	errs := generic.ValidationErrors{}
	catalog := doc.Catalog()

	for _, p := range doc.People {
		errs = append(errs, ValidatePerson(p)...)
		if !isPlaceholder(p.Team) {
			if _, ok := catalog.Team(p.Team); !ok {
				errs = append(errs, danglingRef("person", p.Name, "team", p.Team))
			}
		}
		if !isPlaceholder(p.Department) {
			if _, ok := catalog.Department(p.Department); !ok {
				errs = append(errs, danglingRef("person", p.Name, "department", p.Department))
			}
		}
	}
	for _, t := range doc.Teams {
		errs = append(errs, ValidateTeam(t)...)
		for _, m := range t.Members {
			if _, ok := catalog.Person(m); !ok {
				errs = append(errs, danglingRef("team", t.Name, "members", m))
			}
		}
	}
	for _, d := range doc.Departments {
		errs = append(errs, ValidateDepartment(d)...)
		for _, t := range d.Teams {
			if _, ok := catalog.Team(t); !ok {
				errs = append(errs, danglingRef("department", d.Name, "teams", t))
			}
		}
		for _, m := range d.Members {
			if _, ok := catalog.Person(m); !ok {
				errs = append(errs, danglingRef("department", d.Name, "members", m))
			}
		}
	}
	for _, p := range doc.Projects {
		errs = append(errs, ValidateProject(p, catalog)...)
	}
	return errs
}

func danglingRef(entity, name, field, target string) *generic.ValidationError {
	return &generic.ValidationError{
		Entity:  entity,
		Name:    name,
		Field:   field,
		Message: fmt.Sprintf("unknown reference %q", target),
		Err:     generic.ErrDanglingReference,
	}
}
