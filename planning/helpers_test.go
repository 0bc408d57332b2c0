package planning_test

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/planning"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

func jan(day int) generic.TimePoint {
	return generic.NewTimePoint(2024, time.January, day)
}

func person(name, department, team string, dailyCost int64) planning.Person {
	return planning.Person{
		Name:           name,
		Role:           "Engineer",
		Department:     department,
		Team:           team,
		DailyCost:      decimal.NewFromInt(dailyCost),
		WorkDays:       weekdays,
		DailyWorkHours: 8,
	}
}

func project(name string, from, to int, resources ...string) planning.Project {
	return planning.Project{
		Name:              name,
		Start:             jan(from),
		End:               jan(to),
		Priority:          1,
		AllocatedBudget:   decimal.NewFromInt(10000),
		AssignedResources: resources,
	}
}

func allocation(resource string, pct float64, from, to int) planning.Allocation {
	return planning.Allocation{Resource: resource, Percentage: pct, Start: jan(from), End: jan(to)}
}

func row(resource, project string, pct float64, from, to int) planning.AllocationRow {
	return planning.AllocationRow{
		Resource:     resource,
		Type:         planning.KindPerson,
		Department:   "Engineering",
		Project:      project,
		Start:        jan(from),
		End:          jan(to),
		Percentage:   pct,
		DurationDays: to - from + 1,
		Cost:         decimal.Zero,
	}
}

// overlapDocument is Alice at 100% on P1 (Jan 1-10) and 50% on P2
// (Jan 5-14).
func overlapDocument() *planning.Document {
	doc := planning.NewDocument()
	doc.People = []planning.Person{person("Alice", "Engineering", "", 100)}
	doc.Departments = []planning.Department{{Name: "Engineering", Members: []string{"Alice"}}}

	p2 := project("P2", 5, 14, "Alice")
	p2.Allocations = []planning.Allocation{allocation("Alice", 50, 5, 14)}
	doc.Projects = []planning.Project{project("P1", 1, 10, "Alice"), p2}
	return doc
}

// teamDocument is team T1 (Alice 100/day, Bob 150/day) in Engineering.
func teamDocument() *planning.Document {
	doc := planning.NewDocument()
	doc.People = []planning.Person{
		person("Alice", "Engineering", "T1", 100),
		person("Bob", "Engineering", "T1", 150),
	}
	doc.Teams = []planning.Team{{Name: "T1", Department: "Engineering", Members: []string{"Alice", "Bob"}}}
	doc.Departments = []planning.Department{{Name: "Engineering", Teams: []string{"T1"}}}
	return doc
}
