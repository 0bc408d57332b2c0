/*
Package planning implements the resource-planning engine.

PURPOSE:
  People, teams, departments and projects live in one Document. Four pure
  components compute reports over a snapshot of that document:

    Classifier        catalog.go      name -> Person / Team / Department / Unknown
    Timeline Builder  timeline.go     projects -> one row per (resource, allocation)
    Aggregator        utilization.go  rows -> utilization %, overallocation %, conflicts
    Integrity Checker integrity.go    membership graph -> duplicates and cycles

  Data flows one way: Document -> Catalog -> Timeline -> Aggregator. The
  integrity check runs beside it over the same records. None of the
  components mutates its inputs or keeps state between calls.

MUTATION:
  Form-style edits (mutations.go) are Document methods. Callers own the
  Document; the API handler guards it with a mutex and swaps in an edited
  clone only after the store accepted it.

SEE ALSO:
  - report.go: Runs every component in one pass
  - factory/document.go: JSON document <-> Document
*/
package planning

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/resource-planner/generic"
)

const (
	// Unassigned is the placeholder department/team left behind by deletes.
	Unassigned = "Unassigned"

	// UnknownDepartment is reported for names found in no catalog.
	UnknownDepartment = "Unknown"

	// weeksPerMonth converts weekly capacity to monthly.
	weeksPerMonth = 4.33
)

// =============================================================================
// RESOURCE KIND
// =============================================================================

// ResourceKind is the resolved type of a resource name.
type ResourceKind string

const (
	KindPerson     ResourceKind = "Person"
	KindTeam       ResourceKind = "Team"
	KindDepartment ResourceKind = "Department"
	KindUnknown    ResourceKind = "Unknown"
)

// =============================================================================
// RECORDS
// =============================================================================

// Person is an individual resource.
type Person struct {
	Name           string
	Role           string
	Department     string
	Team           string // empty = no team
	DailyCost      decimal.Decimal
	WorkDays       []time.Weekday
	DailyWorkHours float64
	Skills         []string
}

// CapacityHoursPerWeek is work days x daily hours.
func (p Person) CapacityHoursPerWeek() float64 {
	return float64(len(p.WorkDays)) * p.DailyWorkHours
}

// CapacityHoursPerMonth approximates a month as 4.33 weeks.
func (p Person) CapacityHoursPerMonth() float64 {
	return p.CapacityHoursPerWeek() * weeksPerMonth
}

// WorksOn reports whether the person works on the given weekday.
func (p Person) WorksOn(day time.Weekday) bool {
	return slices.Contains(p.WorkDays, day)
}

// Team groups people inside a department.
type Team struct {
	Name       string
	Department string
	Members    []string
}

// Department owns teams and may list people directly.
type Department struct {
	Name    string
	Teams   []string
	Members []string // direct members, not via a team
}

// Allocation assigns part of a resource to part of a project.
type Allocation struct {
	Resource   string
	Percentage float64 // (0, 100]
	Start      generic.TimePoint
	End        generic.TimePoint
}

// Period returns the allocation span.
func (a Allocation) Period() generic.Period {
	return generic.Period{Start: a.Start, End: a.End}
}

// Project is a unit of work that consumes resources over a date range.
type Project struct {
	Name              string
	Start             generic.TimePoint
	End               generic.TimePoint
	Priority          int // lower = more urgent
	AllocatedBudget   decimal.Decimal
	AssignedResources []string

	// Allocations overrides the implicit 100%-for-the-whole-project default
	// for AssignedResources when non-empty.
	Allocations []Allocation
}

// Span returns the project period.
func (p Project) Span() generic.Period {
	return generic.Period{Start: p.Start, End: p.End}
}

// HasExplicitAllocations reports whether per-resource allocations are set.
func (p Project) HasExplicitAllocations() bool {
	return len(p.Allocations) > 0
}

// References reports whether the project mentions the resource anywhere.
func (p Project) References(name string) bool {
	if slices.Contains(p.AssignedResources, name) {
		return true
	}
	for _, a := range p.Allocations {
		if a.Resource == name {
			return true
		}
	}
	return false
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is the whole planning state: everything that is saved as one
// JSON blob.
type Document struct {
	People      []Person
	Teams       []Team
	Departments []Department
	Projects    []Project
}

// NewDocument returns an empty document with non-nil lists.
func NewDocument() *Document {
	return &Document{
		People:      []Person{},
		Teams:       []Team{},
		Departments: []Department{},
		Projects:    []Project{},
	}
}

// Catalog indexes the document's people, teams and departments.
func (d *Document) Catalog() *Catalog {
	return NewCatalog(d.People, d.Teams, d.Departments)
}

// Clone returns a deep copy. Mutations are applied to a clone first so a
// failed save leaves the live document untouched.
func (d *Document) Clone() *Document {
	out := &Document{
		People:      make([]Person, len(d.People)),
		Teams:       make([]Team, len(d.Teams)),
		Departments: make([]Department, len(d.Departments)),
		Projects:    make([]Project, len(d.Projects)),
	}
	for i, p := range d.People {
		p.WorkDays = slices.Clone(p.WorkDays)
		p.Skills = slices.Clone(p.Skills)
		out.People[i] = p
	}
	for i, t := range d.Teams {
		t.Members = slices.Clone(t.Members)
		out.Teams[i] = t
	}
	for i, dep := range d.Departments {
		dep.Teams = slices.Clone(dep.Teams)
		dep.Members = slices.Clone(dep.Members)
		out.Departments[i] = dep
	}
	for i, p := range d.Projects {
		p.AssignedResources = slices.Clone(p.AssignedResources)
		p.Allocations = slices.Clone(p.Allocations)
		out.Projects[i] = p
	}
	return out
}

func (d *Document) personIndex(name string) int {
	return slices.IndexFunc(d.People, func(p Person) bool { return p.Name == name })
}

func (d *Document) teamIndex(name string) int {
	return slices.IndexFunc(d.Teams, func(t Team) bool { return t.Name == name })
}

func (d *Document) departmentIndex(name string) int {
	return slices.IndexFunc(d.Departments, func(dep Department) bool { return dep.Name == name })
}

func (d *Document) projectIndex(name string) int {
	return slices.IndexFunc(d.Projects, func(p Project) bool { return p.Name == name })
}

// Person looks up a person by name.
func (d *Document) Person(name string) (Person, bool) {
	if i := d.personIndex(name); i >= 0 {
		return d.People[i], true
	}
	return Person{}, false
}

// Team looks up a team by name.
func (d *Document) Team(name string) (Team, bool) {
	if i := d.teamIndex(name); i >= 0 {
		return d.Teams[i], true
	}
	return Team{}, false
}

// Department looks up a department by name.
func (d *Document) Department(name string) (Department, bool) {
	if i := d.departmentIndex(name); i >= 0 {
		return d.Departments[i], true
	}
	return Department{}, false
}

// Project looks up a project by name.
func (d *Document) Project(name string) (Project, bool) {
	if i := d.projectIndex(name); i >= 0 {
		return d.Projects[i], true
	}
	return Project{}, false
}
