package planning

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classification is what a resource name resolves to.
type Classification struct {
	Kind       ResourceKind
	Department string
	Team       string // always empty for teams and departments
}

// Catalog resolves resource names. It is built once per snapshot so the
// timeline and cost code never rescan the record lists.
//
// Lookup order is people, then teams, then departments. Names are not meant
// to collide across kinds; when they do, the person wins. Within one kind
// the first record with a name wins.
type Catalog struct {
	people      map[string]Person
	teams       map[string]Team
	departments map[string]Department
}

// NewCatalog indexes the given records. The slices are not retained.
func NewCatalog(people []Person, teams []Team, departments []Department) *Catalog {
	c := &Catalog{
		people:      make(map[string]Person, len(people)),
		teams:       make(map[string]Team, len(teams)),
		departments: make(map[string]Department, len(departments)),
	}
	for _, p := range people {
		if _, dup := c.people[p.Name]; !dup {
			c.people[p.Name] = p
		}
	}
	for _, t := range teams {
		if _, dup := c.teams[t.Name]; !dup {
			c.teams[t.Name] = t
		}
	}
	for _, d := range departments {
		if _, dup := c.departments[d.Name]; !dup {
			c.departments[d.Name] = d
		}
	}
	return c
}

// Classify resolves a name. Unknown names are a soft failure:
// (KindUnknown, "Unknown", "").
func (c *Catalog) Classify(name string) Classification {
	if p, ok := c.people[name]; ok {
		return Classification{Kind: KindPerson, Department: p.Department, Team: p.Team}
	}
	if t, ok := c.teams[name]; ok {
		return Classification{Kind: KindTeam, Department: t.Department}
	}
	if _, ok := c.departments[name]; ok {
		return Classification{Kind: KindDepartment, Department: name}
	}
	return Classification{Kind: KindUnknown, Department: UnknownDepartment}
}

// Classify is the free-function form; a nil catalog classifies everything
// as unknown.
func Classify(name string, c *Catalog) Classification {
	if c == nil {
		return Classification{Kind: KindUnknown, Department: UnknownDepartment}
	}
	return c.Classify(name)
}

// Person returns the person record with the given name.
func (c *Catalog) Person(name string) (Person, bool) {
	p, ok := c.people[name]
	return p, ok
}

// Team returns the team record with the given name.
func (c *Catalog) Team(name string) (Team, bool) {
	t, ok := c.teams[name]
	return t, ok
}

// Department returns the department record with the given name.
func (c *Catalog) Department(name string) (Department, bool) {
	d, ok := c.departments[name]
	return d, ok
}

// Has reports whether the name resolves to any known record.
func (c *Catalog) Has(name string) bool {
	return c.Classify(name).Kind != KindUnknown
}

// DailyCost is the cost of one full day of the resource: a person's own
// rate, or the sum of a team's known members. Departments and unknown
// names carry no direct cost.
func (c *Catalog) DailyCost(name string) decimal.Decimal {
	switch c.Classify(name).Kind {
	case KindPerson:
		return c.people[name].DailyCost
	case KindTeam:
		total := decimal.Zero
		for _, member := range c.teams[name].Members {
			if p, ok := c.people[member]; ok {
				total = total.Add(p.DailyCost)
			}
		}
		return total
	default:
		return decimal.Zero
	}
}
