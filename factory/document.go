/*
Package factory converts the JSON planning document to Go structs and back.

PURPOSE:
  The persisted document is loosely typed: optional keys go missing, a
  person's department sometimes arrives as a list, dates are strings. The
  factory turns that into strongly typed planning records once, at load
  time, so the engine never deals with JSON shapes.

JSON SCHEMA:
  {
    "people": [{"name": "Alice", "role": "Engineer", "department": "Eng",
                "team": "Core", "daily_cost": 100,
                "work_days": ["Monday", "Tuesday"], "daily_work_hours": 8,
                "skills": ["go"]}],
    "teams": [{"name": "Core", "department": "Eng", "members": ["Alice"]}],
    "departments": [{"name": "Eng", "teams": ["Core"], "members": []}],
    "projects": [{"name": "P1", "start_date": "2024-01-01",
                  "end_date": "2024-01-10", "priority": 1,
                  "allocated_budget": 5000,
                  "assigned_resources": ["Alice"],
                  "resource_allocations": [{"resource": "Alice",
                    "allocation_percentage": 50,
                    "start_date": "2024-01-01", "end_date": "2024-01-05"}]}]
  }

KEY FEATURES:
  - Bad field values become DataError entries; the record is still loaded
    with the field left zero so the engine can skip it later
  - "team": null / "" / "Unassigned" all mean no team
  - "department" accepts a string or a list (first entry kept)

USAGE:
  doc, dataErrs, err := factory.ParseDocument(raw)
  raw, err = factory.MarshalDocument(doc)

SEE ALSO:
  - planning/model.go: Target types
  - store/jsonfile: Reads and writes this format on disk
*/
package factory

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/planning"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// DocumentJSON is the top-level persisted document.
type DocumentJSON struct {
	People      []PersonJSON     `json:"people"`
	Teams       []TeamJSON       `json:"teams"`
	Departments []DepartmentJSON `json:"departments"`
	Projects    []ProjectJSON    `json:"projects"`
}

// PersonJSON represents a person record.
type PersonJSON struct {
	Name           string       `json:"name"`
	Role           string       `json:"role"`
	Department     StringOrList `json:"department"`
	Team           *string      `json:"team"`
	DailyCost      float64      `json:"daily_cost"`
	WorkDays       []string     `json:"work_days"`
	DailyWorkHours float64      `json:"daily_work_hours"`
	Skills         []string     `json:"skills"`

	// Derived on output only.
	CapacityHoursPerWeek  float64 `json:"capacity_hours_per_week,omitempty"`
	CapacityHoursPerMonth float64 `json:"capacity_hours_per_month,omitempty"`
}

// TeamJSON represents a team record.
type TeamJSON struct {
	Name       string   `json:"name"`
	Department string   `json:"department"`
	Members    []string `json:"members"`
}

// DepartmentJSON represents a department record.
type DepartmentJSON struct {
	Name    string   `json:"name"`
	Teams   []string `json:"teams"`
	Members []string `json:"members"`
}

// ProjectJSON represents a project record.
type ProjectJSON struct {
	Name                string           `json:"name"`
	StartDate           string           `json:"start_date"`
	EndDate             string           `json:"end_date"`
	Priority            int              `json:"priority"`
	AllocatedBudget     float64          `json:"allocated_budget"`
	AssignedResources   []string         `json:"assigned_resources"`
	ResourceAllocations []AllocationJSON `json:"resource_allocations,omitempty"`
}

// AllocationJSON represents one explicit resource allocation.
type AllocationJSON struct {
	Resource             string  `json:"resource"`
	AllocationPercentage float64 `json:"allocation_percentage"`
	StartDate            string  `json:"start_date"`
	EndDate              string  `json:"end_date"`
}

// StringOrList decodes either "x" or ["x", "y"].
type StringOrList []string

func (s *StringOrList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*s = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*s = nil
		return nil
	}
	*s = StringOrList{single}
	return nil
}

func (s StringOrList) MarshalJSON() ([]byte, error) {
	switch len(s) {
	case 0:
		return []byte(`""`), nil
	case 1:
		return json.Marshal(s[0])
	default:
		return json.Marshal([]string(s))
	}
}

// =============================================================================
// PARSING
// =============================================================================

// ParseDocument decodes a JSON document. A syntax error fails the call;
// field-level problems come back as DataErrors next to the document.
func ParseDocument(data []byte) (*planning.Document, []*generic.DataError, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return planning.NewDocument(), nil, nil
	}
	var dj DocumentJSON
	if err := json.Unmarshal(data, &dj); err != nil {
		return nil, nil, fmt.Errorf("failed to parse document JSON: %w", err)
	}
	doc, errs := FromJSON(dj)
	return doc, errs, nil
}

// FromJSON converts DocumentJSON to a planning.Document.
func FromJSON(dj DocumentJSON) (*planning.Document, []*generic.DataError) {
	doc := planning.NewDocument()
	var errs []*generic.DataError

	for _, pj := range dj.People {
		p, perrs := PersonFromJSON(pj)
		doc.People = append(doc.People, p)
		errs = append(errs, perrs...)
	}
	for _, tj := range dj.Teams {
		doc.Teams = append(doc.Teams, TeamFromJSON(tj))
	}
	for _, dep := range dj.Departments {
		doc.Departments = append(doc.Departments, DepartmentFromJSON(dep))
	}
	for _, prj := range dj.Projects {
		p, perrs := ProjectFromJSON(prj)
		doc.Projects = append(doc.Projects, p)
		errs = append(errs, perrs...)
	}
	return doc, errs
}

// PersonFromJSON converts one person record.
func PersonFromJSON(pj PersonJSON) (planning.Person, []*generic.DataError) {
	var errs []*generic.DataError
	p := planning.Person{
		Name:           pj.Name,
		Role:           pj.Role,
		DailyCost:      generic.NewMoney(pj.DailyCost),
		DailyWorkHours: pj.DailyWorkHours,
		Skills:         pj.Skills,
	}
	if len(pj.Department) > 0 {
		p.Department = pj.Department[0]
	}
	if len(pj.Department) > 1 {
		errs = append(errs, &generic.DataError{
			Entity: "person", Name: pj.Name, Field: "department",
			Err: fmt.Errorf("%w: %d departments listed, keeping %q", generic.ErrInvalidRecord, len(pj.Department), p.Department),
		})
	}
	if pj.Team != nil && *pj.Team != planning.Unassigned {
		p.Team = *pj.Team
	}
	for _, name := range pj.WorkDays {
		wd, err := generic.ParseWeekday(name)
		if err != nil {
			errs = append(errs, &generic.DataError{Entity: "person", Name: pj.Name, Field: "work_days", Err: fmt.Errorf("%w: %v", generic.ErrInvalidRecord, err)})
			continue
		}
		if !p.WorksOn(wd) {
			p.WorkDays = append(p.WorkDays, wd)
		}
	}
	return p, errs
}

// TeamFromJSON converts one team record.
func TeamFromJSON(tj TeamJSON) planning.Team {
	return planning.Team{Name: tj.Name, Department: tj.Department, Members: tj.Members}
}

// DepartmentFromJSON converts one department record.
func DepartmentFromJSON(dj DepartmentJSON) planning.Department {
	return planning.Department{Name: dj.Name, Teams: dj.Teams, Members: dj.Members}
}

// ProjectFromJSON converts one project record. Unparseable dates are left
// zero; the timeline builder then skips the project or allocation.
func ProjectFromJSON(pj ProjectJSON) (planning.Project, []*generic.DataError) {
	var errs []*generic.DataError
	date := func(field, value string) generic.TimePoint {
		tp, err := generic.ParseTimePoint(value)
		if err != nil {
			errs = append(errs, &generic.DataError{Entity: "project", Name: pj.Name, Field: field, Err: err})
		}
		return tp
	}

	p := planning.Project{
		Name:              pj.Name,
		Start:             date("start_date", pj.StartDate),
		End:               date("end_date", pj.EndDate),
		Priority:          pj.Priority,
		AllocatedBudget:   generic.NewMoney(pj.AllocatedBudget),
		AssignedResources: pj.AssignedResources,
	}
	for i, aj := range pj.ResourceAllocations {
		field := fmt.Sprintf("resource_allocations[%d]", i)
		p.Allocations = append(p.Allocations, planning.Allocation{
			Resource:   aj.Resource,
			Percentage: aj.AllocationPercentage,
			Start:      date(field+".start_date", aj.StartDate),
			End:        date(field+".end_date", aj.EndDate),
		})
	}
	return p, errs
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// MarshalDocument encodes a document in the persisted format.
func MarshalDocument(doc *planning.Document) ([]byte, error) {
	data, err := json.MarshalIndent(ToJSON(doc), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

// ToJSON converts a planning.Document to DocumentJSON.
func ToJSON(doc *planning.Document) DocumentJSON {
	dj := DocumentJSON{
		People:      make([]PersonJSON, 0, len(doc.People)),
		Teams:       make([]TeamJSON, 0, len(doc.Teams)),
		Departments: make([]DepartmentJSON, 0, len(doc.Departments)),
		Projects:    make([]ProjectJSON, 0, len(doc.Projects)),
	}
	for _, p := range doc.People {
		dj.People = append(dj.People, PersonToJSON(p))
	}
	for _, t := range doc.Teams {
		dj.Teams = append(dj.Teams, TeamToJSON(t))
	}
	for _, d := range doc.Departments {
		dj.Departments = append(dj.Departments, DepartmentToJSON(d))
	}
	for _, p := range doc.Projects {
		dj.Projects = append(dj.Projects, ProjectToJSON(p))
	}
	return dj
}

// PersonToJSON converts one person, including derived capacity.
func PersonToJSON(p planning.Person) PersonJSON {
	pj := PersonJSON{
		Name:                  p.Name,
		Role:                  p.Role,
		DailyCost:             p.DailyCost.InexactFloat64(),
		WorkDays:              make([]string, 0, len(p.WorkDays)),
		DailyWorkHours:        p.DailyWorkHours,
		Skills:                nonNil(p.Skills),
		CapacityHoursPerWeek:  p.CapacityHoursPerWeek(),
		CapacityHoursPerMonth: p.CapacityHoursPerMonth(),
	}
	if p.Department != "" {
		pj.Department = StringOrList{p.Department}
	}
	if p.Team != "" {
		team := p.Team
		pj.Team = &team
	}
	for _, wd := range p.WorkDays {
		pj.WorkDays = append(pj.WorkDays, wd.String())
	}
	return pj
}

// TeamToJSON converts one team.
func TeamToJSON(t planning.Team) TeamJSON {
	return TeamJSON{Name: t.Name, Department: t.Department, Members: nonNil(t.Members)}
}

// DepartmentToJSON converts one department.
func DepartmentToJSON(d planning.Department) DepartmentJSON {
	return DepartmentJSON{Name: d.Name, Teams: nonNil(d.Teams), Members: nonNil(d.Members)}
}

// ProjectToJSON converts one project.
func ProjectToJSON(p planning.Project) ProjectJSON {
	pj := ProjectJSON{
		Name:              p.Name,
		StartDate:         p.Start.String(),
		EndDate:           p.End.String(),
		Priority:          p.Priority,
		AllocatedBudget:   p.AllocatedBudget.InexactFloat64(),
		AssignedResources: nonNil(p.AssignedResources),
	}
	for _, a := range p.Allocations {
		pj.ResourceAllocations = append(pj.ResourceAllocations, AllocationJSON{
			Resource:             a.Resource,
			AllocationPercentage: a.Percentage,
			StartDate:            a.Start.String(),
			EndDate:              a.End.String(),
		})
	}
	return pj
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
