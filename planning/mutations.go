package planning

import (
	"fmt"
	"slices"

	"github.com/warp/resource-planner/generic"
)

// =============================================================================
// DOCUMENT MUTATIONS - Form-style edits that keep backlinks consistent
// =============================================================================

func removeName(names []string, name string) []string {
	return slices.DeleteFunc(names, func(n string) bool { return n == name })
}

func appendUnique(names []string, name string) []string {
	if slices.Contains(names, name) {
		return names
	}
	return append(names, name)
}

// nameTaken reports whether another kind already uses the name.
func (d *Document) nameTaken(name string, kind ResourceKind) bool {
	if kind != KindPerson && d.personIndex(name) >= 0 {
		return true
	}
	if kind != KindTeam && d.teamIndex(name) >= 0 {
		return true
	}
	if kind != KindDepartment && d.departmentIndex(name) >= 0 {
		return true
	}
	return false
}

func duplicateName(kind ResourceKind, name string) error {
	return fmt.Errorf("%s %q: %w", kind, name, generic.ErrDuplicateName)
}

func notFound(kind string, name string) error {
	return fmt.Errorf("%s %q: %w", kind, name, generic.ErrNotFound)
}

// UpsertPerson creates or replaces a person by name and moves the person
// between team member lists when the team changed.
func (d *Document) UpsertPerson(p Person) error {
	if errs := ValidatePerson(p); len(errs) > 0 {
		return errs
	}
	if d.nameTaken(p.Name, KindPerson) {
		return duplicateName(KindPerson, p.Name)
	}

	previousTeam := ""
	if i := d.personIndex(p.Name); i >= 0 {
		previousTeam = d.People[i].Team
		d.People[i] = p
	} else {
		d.People = append(d.People, p)
	}

	if previousTeam != p.Team {
		if i := d.teamIndex(previousTeam); i >= 0 {
			d.Teams[i].Members = removeName(d.Teams[i].Members, p.Name)
		}
	}
	if i := d.teamIndex(p.Team); i >= 0 {
		d.Teams[i].Members = appendUnique(d.Teams[i].Members, p.Name)
	}
	return nil
}

// DeletePerson removes a person and every membership and project reference
// to them.
func (d *Document) DeletePerson(name string) error {
	i := d.personIndex(name)
	if i < 0 {
		return notFound("person", name)
	}
	d.People = slices.Delete(d.People, i, i+1)
	for t := range d.Teams {
		d.Teams[t].Members = removeName(d.Teams[t].Members, name)
	}
	for dep := range d.Departments {
		d.Departments[dep].Members = removeName(d.Departments[dep].Members, name)
	}
	d.dropProjectReferences(name)
	return nil
}

// UpsertTeam creates or replaces a team. Listed members get their team
// field set; members dropped from the list lose it. A department change
// moves the team between department team lists.
func (d *Document) UpsertTeam(t Team) error {
	if errs := ValidateTeam(t); len(errs) > 0 {
		return errs
	}
	if d.nameTaken(t.Name, KindTeam) {
		return duplicateName(KindTeam, t.Name)
	}

	var previous Team
	if i := d.teamIndex(t.Name); i >= 0 {
		previous = d.Teams[i]
		d.Teams[i] = t
	} else {
		d.Teams = append(d.Teams, t)
	}

	for _, m := range previous.Members {
		if slices.Contains(t.Members, m) {
			continue
		}
		if i := d.personIndex(m); i >= 0 && d.People[i].Team == t.Name {
			d.People[i].Team = ""
		}
	}
	for _, m := range t.Members {
		if i := d.personIndex(m); i >= 0 {
			d.People[i].Team = t.Name
		}
	}

	if previous.Department != t.Department {
		if i := d.departmentIndex(previous.Department); i >= 0 {
			d.Departments[i].Teams = removeName(d.Departments[i].Teams, t.Name)
		}
	}
	if i := d.departmentIndex(t.Department); i >= 0 {
		d.Departments[i].Teams = appendUnique(d.Departments[i].Teams, t.Name)
	}
	return nil
}

// DeleteTeam removes a team, clears the team field on its people and drops
// it from department team lists and projects.
func (d *Document) DeleteTeam(name string) error {
	i := d.teamIndex(name)
	if i < 0 {
		return notFound("team", name)
	}
	d.Teams = slices.Delete(d.Teams, i, i+1)
	for p := range d.People {
		if d.People[p].Team == name {
			d.People[p].Team = ""
		}
	}
	for dep := range d.Departments {
		d.Departments[dep].Teams = removeName(d.Departments[dep].Teams, name)
	}
	d.dropProjectReferences(name)
	return nil
}

// UpsertDepartment creates or replaces a department. Teams it lists that
// have no department yet adopt it; conflicting team departments are left
// for the integrity report.
func (d *Document) UpsertDepartment(dep Department) error {
	if errs := ValidateDepartment(dep); len(errs) > 0 {
		return errs
	}
	if d.nameTaken(dep.Name, KindDepartment) {
		return duplicateName(KindDepartment, dep.Name)
	}

	if i := d.departmentIndex(dep.Name); i >= 0 {
		d.Departments[i] = dep
	} else {
		d.Departments = append(d.Departments, dep)
	}
	for _, t := range dep.Teams {
		if i := d.teamIndex(t); i >= 0 && isPlaceholder(d.Teams[i].Department) {
			d.Teams[i].Department = dep.Name
		}
	}
	return nil
}

// DeleteDepartment removes a department and reassigns its people and teams
// to Unassigned.
func (d *Document) DeleteDepartment(name string) error {
	i := d.departmentIndex(name)
	if i < 0 {
		return notFound("department", name)
	}
	d.Departments = slices.Delete(d.Departments, i, i+1)
	for p := range d.People {
		if d.People[p].Department == name {
			d.People[p].Department = Unassigned
		}
	}
	for t := range d.Teams {
		if d.Teams[t].Department == name {
			d.Teams[t].Department = Unassigned
		}
	}
	d.dropProjectReferences(name)
	return nil
}

// UpsertProject creates or replaces a project after validating its span
// and allocations. Unknown resource names are allowed; they show up as
// Unknown in the timeline.
func (d *Document) UpsertProject(p Project) error {
	if errs := ValidateProject(p, nil); len(errs) > 0 {
		return errs
	}
	if i := d.projectIndex(p.Name); i >= 0 {
		d.Projects[i] = p
	} else {
		d.Projects = append(d.Projects, p)
	}
	return nil
}

// DeleteProject removes a project.
func (d *Document) DeleteProject(name string) error {
	i := d.projectIndex(name)
	if i < 0 {
		return notFound("project", name)
	}
	d.Projects = slices.Delete(d.Projects, i, i+1)
	return nil
}

// PruneTeams deletes every team with fewer than minMembers members and
// returns the deleted names. This is a caller policy; the integrity check
// never prunes on its own.
func (d *Document) PruneTeams(minMembers int) ([]string, error) {
	var small []string
	for _, t := range d.Teams {
		if len(t.Members) < minMembers {
			small = append(small, t.Name)
		}
	}
	for _, name := range small {
		if err := d.DeleteTeam(name); err != nil {
			return nil, fmt.Errorf("prune teams: %w", err)
		}
	}
	return small, nil
}

// dropProjectReferences removes name from every project. A project whose
// explicit allocations all belonged to name keeps no resources, so the
// remaining assignees are not promoted to the implicit 100% rows.
func (d *Document) dropProjectReferences(name string) {
	for i := range d.Projects {
		p := &d.Projects[i]
		explicit := p.HasExplicitAllocations()
		p.AssignedResources = removeName(p.AssignedResources, name)
		p.Allocations = slices.DeleteFunc(p.Allocations, func(a Allocation) bool { return a.Resource == name })
		if explicit && !p.HasExplicitAllocations() {
			p.AssignedResources = nil
		}
	}
}
