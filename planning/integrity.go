package planning

import (
	"slices"
	"strings"
)

// =============================================================================
// RELATIONSHIP INTEGRITY
// =============================================================================

// Membership reports a record attributed to more than one group.
type Membership struct {
	Name   string
	Groups []string
}

// IntegrityReport lists structural defects in the membership data. It is a
// diagnostic only; nothing is corrected.
type IntegrityReport struct {
	Cycles                [][]string
	MultiTeam             []Membership
	MultiDepartmentPeople []Membership
	MultiDepartmentTeams  []Membership
}

// Clean reports whether no defect was found.
func (r *IntegrityReport) Clean() bool {
	return len(r.Cycles) == 0 &&
		len(r.MultiTeam) == 0 &&
		len(r.MultiDepartmentPeople) == 0 &&
		len(r.MultiDepartmentTeams) == 0
}

// IssueCount is the total number of reported defects.
func (r *IntegrityReport) IssueCount() int {
	return len(r.Cycles) + len(r.MultiTeam) + len(r.MultiDepartmentPeople) + len(r.MultiDepartmentTeams)
}

// CheckIntegrity scans membership fields for people in several teams,
// people and teams attributed to several departments, and membership cycles.
func CheckIntegrity(people []Person, teams []Team, departments []Department) *IntegrityReport {
	return &IntegrityReport{
		Cycles:                buildMembershipGraph(people, teams, departments).cycles(),
		MultiTeam:             multiTeamPeople(teams),
		MultiDepartmentPeople: multiDepartmentPeople(people, departments),
		MultiDepartmentTeams:  multiDepartmentTeams(teams, departments),
	}
}

// groupIndex collects group names per member, remembering first-seen order.
type groupIndex struct {
	order  []string
	groups map[string][]string
}

func newGroupIndex() *groupIndex {
	return &groupIndex{groups: make(map[string][]string)}
}

func (g *groupIndex) add(member, group string) {
	if member == "" || group == "" {
		return
	}
	existing, seen := g.groups[member]
	if !seen {
		g.order = append(g.order, member)
	}
	if !slices.Contains(existing, group) {
		g.groups[member] = append(existing, group)
	}
}

func (g *groupIndex) multiples() []Membership {
	out := []Membership{}
	for _, name := range g.order {
		if groups := g.groups[name]; len(groups) > 1 {
			out = append(out, Membership{Name: name, Groups: groups})
		}
	}
	return out
}

func multiTeamPeople(teams []Team) []Membership {
	idx := newGroupIndex()
	for _, t := range teams {
		for _, m := range t.Members {
			idx.add(m, t.Name)
		}
	}
	return idx.multiples()
}

// multiDepartmentPeople merges direct department listings with the person's
// own department field. Placeholder departments don't count.
func multiDepartmentPeople(people []Person, departments []Department) []Membership {
	idx := newGroupIndex()
	for _, d := range departments {
		for _, m := range d.Members {
			idx.add(m, d.Name)
		}
	}
	for _, p := range people {
		if isPlaceholder(p.Department) {
			continue
		}
		idx.add(p.Name, p.Department)
	}
	return idx.multiples()
}

// multiDepartmentTeams compares the team's department field with every
// department that lists the team.
func multiDepartmentTeams(teams []Team, departments []Department) []Membership {
	idx := newGroupIndex()
	for _, d := range departments {
		for _, t := range d.Teams {
			idx.add(t, d.Name)
		}
	}
	for _, t := range teams {
		if isPlaceholder(t.Department) {
			continue
		}
		idx.add(t.Name, t.Department)
	}
	return idx.multiples()
}

func isPlaceholder(name string) bool {
	return name == "" || name == Unassigned
}

// =============================================================================
// MEMBERSHIP GRAPH
// =============================================================================

type graphNode struct {
	kind ResourceKind
	name string
}

type membershipGraph struct {
	nodes []graphNode
	known map[graphNode]bool
	edges map[graphNode][]graphNode
}

// buildMembershipGraph derives one adjacency list from the membership
// fields:
//
//	person -> team        team members, person.Team
//	person -> department  department members, person.Department
//	team -> department    team.Department, only if that department lists the team
//	department -> team    department.Teams
func buildMembershipGraph(people []Person, teams []Team, departments []Department) *membershipGraph {
	g := &membershipGraph{known: make(map[graphNode]bool), edges: make(map[graphNode][]graphNode)}

	listed := make(map[string]map[string]bool, len(departments))
	for _, d := range departments {
		if listed[d.Name] == nil {
			listed[d.Name] = make(map[string]bool)
		}
		for _, t := range d.Teams {
			listed[d.Name][t] = true
		}
	}

	for _, p := range people {
		person := graphNode{KindPerson, p.Name}
		g.addNode(person)
		if !isPlaceholder(p.Team) {
			g.addEdge(person, graphNode{KindTeam, p.Team})
		}
		if !isPlaceholder(p.Department) {
			g.addEdge(person, graphNode{KindDepartment, p.Department})
		}
	}
	for _, t := range teams {
		team := graphNode{KindTeam, t.Name}
		g.addNode(team)
		for _, m := range t.Members {
			g.addEdge(graphNode{KindPerson, m}, team)
		}
		if listed[t.Department][t.Name] {
			g.addEdge(team, graphNode{KindDepartment, t.Department})
		}
	}
	for _, d := range departments {
		dept := graphNode{KindDepartment, d.Name}
		g.addNode(dept)
		for _, m := range d.Members {
			g.addEdge(graphNode{KindPerson, m}, dept)
		}
		for _, t := range d.Teams {
			g.addEdge(dept, graphNode{KindTeam, t})
		}
	}
	return g
}

func (g *membershipGraph) addNode(n graphNode) {
	if !g.known[n] {
		g.known[n] = true
		g.nodes = append(g.nodes, n)
	}
}

func (g *membershipGraph) addEdge(from, to graphNode) {
	g.addNode(from)
	g.addNode(to)
	if !slices.Contains(g.edges[from], to) {
		g.edges[from] = append(g.edges[from], to)
	}
}

// cycles runs a DFS from every unvisited node. A back edge to a node on the
// current path closes a cycle; the edge straight back to the parent is
// skipped so a team and its department don't count as a cycle.
// Rotations of the same cycle are reported once.
func (g *membershipGraph) cycles() [][]string {
	found := [][]string{}
	seen := make(map[string]bool)
	visited := make(map[graphNode]bool)
	onPath := make(map[graphNode]int)
	var path []graphNode

	var visit func(n, parent graphNode, hasParent bool)
	visit = func(n, parent graphNode, hasParent bool) {
		visited[n] = true
		onPath[n] = len(path)
		path = append(path, n)

		for _, next := range g.edges[n] {
			if hasParent && next == parent {
				continue
			}
			if at, ok := onPath[next]; ok {
				cycle := canonicalRotation(path[at:])
				key := cycleKey(cycle)
				if !seen[key] {
					seen[key] = true
					found = append(found, nodeNames(cycle))
				}
				continue
			}
			if !visited[next] {
				visit(next, n, true)
			}
		}

		path = path[:len(path)-1]
		delete(onPath, n)
	}

	for _, n := range g.nodes {
		if !visited[n] {
			visit(n, graphNode{}, false)
		}
	}
	return found
}

func nodeNames(nodes []graphNode) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.name
	}
	return names
}

// cycleKey identifies a rotated cycle by kind and name, so a team and a
// department sharing a name are told apart. Reported cycles still carry
// bare names, which can make two distinct cycles print the same.
func cycleKey(cycle []graphNode) string {
	parts := make([]string, len(cycle))
	for i, n := range cycle {
		parts[i] = string(n.kind) + ":" + n.name
	}
	return strings.Join(parts, "\x1f")
}

// canonicalRotation rotates the cycle to start at its smallest name, kind
// breaking ties.
func canonicalRotation(cycle []graphNode) []graphNode {
	if len(cycle) == 0 {
		return cycle
	}
	start := 0
	for i, n := range cycle {
		first := cycle[start]
		if n.name < first.name || (n.name == first.name && n.kind < first.kind) {
			start = i
		}
	}
	return append(slices.Clone(cycle[start:]), cycle[:start]...)
}
