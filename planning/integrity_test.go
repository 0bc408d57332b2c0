package planning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/resource-planner/planning"
)

func TestCheckIntegrity_CleanDocument(t *testing.T) {
	doc := teamDocument()

	report := planning.CheckIntegrity(doc.People, doc.Teams, doc.Departments)

	assert.True(t, report.Clean())
	assert.Zero(t, report.IssueCount())
	assert.Empty(t, report.Cycles)
}

func TestCheckIntegrity_PersonInTwoTeams(t *testing.T) {
	// GIVEN: Carol is listed by teams X and Y
	people := []planning.Person{person("Carol", "", "X", 100)}
	teams := []planning.Team{
		{Name: "X", Members: []string{"Carol"}},
		{Name: "Y", Members: []string{"Carol"}},
	}

	// WHEN: Checking integrity
	report := planning.CheckIntegrity(people, teams, nil)

	// THEN: Carol is reported once with both teams, in listing order
	require.Len(t, report.MultiTeam, 1)
	assert.Equal(t, planning.Membership{Name: "Carol", Groups: []string{"X", "Y"}}, report.MultiTeam[0])
	assert.False(t, report.Clean())
}

func TestCheckIntegrity_TeamDepartmentMismatch(t *testing.T) {
	// GIVEN: Team Core says Ops, but Eng lists Core
	teams := []planning.Team{{Name: "Core", Department: "Ops"}}
	departments := []planning.Department{
		{Name: "Eng", Teams: []string{"Core"}},
		{Name: "Ops"},
	}

	report := planning.CheckIntegrity(nil, teams, departments)

	// THEN: Core is attributed to both; it is not a cycle
	require.Len(t, report.MultiDepartmentTeams, 1)
	assert.Equal(t, "Core", report.MultiDepartmentTeams[0].Name)
	assert.ElementsMatch(t, []string{"Eng", "Ops"}, report.MultiDepartmentTeams[0].Groups)
	assert.Empty(t, report.Cycles)
}

func TestCheckIntegrity_PersonInTwoDepartments(t *testing.T) {
	// GIVEN: Dana's own field says Sales, Engineering lists her directly
	people := []planning.Person{person("Dana", "Sales", "", 100)}
	departments := []planning.Department{
		{Name: "Engineering", Members: []string{"Dana"}},
		{Name: "Sales"},
	}

	report := planning.CheckIntegrity(people, nil, departments)

	require.Len(t, report.MultiDepartmentPeople, 1)
	assert.ElementsMatch(t, []string{"Engineering", "Sales"}, report.MultiDepartmentPeople[0].Groups)
}

func TestCheckIntegrity_PlaceholderDepartmentIgnored(t *testing.T) {
	// GIVEN: A person left Unassigned by a delete, listed by one department
	people := []planning.Person{person("Eve", planning.Unassigned, "", 100)}
	departments := []planning.Department{{Name: "Engineering", Members: []string{"Eve"}}}

	report := planning.CheckIntegrity(people, nil, departments)

	assert.Empty(t, report.MultiDepartmentPeople)
	assert.True(t, report.Clean())
}

func TestCheckIntegrity_TeamDepartmentCycle(t *testing.T) {
	// GIVEN: Two departments that both list two teams, each team belonging
	// to one of them
	teams := []planning.Team{
		{Name: "Core", Department: "Eng"},
		{Name: "Platform", Department: "Ops"},
	}
	departments := []planning.Department{
		{Name: "Eng", Teams: []string{"Core", "Platform"}},
		{Name: "Ops", Teams: []string{"Core", "Platform"}},
	}

	// WHEN: Checking integrity
	report := planning.CheckIntegrity(nil, teams, departments)

	// THEN: One cycle through all four, starting at the smallest name
	require.Len(t, report.Cycles, 1)
	assert.Equal(t, []string{"Core", "Eng", "Platform", "Ops"}, report.Cycles[0])

	// AND: Both teams are attributed to both departments
	assert.Len(t, report.MultiDepartmentTeams, 2)
	assert.Equal(t, 3, report.IssueCount())
}

func TestCheckIntegrity_SameNamedTeamsAndDepartmentsKeepSeparateCycles(t *testing.T) {
	// GIVEN: Every name is both a team and a department. Teams A and C with
	// departments B and D form one loop; teams B and D with departments A
	// and C form another
	teams := []planning.Team{
		{Name: "A", Department: "B"},
		{Name: "C", Department: "D"},
		{Name: "B", Department: "C"},
		{Name: "D", Department: "A"},
	}
	departments := []planning.Department{
		{Name: "B", Teams: []string{"A", "C"}},
		{Name: "D", Teams: []string{"A", "C"}},
		{Name: "A", Teams: []string{"B", "D"}},
		{Name: "C", Teams: []string{"B", "D"}},
	}

	// WHEN: Checking integrity
	report := planning.CheckIntegrity(nil, teams, departments)

	// THEN: Both loops are reported even though their names read the same
	require.Len(t, report.Cycles, 2)
	assert.Equal(t, []string{"A", "B", "C", "D"}, report.Cycles[0])
	assert.Equal(t, []string{"A", "B", "C", "D"}, report.Cycles[1])
}

func TestCheckIntegrity_TeamAndOwnDepartmentIsNotACycle(t *testing.T) {
	teams := []planning.Team{{Name: "Core", Department: "Eng"}}
	departments := []planning.Department{{Name: "Eng", Teams: []string{"Core"}}}

	report := planning.CheckIntegrity(nil, teams, departments)

	assert.Empty(t, report.Cycles)
	assert.True(t, report.Clean())
}

func TestCheckIntegrity_Idempotent(t *testing.T) {
	teams := []planning.Team{
		{Name: "Core", Department: "Eng"},
		{Name: "Platform", Department: "Ops"},
	}
	departments := []planning.Department{
		{Name: "Eng", Teams: []string{"Core", "Platform"}},
		{Name: "Ops", Teams: []string{"Core", "Platform"}},
	}

	first := planning.CheckIntegrity(nil, teams, departments)
	second := planning.CheckIntegrity(nil, teams, departments)

	assert.Equal(t, first, second)
}
