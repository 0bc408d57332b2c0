package planning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/planning"
)

func TestUpsertPerson_MovesBetweenTeams(t *testing.T) {
	// GIVEN: Alice in T1, and an empty team T2
	doc := teamDocument()
	require.NoError(t, doc.UpsertTeam(planning.Team{Name: "T2", Department: "Engineering"}))

	// WHEN: Alice's team changes to T2
	alice := person("Alice", "Engineering", "T2", 100)
	require.NoError(t, doc.UpsertPerson(alice))

	// THEN: Both member lists follow
	t1, _ := doc.Team("T1")
	t2, _ := doc.Team("T2")
	assert.Equal(t, []string{"Bob"}, t1.Members)
	assert.Equal(t, []string{"Alice"}, t2.Members)
	assert.Len(t, doc.People, 2)
}

func TestUpsertPerson_Rejections(t *testing.T) {
	doc := teamDocument()

	err := doc.UpsertPerson(person("T1", "Engineering", "", 100))
	assert.ErrorIs(t, err, generic.ErrDuplicateName)
	assert.True(t, generic.IsConflict(err))

	err = doc.UpsertPerson(planning.Person{Name: "NoDays", DailyWorkHours: 8})
	assert.ErrorIs(t, err, generic.ErrMissingField)
	assert.True(t, generic.IsClientError(err))
}

func TestDeletePerson_DropsEveryReference(t *testing.T) {
	// GIVEN: Alice is a team member, a department member and on a project
	doc := teamDocument()
	doc.Departments[0].Members = []string{"Alice"}
	p := project("Launch", 1, 5, "Alice", "Bob")
	p.Allocations = []planning.Allocation{allocation("Alice", 50, 1, 5), allocation("Bob", 50, 1, 5)}
	doc.Projects = []planning.Project{p}

	// WHEN: Deleting Alice
	require.NoError(t, doc.DeletePerson("Alice"))

	// THEN: No reference to Alice survives
	_, ok := doc.Person("Alice")
	assert.False(t, ok)
	assert.Equal(t, []string{"Bob"}, doc.Teams[0].Members)
	assert.Empty(t, doc.Departments[0].Members)
	assert.Equal(t, []string{"Bob"}, doc.Projects[0].AssignedResources)
	require.Len(t, doc.Projects[0].Allocations, 1)
	assert.Equal(t, "Bob", doc.Projects[0].Allocations[0].Resource)
}

func TestDeletePerson_LastAllocationDoesNotBookOthers(t *testing.T) {
	// GIVEN: Launch assigns Alice and Bob, but only Alice has an allocation
	doc := teamDocument()
	p := project("Launch", 1, 5, "Alice", "Bob")
	p.Allocations = []planning.Allocation{allocation("Alice", 50, 1, 5)}
	doc.Projects = []planning.Project{p}

	before, err := planning.BuildTimeline(doc.Projects, doc.Catalog())
	require.NoError(t, err)
	require.Len(t, before.Rows, 1)
	assert.Equal(t, "Alice", before.Rows[0].Resource)

	// WHEN: Deleting Alice
	require.NoError(t, doc.DeletePerson("Alice"))

	// THEN: Bob is not promoted to a full-span 100% booking
	assert.Empty(t, doc.Projects[0].AssignedResources)
	assert.Empty(t, doc.Projects[0].Allocations)

	after, err := planning.BuildTimeline(doc.Projects, doc.Catalog())
	require.NoError(t, err)
	assert.Empty(t, after.Rows)
}

func TestDeleteTeam_LastAllocationDoesNotBookOthers(t *testing.T) {
	// GIVEN: Launch assigns T1 and Bob, only T1 has an allocation
	doc := teamDocument()
	p := project("Launch", 1, 5, "T1", "Bob")
	p.Allocations = []planning.Allocation{allocation("T1", 40, 1, 5)}
	doc.Projects = []planning.Project{p}

	// WHEN: Deleting the team
	require.NoError(t, doc.DeleteTeam("T1"))

	// THEN: The project keeps no resources
	assert.Empty(t, doc.Projects[0].AssignedResources)
	assert.Empty(t, doc.Projects[0].Allocations)
}

func TestUpsertTeam_SyncsPersonTeamField(t *testing.T) {
	// GIVEN: T1 with Alice and Bob
	doc := teamDocument()

	// WHEN: T1 is saved with only Bob, and moves department
	require.NoError(t, doc.UpsertDepartment(planning.Department{Name: "Ops"}))
	require.NoError(t, doc.UpsertTeam(planning.Team{Name: "T1", Department: "Ops", Members: []string{"Bob"}}))

	// THEN: Alice loses the team, department team lists follow the move
	alice, _ := doc.Person("Alice")
	bob, _ := doc.Person("Bob")
	assert.Empty(t, alice.Team)
	assert.Equal(t, "T1", bob.Team)

	eng, _ := doc.Department("Engineering")
	ops, _ := doc.Department("Ops")
	assert.Empty(t, eng.Teams)
	assert.Equal(t, []string{"T1"}, ops.Teams)
}

func TestDeleteTeam(t *testing.T) {
	doc := teamDocument()
	doc.Projects = []planning.Project{project("Launch", 1, 5, "T1")}

	require.NoError(t, doc.DeleteTeam("T1"))

	for _, p := range doc.People {
		assert.Empty(t, p.Team)
	}
	assert.Empty(t, doc.Departments[0].Teams)
	assert.Empty(t, doc.Projects[0].AssignedResources)
	assert.ErrorIs(t, doc.DeleteTeam("T1"), generic.ErrNotFound)
}

func TestUpsertDepartment_AdoptsUnplacedTeams(t *testing.T) {
	// GIVEN: One team with no department, one already placed
	doc := planning.NewDocument()
	require.NoError(t, doc.UpsertTeam(planning.Team{Name: "Loose"}))
	require.NoError(t, doc.UpsertTeam(planning.Team{Name: "Placed", Department: "Sales"}))

	// WHEN: A department lists both
	require.NoError(t, doc.UpsertDepartment(planning.Department{Name: "Eng", Teams: []string{"Loose", "Placed"}}))

	// THEN: Only the unplaced team adopts it
	loose, _ := doc.Team("Loose")
	placed, _ := doc.Team("Placed")
	assert.Equal(t, "Eng", loose.Department)
	assert.Equal(t, "Sales", placed.Department)
}

func TestDeleteDepartment_ReassignsToUnassigned(t *testing.T) {
	doc := teamDocument()

	require.NoError(t, doc.DeleteDepartment("Engineering"))

	for _, p := range doc.People {
		assert.Equal(t, planning.Unassigned, p.Department)
	}
	assert.Equal(t, planning.Unassigned, doc.Teams[0].Department)
	assert.Empty(t, doc.Departments)
	assert.ErrorIs(t, doc.DeleteDepartment("Engineering"), generic.ErrNotFound)
}

func TestUpsertProject(t *testing.T) {
	doc := planning.NewDocument()

	require.NoError(t, doc.UpsertProject(project("P1", 1, 5, "Somebody")))
	updated := project("P1", 1, 9, "Somebody")
	require.NoError(t, doc.UpsertProject(updated))

	require.Len(t, doc.Projects, 1)
	assert.True(t, doc.Projects[0].End.Equal(jan(9)))

	err := doc.UpsertProject(project("Bad", 9, 1))
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
	assert.Len(t, doc.Projects, 1)

	require.NoError(t, doc.DeleteProject("P1"))
	assert.True(t, generic.IsNotFound(doc.DeleteProject("P1")))
}

func TestPruneTeams(t *testing.T) {
	// GIVEN: T1 with two members, Solo with one, Empty with none
	doc := teamDocument()
	require.NoError(t, doc.UpsertTeam(planning.Team{Name: "Solo", Members: []string{"Alice"}}))
	require.NoError(t, doc.UpsertTeam(planning.Team{Name: "Empty"}))

	// WHEN: Pruning teams under two members
	pruned, err := doc.PruneTeams(2)
	require.NoError(t, err)

	// THEN: Only T1 survives
	assert.Equal(t, []string{"Solo", "Empty"}, pruned)
	require.Len(t, doc.Teams, 1)
	assert.Equal(t, "T1", doc.Teams[0].Name)

	// AND: Alice's team field was cleared by the Solo delete
	alice, _ := doc.Person("Alice")
	assert.Empty(t, alice.Team)
}

func TestClone_IsDeep(t *testing.T) {
	doc := overlapDocument()
	clone := doc.Clone()

	clone.People[0].WorkDays[0] = 0
	clone.Projects[1].Allocations[0].Percentage = 99
	clone.Departments[0].Members[0] = "Mallory"

	assert.Equal(t, weekdays[0], doc.People[0].WorkDays[0])
	assert.Equal(t, 50.0, doc.Projects[1].Allocations[0].Percentage)
	assert.Equal(t, "Alice", doc.Departments[0].Members[0])
}
