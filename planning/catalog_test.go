package planning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/resource-planner/planning"
)

func TestClassify(t *testing.T) {
	doc := teamDocument()
	catalog := doc.Catalog()

	tests := []struct {
		name string
		want planning.Classification
	}{
		{"Alice", planning.Classification{Kind: planning.KindPerson, Department: "Engineering", Team: "T1"}},
		{"T1", planning.Classification{Kind: planning.KindTeam, Department: "Engineering"}},
		{"Engineering", planning.Classification{Kind: planning.KindDepartment, Department: "Engineering"}},
		{"Zed", planning.Classification{Kind: planning.KindUnknown, Department: "Unknown"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.Classify(tt.name))
		})
	}
}

func TestClassify_UnknownIsSoftFailure(t *testing.T) {
	// GIVEN: A name in no catalog, and no catalog at all
	// THEN: Both classify as (Unknown, "Unknown", "") without error
	got := planning.Classify("Nobody", planning.NewCatalog(nil, nil, nil))
	assert.Equal(t, planning.KindUnknown, got.Kind)
	assert.Equal(t, planning.UnknownDepartment, got.Department)
	assert.Empty(t, got.Team)

	assert.Equal(t, got, planning.Classify("Nobody", nil))
}

func TestClassify_PersonWinsNameCollision(t *testing.T) {
	// GIVEN: "Ops" is both a person and a department
	catalog := planning.NewCatalog(
		[]planning.Person{person("Ops", "Engineering", "", 10)},
		nil,
		[]planning.Department{{Name: "Ops"}},
	)

	// THEN: Lookup order is person, team, department
	assert.Equal(t, planning.KindPerson, catalog.Classify("Ops").Kind)
}

func TestCatalog_FirstRecordWins(t *testing.T) {
	catalog := planning.NewCatalog([]planning.Person{
		person("Alice", "Engineering", "", 100),
		person("Alice", "Sales", "", 999),
	}, nil, nil)

	p, ok := catalog.Person("Alice")
	assert.True(t, ok)
	assert.Equal(t, "Engineering", p.Department)
}

func TestCatalog_RecordLookups(t *testing.T) {
	catalog := teamDocument().Catalog()

	team, ok := catalog.Team("T1")
	assert.True(t, ok)
	assert.Equal(t, []string{"Alice", "Bob"}, team.Members)

	dept, ok := catalog.Department("Engineering")
	assert.True(t, ok)
	assert.Equal(t, []string{"T1"}, dept.Teams)

	// Lookups are per kind
	_, ok = catalog.Team("Engineering")
	assert.False(t, ok)
	_, ok = catalog.Person("T1")
	assert.False(t, ok)
}

func TestCatalog_DailyCost(t *testing.T) {
	doc := teamDocument()
	doc.Teams[0].Members = append(doc.Teams[0].Members, "Ghost")
	catalog := doc.Catalog()

	assert.Equal(t, "100", catalog.DailyCost("Alice").String())
	// Unknown members add nothing
	assert.Equal(t, "250", catalog.DailyCost("T1").String())
	assert.True(t, catalog.DailyCost("Engineering").IsZero())
	assert.True(t, catalog.DailyCost("Ghost").IsZero())
	assert.True(t, catalog.Has("T1"))
	assert.False(t, catalog.Has("Ghost"))
}

func TestPerson_Capacity(t *testing.T) {
	p := person("Alice", "Engineering", "", 100)
	assert.Equal(t, 40.0, p.CapacityHoursPerWeek())
	assert.InDelta(t, 173.2, p.CapacityHoursPerMonth(), 1e-9)
	assert.True(t, p.WorksOn(weekdays[0]))
}
