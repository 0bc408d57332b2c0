package factory_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/resource-planner/factory"
	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/planning"
)

const sampleDocument = `{
  "people": [
    {"name": "Alice", "role": "Engineer", "department": "Engineering", "team": "Core",
     "daily_cost": 100, "work_days": ["Monday", "tue", "WEDNESDAY"], "daily_work_hours": 8,
     "skills": ["go"]},
    {"name": "Bob", "department": ["Engineering", "Sales"], "team": null,
     "daily_cost": 150.5, "work_days": ["Monday", "Funday"], "daily_work_hours": 6},
    {"name": "Carol", "team": "Unassigned", "daily_work_hours": 8}
  ],
  "teams": [{"name": "Core", "department": "Engineering", "members": ["Alice"]}],
  "departments": [{"name": "Engineering", "teams": ["Core"]}],
  "projects": [
    {"name": "Launch", "start_date": "2024-01-01", "end_date": "2024-01-10T00:00:00",
     "priority": 1, "allocated_budget": 5000, "assigned_resources": ["Alice"],
     "resource_allocations": [
       {"resource": "Alice", "allocation_percentage": 50, "start_date": "2024-01-02", "end_date": "2024-01-05"}
     ]},
    {"name": "Draft", "start_date": "", "end_date": "someday", "assigned_resources": ["Bob"]}
  ]
}`

func TestParseDocument(t *testing.T) {
	// GIVEN: A loosely typed document
	// WHEN: Parsing it
	doc, dataErrs, err := factory.ParseDocument([]byte(sampleDocument))
	require.NoError(t, err)

	// THEN: Records are typed
	require.Len(t, doc.People, 3)
	alice := doc.People[0]
	assert.Equal(t, "Engineering", alice.Department)
	assert.Equal(t, "Core", alice.Team)
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday}, alice.WorkDays)
	assert.Equal(t, "100", alice.DailyCost.String())

	// AND: Optional and loosely typed fields are normalized
	bob := doc.People[1]
	assert.Equal(t, "Engineering", bob.Department)
	assert.Empty(t, bob.Team)
	assert.Equal(t, "150.5", bob.DailyCost.String())
	assert.Empty(t, doc.People[2].Team)

	launch := doc.Projects[0]
	assert.True(t, launch.End.Equal(generic.NewTimePoint(2024, time.January, 10)))
	require.Len(t, launch.Allocations, 1)
	assert.Equal(t, 50.0, launch.Allocations[0].Percentage)

	// AND: Bad fields are reported, not fatal
	fields := make([]string, 0, len(dataErrs))
	for _, de := range dataErrs {
		fields = append(fields, de.Name+"."+de.Field)
	}
	assert.ElementsMatch(t, []string{
		"Bob.department",
		"Bob.work_days",
		"Draft.start_date",
		"Draft.end_date",
	}, fields)
	assert.True(t, doc.Projects[1].Start.IsZero())
}

func TestParseDocument_MissingDateIsMissingField(t *testing.T) {
	_, dataErrs, err := factory.ParseDocument([]byte(`{"projects":[{"name":"P","end_date":"2024-01-01"}]}`))
	require.NoError(t, err)
	require.Len(t, dataErrs, 1)
	assert.ErrorIs(t, dataErrs[0], generic.ErrMissingField)
}

func TestParseDocument_EmptyAndBroken(t *testing.T) {
	doc, dataErrs, err := factory.ParseDocument([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, dataErrs)
	assert.NotNil(t, doc.People)

	_, _, err = factory.ParseDocument([]byte(`{"people": [`))
	assert.Error(t, err)
}

func TestMarshalDocument_RoundTrip(t *testing.T) {
	// GIVEN: A parsed document
	doc, _, err := factory.ParseDocument([]byte(sampleDocument))
	require.NoError(t, err)

	// WHEN: Writing it and reading it back
	data, err := factory.MarshalDocument(doc)
	require.NoError(t, err)
	again, _, err := factory.ParseDocument(data)
	require.NoError(t, err)

	// THEN: The well-formed records survive unchanged
	assert.Equal(t, doc.People[0].Name, again.People[0].Name)
	assert.Equal(t, doc.People[0].WorkDays, again.People[0].WorkDays)
	assert.True(t, doc.People[1].DailyCost.Equal(again.People[1].DailyCost))
	assert.Equal(t, doc.Teams, again.Teams)
	assert.True(t, doc.Projects[0].Start.Equal(again.Projects[0].Start))
	assert.Equal(t, doc.Projects[0].Allocations[0].Percentage, again.Projects[0].Allocations[0].Percentage)
}

func TestPersonToJSON(t *testing.T) {
	p, errs := factory.PersonFromJSON(factory.PersonJSON{
		Name:           "Alice",
		WorkDays:       []string{"mon", "tue", "wed", "thu", "fri"},
		DailyWorkHours: 8,
	})
	require.Empty(t, errs)

	pj := factory.PersonToJSON(p)

	assert.Equal(t, 40.0, pj.CapacityHoursPerWeek)
	assert.InDelta(t, 173.2, pj.CapacityHoursPerMonth, 1e-9)
	assert.Nil(t, pj.Team)
	assert.NotNil(t, pj.Skills)

	data, err := json.Marshal(pj)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"department":""`)
	assert.Contains(t, string(data), `"team":null`)
}

func TestStringOrList(t *testing.T) {
	tests := []struct {
		in   string
		want factory.StringOrList
	}{
		{`"Eng"`, factory.StringOrList{"Eng"}},
		{`["Eng","Ops"]`, factory.StringOrList{"Eng", "Ops"}},
		{`""`, nil},
		{`null`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got factory.StringOrList
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad factory.StringOrList
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestToJSON_EmptyListsAreArrays(t *testing.T) {
	data, err := factory.MarshalDocument(planning.NewDocument())
	require.NoError(t, err)
	assert.JSONEq(t, `{"people":[],"teams":[],"departments":[],"projects":[]}`, string(data))
}
