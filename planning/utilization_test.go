package planning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/planning"
)

func aggregate(t *testing.T, rows []planning.AllocationRow, opts planning.AggregateOptions) *planning.UtilizationReport {
	t.Helper()
	report, err := planning.Aggregate(rows, opts)
	require.NoError(t, err)
	return report
}

func window(from, to int) planning.AggregateOptions {
	start, end := jan(from), jan(to)
	return planning.AggregateOptions{From: &start, To: &end}
}

func TestAggregate_OverlappingProjects(t *testing.T) {
	// GIVEN: Alice 100% on P1 (Jan 1-10) and 50% on P2 (Jan 5-14)
	doc := overlapDocument()
	tl, err := planning.BuildTimeline(doc.Projects, doc.Catalog())
	require.NoError(t, err)

	// WHEN: Aggregating over the derived period Jan 1-14
	report := aggregate(t, tl.Rows, planning.AggregateOptions{})

	// THEN: Days 1-4 at 100, days 5-10 at 150, days 11-14 at 50
	assert.True(t, report.Period.Start.Equal(jan(1)))
	assert.True(t, report.Period.End.Equal(jan(14)))

	alice, ok := report.Resource("Alice")
	require.True(t, ok)
	assert.Equal(t, 14, alice.PeriodDays)
	assert.Equal(t, 14, alice.AllocatedDays)
	assert.Equal(t, 6, alice.ConflictDays)
	assert.Equal(t, 150.0, alice.PeakAllocation)
	assert.InDelta(t, 85.714, alice.Utilization, 0.001)
	assert.InDelta(t, 21.43, alice.Overallocation, 0.01)

	// AND: Six conflict days, Jan 5 through Jan 10, both projects listed
	require.Len(t, report.Conflicts, 6)
	for i, c := range report.Conflicts {
		assert.Equal(t, "Alice", c.Resource)
		assert.True(t, c.Date.Equal(jan(5+i)), "conflict %d on %s", i, c.Date)
		assert.Equal(t, 150.0, c.TotalAllocation)
		assert.Equal(t, []string{"P1", "P2"}, c.Projects)
	}
}

func TestAggregate_ConstantLoadIsReturnedExactly(t *testing.T) {
	// GIVEN: A single 37.3% row for the whole period
	rows := []planning.AllocationRow{row("Alice", "P1", 37.3, 1, 31)}

	report := aggregate(t, rows, planning.AggregateOptions{})

	// THEN: Utilization equals the load without float drift
	u, ok := report.Resource("Alice")
	require.True(t, ok)
	assert.Equal(t, 37.3, u.Utilization)
	assert.Zero(t, u.Overallocation)
	assert.Empty(t, report.Conflicts)
}

func TestAggregate_ExactlyFullIsNotAConflict(t *testing.T) {
	// GIVEN: Fractional loads that sum to 100 only up to float noise
	rows := []planning.AllocationRow{
		row("Alice", "P1", 33.3, 1, 5),
		row("Alice", "P2", 33.3, 1, 5),
		row("Alice", "P3", 33.4, 1, 5),
	}

	report := aggregate(t, rows, planning.AggregateOptions{})

	// THEN: No conflict is raised
	assert.Empty(t, report.Conflicts)
	u, _ := report.Resource("Alice")
	assert.Zero(t, u.ConflictDays)
	assert.InDelta(t, 100.0, u.Utilization, 1e-9)
	assert.LessOrEqual(t, u.Utilization, 100.0)
}

func TestAggregate_UtilizationIsCapped(t *testing.T) {
	// GIVEN: 300% for the whole period
	rows := []planning.AllocationRow{
		row("Alice", "P1", 100, 1, 4),
		row("Alice", "P2", 100, 1, 4),
		row("Alice", "P3", 100, 1, 4),
	}

	report := aggregate(t, rows, planning.AggregateOptions{})

	u, _ := report.Resource("Alice")
	assert.Equal(t, 100.0, u.Utilization)
	assert.Equal(t, 200.0, u.Overallocation)
	assert.Equal(t, 4, u.ConflictDays)
}

func TestAggregate_DuplicateRowsAreSummed(t *testing.T) {
	// GIVEN: The same row twice
	rows := []planning.AllocationRow{
		row("Alice", "P1", 60, 1, 2),
		row("Alice", "P1", 60, 1, 2),
	}

	report := aggregate(t, rows, planning.AggregateOptions{})

	// THEN: The loads add up, the project is listed per row
	require.Len(t, report.Conflicts, 2)
	assert.Equal(t, 120.0, report.Conflicts[0].TotalAllocation)
	assert.Equal(t, []string{"P1", "P1"}, report.Conflicts[0].Projects)
}

func TestAggregate_WindowClampsRows(t *testing.T) {
	// GIVEN: A row Jan 1-10 and a window Jan 5-14
	rows := []planning.AllocationRow{row("Alice", "P1", 100, 1, 10)}

	report := aggregate(t, rows, window(5, 14))

	// THEN: Only the six days inside the window count, over ten window days
	u, ok := report.Resource("Alice")
	require.True(t, ok)
	assert.Equal(t, 10, u.PeriodDays)
	assert.Equal(t, 6, u.AllocatedDays)
	assert.InDelta(t, 60.0, u.Utilization, 1e-9)
}

func TestAggregate_WindowMissesAllRows(t *testing.T) {
	rows := []planning.AllocationRow{row("Alice", "P1", 100, 1, 10)}

	t.Run("explicit window", func(t *testing.T) {
		report := aggregate(t, rows, window(20, 25))
		assert.Empty(t, report.Utilization)
		assert.Empty(t, report.Conflicts)
	})

	t.Run("from after every row", func(t *testing.T) {
		from := jan(20)
		report := aggregate(t, rows, planning.AggregateOptions{From: &from})
		assert.Empty(t, report.Utilization)
		assert.Empty(t, report.Conflicts)
	})
}

func TestAggregate_InvertedWindow(t *testing.T) {
	rows := []planning.AllocationRow{row("Alice", "P1", 100, 1, 10)}

	_, err := planning.Aggregate(rows, window(10, 1))
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
}

func TestAggregate_NoRows(t *testing.T) {
	report := aggregate(t, nil, planning.AggregateOptions{})
	assert.NotNil(t, report.Utilization)
	assert.NotNil(t, report.Conflicts)
	assert.Empty(t, report.Utilization)
}

func TestAggregate_UtilizationMatchesDailyAverage(t *testing.T) {
	// Utilization is the mean of the capped daily loads, and
	// overallocation the mean excess.
	rows := []planning.AllocationRow{
		row("Alice", "P1", 80, 1, 6),
		row("Alice", "P2", 40, 4, 9),
		row("Alice", "P3", 25, 8, 12),
	}

	report := aggregate(t, rows, planning.AggregateOptions{})

	daily := map[int]float64{}
	for _, r := range rows {
		for d := r.Start.Time.Day(); d <= r.End.Time.Day(); d++ {
			daily[d] += r.Percentage
		}
	}
	var capped, excess float64
	for d := 1; d <= 12; d++ {
		capped += min(daily[d], 100)
		excess += max(daily[d]-100, 0)
	}

	u, _ := report.Resource("Alice")
	assert.InDelta(t, capped/12, u.Utilization, 1e-9)
	assert.InDelta(t, excess/12, u.Overallocation, 1e-9)
	assert.Equal(t, 3, u.ConflictDays)
	assert.Len(t, report.ConflictsFor("Alice"), 3)
}

func TestUtilizationReport_Lookups(t *testing.T) {
	rows := []planning.AllocationRow{
		row("Alice", "P1", 150, 1, 1),
		row("Bob", "P1", 200, 1, 2),
	}

	report := aggregate(t, rows, planning.AggregateOptions{})

	assert.Len(t, report.ConflictsFor("Alice"), 1)
	assert.Len(t, report.ConflictsFor("Bob"), 2)
	assert.Empty(t, report.ConflictsFor("Carol"))

	_, ok := report.Resource("Carol")
	assert.False(t, ok)

	// Resources keep first-seen order
	require.Len(t, report.Utilization, 2)
	assert.Equal(t, "Alice", report.Utilization[0].Resource)
	assert.Equal(t, planning.KindPerson, report.Utilization[0].Type)
}
