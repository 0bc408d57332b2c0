package generic_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/resource-planner/generic"
)

// =============================================================================
// TIME POINT TESTS
// =============================================================================

func TestParseTimePoint(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    generic.TimePoint
		wantErr error
	}{
		{name: "plain date", input: "2024-01-05", want: generic.NewTimePoint(2024, time.January, 5)},
		{name: "surrounding space", input: " 2024-02-29 ", want: generic.NewTimePoint(2024, time.February, 29)},
		{name: "timestamp keeps the day", input: "2024-03-10T15:04:05", want: generic.NewTimePoint(2024, time.March, 10)},
		{name: "empty is missing", input: "", wantErr: generic.ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := generic.ParseTimePoint(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseTimePoint_Garbled(t *testing.T) {
	// GIVEN: A string that is not a date
	// WHEN: Parsing it
	// THEN: The error is not ErrMissingField, so callers can tell the two apart
	_, err := generic.ParseTimePoint("01/05/2024")
	require.Error(t, err)
	assert.False(t, errors.Is(err, generic.ErrMissingField))
}

func TestTimePoint_StringOfZeroIsEmpty(t *testing.T) {
	assert.Equal(t, "", generic.TimePoint{}.String())
	assert.Equal(t, "2024-01-01", generic.NewTimePoint(2024, time.January, 1).String())
}

func TestDaysBetween_CrossesMonthAndLeapDay(t *testing.T) {
	from := generic.NewTimePoint(2024, time.February, 27)
	to := generic.NewTimePoint(2024, time.March, 2)
	assert.Equal(t, 4, generic.DaysBetween(from, to))
	assert.Equal(t, -4, generic.DaysBetween(to, from))
}

func TestParseWeekday(t *testing.T) {
	for input, want := range map[string]time.Weekday{
		"Monday": time.Monday,
		"fri":    time.Friday,
		" SUN ":  time.Sunday,
	} {
		got, err := generic.ParseWeekday(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := generic.ParseWeekday("Funday")
	assert.Error(t, err)
}
