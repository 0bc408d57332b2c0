package generic

// =============================================================================
// PERIOD - Inclusive day range
// =============================================================================

// Period is an inclusive range of calendar days [Start, End].
//
// Examples:
//   - A project running 2024-01-01..2024-01-10 (10 days)
//   - The reporting window of a utilization report
type Period struct {
	Start TimePoint
	End   TimePoint
}

// NewPeriod builds a period, rejecting End before Start.
func NewPeriod(start, end TimePoint) (Period, error) {
	p := Period{Start: start, End: end}
	if !p.Valid() {
		return Period{}, ErrInvalidPeriod
	}
	return p, nil
}

// Valid reports whether both bounds are set and Start <= End.
func (p Period) Valid() bool {
	return !p.Start.IsZero() && !p.End.IsZero() && p.Start.BeforeOrEqual(p.End)
}

// Contains returns true if the day is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Len is the inclusive number of days: (End - Start).days + 1.
func (p Period) Len() int {
	return DaysBetween(p.Start, p.End) + 1
}

// Index returns the zero-based offset of t from Start.
func (p Period) Index(t TimePoint) int {
	return DaysBetween(p.Start, t)
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	days := make([]TimePoint, 0, p.Len())
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Intersect clamps p to other. The bool is false when they do not overlap.
func (p Period) Intersect(other Period) (Period, bool) {
	clamped := Period{
		Start: MaxTimePoint(p.Start, other.Start),
		End:   MinTimePoint(p.End, other.End),
	}
	if clamped.Start.After(clamped.End) {
		return Period{}, false
	}
	return clamped, true
}

// Overlaps reports whether the two periods share at least one day.
func (p Period) Overlaps(other Period) bool {
	_, ok := p.Intersect(other)
	return ok
}

// Within reports whether p lies entirely inside outer.
func (p Period) Within(outer Period) bool {
	return p.Start.AfterOrEqual(outer.Start) && p.End.BeforeOrEqual(outer.End)
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
