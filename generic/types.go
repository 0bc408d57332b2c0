/*
Package generic provides the primitives shared by the planning engine.

PURPOSE:
  Calendar days, inclusive periods, money arithmetic and the error taxonomy.
  Nothing here knows about people, teams or projects; the planning package
  builds the domain on top of these types.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: decimal.Decimal amounts (daily cost, row cost, budgets)
  - Percentages: plain float64, 100 = one full day of one resource

DESIGN PRINCIPLES:
  1. Precision: costs use decimal.Decimal, never float64
  2. Percentages stay float64 and are never rounded internally
  3. Days are inclusive on both ends

USAGE:
  cost := generic.ProRate(generic.NewMoney(100), 10, 50) // 500
  p, _ := generic.NewPeriod(start, end)
  p.Len() // inclusive day count

SEE ALSO:
  - time.go: TimePoint and date parsing
  - period.go: Period arithmetic
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PERCENTAGES
// =============================================================================

// FullAllocation is one resource working a whole day on one thing.
const FullAllocation = 100.0

// AllocationEpsilon absorbs float noise when summing fractional percentages
// (33.3 + 33.3 + 33.4 must not read as overallocated).
const AllocationEpsilon = 1e-9

// ExceedsFull reports whether a summed daily load is above 100%.
func ExceedsFull(load float64) bool {
	return load > FullAllocation+AllocationEpsilon
}

// =============================================================================
// MONEY
// =============================================================================

var hundred = decimal.NewFromInt(100)

// NewMoney converts a float amount from a JSON document into a decimal.
func NewMoney(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// MustParseDecimal parses s or returns zero.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ProRate returns daily x days x percentage/100.
func ProRate(daily decimal.Decimal, days int, percentage float64) decimal.Decimal {
	return daily.
		Mul(decimal.NewFromInt(int64(days))).
		Mul(decimal.NewFromFloat(percentage)).
		Div(hundred)
}

// SumMoney adds a list of amounts.
func SumMoney(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
