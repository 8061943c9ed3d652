/*
Package generic provides the date and quantity primitives the income engine
is built on.

PURPOSE:
  The engine only ever reasons about whole calendar days and exact decimal
  quantities. This package pins both down once so that every other package
  (engine, stores, API, CLI) agrees on what "March 1st" and "$800.00" mean.

KEY CONCEPTS IN THIS FILE (types.go):
  - Decimal helpers: parsing stored text and guarded division

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift when
     summing hundreds of hours x rate products
  2. Naive dates: TimePoint has no timezone, only a calendar day
  3. Total functions: a zero divisor yields zero, never a panic

USAGE:
  rate := decimal.NewFromInt(100)
  income := rate.Mul(decimal.NewFromFloat(7.5))
  perDay := generic.SafeDiv(target, decimal.NewFromInt(int64(workDays)))

SEE ALSO:
  - time.go: TimePoint and month helpers
  - period.go: Inclusive date ranges
  - errors.go: Sentinel errors shared by stores and handlers
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

// MustParseDecimal parses s, returning zero for malformed input. Stores use
// it on columns they wrote themselves.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// SafeDiv returns num/den, or zero when den is zero.
func SafeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}
