package validation

import (
	"github.com/shopspring/decimal"
)

// SumEpsilon is the explicit tolerance for percentage sums. A shareholder
// set is accepted when |sum - 100| <= SumEpsilon. Ratios are decimal, not
// float, so the tolerance only absorbs rounding in the submitted values
// themselves.
var SumEpsilon = decimal.New(1, -6) // 1e-6

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
)

// ratioInRange reports whether r lies in the half-open interval (0,100].
func ratioInRange(r decimal.Decimal) bool {
	return r.GreaterThan(zero) && r.LessThanOrEqual(hundred)
}

// sumsToHundred reports whether sum equals 100 within SumEpsilon.
func sumsToHundred(sum decimal.Decimal) bool {
	return sum.Sub(hundred).Abs().LessThanOrEqual(SumEpsilon)
}
