package split

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// EXACT SPLIT
// Caller-chosen amounts are used as given
// =============================================================================

// PercentagesOf reports the share of the total each exact amount represents,
// rounded to two places. Useful for displaying an exact split.
func PercentagesOf(amount decimal.Decimal, amounts []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(amounts))
	if !amount.IsPositive() {
		return out
	}
	for i, a := range amounts {
		out[i] = a.Mul(hundred).Div(amount).Round(2)
	}
	return out
}
