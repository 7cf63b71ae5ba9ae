package split

import (
	"github.com/shopspring/decimal"

	"github.com/fkhayef/momosplit/internal/money"
)

// =============================================================================
// PERCENTAGE SPLIT
// Each participant owes round(amount * percent / 100)
// =============================================================================

var hundred = decimal.NewFromInt(100)

// ComputePercentageSplit converts percentages into rounded amounts, one per
// percentage, in order. Percentages are not required to total 100 and no
// remainder is redistributed.
func ComputePercentageSplit(amount decimal.Decimal, percentages []decimal.Decimal) ([]decimal.Decimal, error) {
	if err := money.RequirePositive("percentage split", amount); err != nil {
		return nil, err
	}
	if len(percentages) == 0 {
		return nil, &money.ArithmeticError{Op: "percentage split", Reason: ErrNoParticipants.Error()}
	}

	shares := make([]decimal.Decimal, len(percentages))
	for i, pct := range percentages {
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return nil, ErrPercentageOutOfRange
		}
		shares[i] = money.Round(amount.Mul(pct).Div(hundred))
	}
	return shares, nil
}
