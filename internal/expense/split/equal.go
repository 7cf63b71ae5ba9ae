package split

import (
	"github.com/shopspring/decimal"

	"github.com/fkhayef/momosplit/internal/money"
)

// =============================================================================
// EQUAL SPLIT
// Divides the expense equally among all participants
// =============================================================================

// ComputeEqualSplit divides amount evenly across memberIDs. Each share is
// rounded to minor units and the whole rounding residual goes to the member
// at index 0, so member order matters.
func ComputeEqualSplit(amount decimal.Decimal, memberIDs []int64) ([]Share, error) {
	if err := money.RequirePositive("equal split", amount); err != nil {
		return nil, err
	}
	if err := checkMembers(memberIDs); err != nil {
		return nil, err
	}

	count := decimal.NewFromInt(int64(len(memberIDs)))
	share := money.Round(amount.Div(count))

	shares := make([]Share, len(memberIDs))
	for i, id := range memberIDs {
		shares[i] = Share{UserID: id, Amount: share}
	}

	// residual may be negative when rounding went up, e.g. 200 / 3
	residual := amount.Sub(share.Mul(count))
	if !residual.IsZero() {
		shares[0].Amount = shares[0].Amount.Add(residual)
	}

	return shares, nil
}
