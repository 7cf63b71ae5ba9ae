// Package balance derives net balances and simplified debts from a group's
// expenses. Nothing here is stored: results are recomputed from the current
// expenses every time.
package balance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/momosplit/internal/expense"
	"github.com/fkhayef/momosplit/internal/money"
)

// ErrCurrencyMismatch is returned when an expense is not in its group's currency
var ErrCurrencyMismatch = errors.New("expense currency does not match group currency")

// Balance is a member's net position in a group. Positive means the group
// owes them; negative means they owe the group.
type Balance struct {
	UserID   int64           `json:"user_id"`
	GroupID  int64           `json:"group_id"`
	Amount   decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// Debt is one transfer that, together with the rest of a simplified debt
// list, settles a group.
type Debt struct {
	From     int64           `json:"from"`
	To       int64           `json:"to"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	GroupID  int64           `json:"group_id"`
}

// ComputeBalances credits each payer with the full expense amount and debits
// each split owner with their share. Expenses of other groups are ignored.
// Users are listed in the order they first appear (payer first, then split
// owners, expense by expense).
func ComputeBalances(groupID int64, currency string, expenses []*expense.Expense) ([]Balance, error) {
	var balances []Balance
	index := make(map[int64]int)

	entry := func(userID int64) *Balance {
		i, ok := index[userID]
		if !ok {
			i = len(balances)
			index[userID] = i
			balances = append(balances, Balance{
				UserID:   userID,
				GroupID:  groupID,
				Amount:   decimal.Zero,
				Currency: currency,
			})
		}
		return &balances[i]
	}

	for _, e := range expenses {
		if e.GroupID != groupID {
			continue
		}
		if !strings.EqualFold(e.Currency, currency) {
			return nil, fmt.Errorf("%w: expense %d is in %s, group %d uses %s",
				ErrCurrencyMismatch, e.ID, e.Currency, groupID, currency)
		}

		payer := entry(e.PaidBy)
		payer.Amount = payer.Amount.Add(e.Amount)

		for _, s := range e.Splits {
			owner := entry(s.UserID)
			owner.Amount = owner.Amount.Sub(s.Amount)
		}
	}

	return balances, nil
}

// Total adds up all balances. For a closed group this is zero within
// money.Tolerance.
func Total(balances []Balance) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Amount)
	}
	return total
}

// Apply returns the balances left after every debt is paid: the debtor's
// balance rises by the amount and the creditor's falls by it.
func Apply(balances []Balance, debts []Debt) []Balance {
	out := make([]Balance, len(balances))
	copy(out, balances)

	index := make(map[int64]int, len(out))
	for i, b := range out {
		index[b.UserID] = i
	}

	for _, d := range debts {
		if i, ok := index[d.From]; ok {
			out[i].Amount = out[i].Amount.Add(d.Amount)
		}
		if i, ok := index[d.To]; ok {
			out[i].Amount = out[i].Amount.Sub(d.Amount)
		}
	}

	return out
}

// Settled reports whether every balance is within tolerance of zero
func Settled(balances []Balance) bool {
	for _, b := range balances {
		if !money.IsNegligible(b.Amount) {
			return false
		}
	}
	return true
}
