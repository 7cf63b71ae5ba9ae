package balance

import (
	"github.com/shopspring/decimal"

	"github.com/fkhayef/momosplit/internal/money"
)

// SimplifyDebts reduces balances to a short list of transfers. Each round the
// largest creditor is paid by the largest debtor (ties go to whoever appears
// first in balances) for the smaller of the two amounts, which zeroes at least
// one of them. Balances closer to zero than one minor unit are treated as
// settled.
//
// The result is greedy. It is usually, but not always, the fewest transfers
// possible.
func SimplifyDebts(balances []Balance) []Debt {
	if len(balances) == 0 {
		return nil
	}

	remaining := make([]decimal.Decimal, len(balances))
	for i, b := range balances {
		remaining[i] = b.Amount
	}

	var debts []Debt
	for {
		creditor, debtor := -1, -1
		for i, amount := range remaining {
			if money.IsNegligible(amount) {
				continue
			}
			if amount.IsPositive() && (creditor < 0 || amount.GreaterThan(remaining[creditor])) {
				creditor = i
			}
			if amount.IsNegative() && (debtor < 0 || amount.LessThan(remaining[debtor])) {
				debtor = i
			}
		}
		if creditor < 0 || debtor < 0 {
			break
		}

		transfer := decimal.Min(remaining[creditor], remaining[debtor].Neg())
		debts = append(debts, Debt{
			From:     balances[debtor].UserID,
			To:       balances[creditor].UserID,
			Amount:   transfer,
			Currency: balances[creditor].Currency,
			GroupID:  balances[creditor].GroupID,
		})

		remaining[creditor] = remaining[creditor].Sub(transfer)
		remaining[debtor] = remaining[debtor].Add(transfer)
	}

	return debts
}

// DebtBetween returns what from owes to in a simplified debt list, or zero
func DebtBetween(debts []Debt, from, to int64) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		if d.From == from && d.To == to {
			total = total.Add(d.Amount)
		}
	}
	return total
}
