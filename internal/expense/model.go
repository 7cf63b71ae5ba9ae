package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/momosplit/internal/expense/split"
)

// Kind separates ordinary shared expenses from recorded settle-up payments
type Kind string

const (
	KindExpense Kind = "EXPENSE"
	KindPayment Kind = "PAYMENT"
)

// Expense represents a shared cost paid by one member of a group
type Expense struct {
	ID          int64           `json:"id"`
	GroupID     int64           `json:"group_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	PaidBy      int64           `json:"paid_by"`
	SplitType   split.SplitType `json:"split_type"`
	Kind        Kind            `json:"kind"`
	Splits      []ExpenseSplit  `json:"splits"`
	CreatedAt   time.Time       `json:"created_at"`

	// Populated via JOIN
	PayerName string `json:"payer_name,omitempty"`
}

// ExpenseSplit is one member's share of an expense
type ExpenseSplit struct {
	UserID     int64            `json:"user_id"`
	Amount     decimal.Decimal  `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`

	// Populated via JOIN
	UserName string `json:"user_name,omitempty"`
}

// SplitTotal adds up the split amounts
func (e *Expense) SplitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range e.Splits {
		total = total.Add(s.Amount)
	}
	return total
}

// Participants returns the split owners in order, each once
func (e *Expense) Participants() []int64 {
	ids := make([]int64, 0, len(e.Splits))
	seen := make(map[int64]bool, len(e.Splits))
	for _, s := range e.Splits {
		if !seen[s.UserID] {
			seen[s.UserID] = true
			ids = append(ids, s.UserID)
		}
	}
	return ids
}

// ShareOf returns what userID consumed in this expense
func (e *Expense) ShareOf(userID int64) decimal.Decimal {
	share := decimal.Zero
	for _, s := range e.Splits {
		if s.UserID == userID {
			share = share.Add(s.Amount)
		}
	}
	return share
}

// Clone returns a deep copy so callers can compute on a snapshot
func (e *Expense) Clone() *Expense {
	c := *e
	c.Splits = make([]ExpenseSplit, len(e.Splits))
	for i, s := range e.Splits {
		c.Splits[i] = s
		if s.Percentage != nil {
			p := *s.Percentage
			c.Splits[i].Percentage = &p
		}
	}
	return &c
}

// splitsFromShares copies engine output as is: equal and percentage shares
// are already rounded, exact shares must not be.
func splitsFromShares(shares []split.Share) []ExpenseSplit {
	out := make([]ExpenseSplit, len(shares))
	for i, s := range shares {
		out[i] = ExpenseSplit{
			UserID:     s.UserID,
			Amount:     s.Amount,
			Percentage: s.Percentage,
		}
	}
	return out
}
