package expense

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fkhayef/momosplit/internal/expense/split"
	"github.com/fkhayef/momosplit/internal/money"
)

// ValidationError lists every problem found with an expense so a client can
// show them together. When the split input itself was unusable, the
// underlying split error is kept and reachable through errors.Is.
type ValidationError struct {
	Messages []string
	cause    error
}

func (e *ValidationError) Error() string {
	return "invalid expense: " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

// Validate checks an expense before it is created or replaced. It returns nil
// when the expense is acceptable, otherwise a *ValidationError.
func Validate(e *Expense) *ValidationError {
	msgs := append(fieldMessages(e), splitMessages(e)...)
	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Messages: msgs}
}

// check validates e after its splits were assigned. A split input problem
// (splitErr) is reported alongside the field problems instead of on its own;
// any other error is returned unchanged.
func check(e *Expense, splitErr error) error {
	if splitErr == nil {
		if verr := Validate(e); verr != nil {
			return verr
		}
		return nil
	}
	if !split.IsPolicyError(splitErr) {
		return splitErr
	}
	return &ValidationError{
		Messages: append(fieldMessages(e), policyMessage(splitErr)),
		cause:    splitErr,
	}
}

func fieldMessages(e *Expense) []string {
	var msgs []string

	if strings.TrimSpace(e.Description) == "" {
		msgs = append(msgs, "Description is required")
	}
	if !e.Amount.IsPositive() {
		msgs = append(msgs, "Amount must be greater than 0")
	} else if !money.IsWholeMinorUnits(e.Amount) {
		msgs = append(msgs, "Amount must have at most 2 decimal places")
	}
	if e.PaidBy == 0 {
		msgs = append(msgs, "Payer is required")
	}
	if e.GroupID == 0 {
		msgs = append(msgs, "Group is required")
	}
	return msgs
}

// splitMessages judges the splits exactly as they will be stored
func splitMessages(e *Expense) []string {
	var msgs []string

	for _, s := range e.Splits {
		if !money.IsWholeMinorUnits(s.Amount) {
			msgs = append(msgs, fmt.Sprintf(
				"Split amount %s for user %d has more than 2 decimal places", s.Amount.String(), s.UserID,
			))
		}
	}

	total := e.SplitTotal()
	if !money.WithinTolerance(total, e.Amount) {
		msgs = append(msgs, fmt.Sprintf(
			"Split amounts total %s but expense amount is %s (difference %s)",
			total.StringFixed(2), e.Amount.StringFixed(2), total.Sub(e.Amount).Abs().StringFixed(2),
		))
	}
	return msgs
}

func policyMessage(err error) string {
	msg := err.Error()
	var aerr *money.ArithmeticError
	if errors.As(err, &aerr) {
		msg = aerr.Reason
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}
