package split

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/momosplit/internal/money"
)

// SplitType identifies a split policy on the wire and in storage
type SplitType string

const (
	SplitTypeEqual      SplitType = "EQUAL"
	SplitTypePercentage SplitType = "PERCENTAGE"
	SplitTypeExact      SplitType = "EXACT"
)

// Share is one member's computed portion of a total
type Share struct {
	UserID     int64            `json:"user_id"`
	Amount     decimal.Decimal  `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

// Input is a participant as submitted by a client. Only the field matching
// the chosen split type may be set.
type Input struct {
	UserID     int64            `json:"user_id"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
}

// Policy is one of Equal, Percentage or Exact.
type Policy interface {
	Type() SplitType
	isPolicy()
}

// Equal divides the total evenly; the first member absorbs the rounding remainder.
type Equal struct{}

// Percentage assigns each member a percent of the total, in member order.
type Percentage struct {
	Percents []decimal.Decimal
}

// Exact carries caller-chosen amounts, in member order.
type Exact struct {
	Amounts []decimal.Decimal
}

func (Equal) Type() SplitType      { return SplitTypeEqual }
func (Percentage) Type() SplitType { return SplitTypePercentage }
func (Exact) Type() SplitType      { return SplitTypeExact }

func (Equal) isPolicy()      {}
func (Percentage) isPolicy() {}
func (Exact) isPolicy()      {}

var (
	ErrNoParticipants       = errors.New("at least one participant is required")
	ErrDuplicateMember      = errors.New("each participant may appear only once")
	ErrMissingPercentage    = errors.New("percentage value required for all participants")
	ErrMissingExactAmount   = errors.New("exact amount required for all participants")
	ErrUnexpectedField      = errors.New("participant carries a field that does not match the split type")
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")
	ErrLengthMismatch       = errors.New("policy values do not match participant count")
	ErrUnknownSplitType     = errors.New("unknown split type")
)

// ParseSplitType accepts the split type case-insensitively. EVEN is kept as an
// alias of EQUAL for older clients.
func ParseSplitType(s string) (SplitType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EQUAL", "EVEN":
		return SplitTypeEqual, nil
	case "PERCENTAGE":
		return SplitTypePercentage, nil
	case "EXACT":
		return SplitTypeExact, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSplitType, s)
	}
}

// ParsePolicy builds a Policy and the ordered member list from client input.
func ParsePolicy(splitType string, inputs []Input) (Policy, []int64, error) {
	st, err := ParseSplitType(splitType)
	if err != nil {
		return nil, nil, err
	}
	if len(inputs) == 0 {
		return nil, nil, ErrNoParticipants
	}

	memberIDs := make([]int64, len(inputs))
	for i, in := range inputs {
		memberIDs[i] = in.UserID
	}

	switch st {
	case SplitTypeEqual:
		for _, in := range inputs {
			if in.Percentage != nil || in.Amount != nil {
				return nil, nil, ErrUnexpectedField
			}
		}
		return Equal{}, memberIDs, nil

	case SplitTypePercentage:
		percents := make([]decimal.Decimal, len(inputs))
		for i, in := range inputs {
			if in.Percentage == nil {
				return nil, nil, ErrMissingPercentage
			}
			if in.Amount != nil {
				return nil, nil, ErrUnexpectedField
			}
			percents[i] = *in.Percentage
		}
		return Percentage{Percents: percents}, memberIDs, nil

	default:
		amounts := make([]decimal.Decimal, len(inputs))
		for i, in := range inputs {
			if in.Amount == nil {
				return nil, nil, ErrMissingExactAmount
			}
			if in.Percentage != nil {
				return nil, nil, ErrUnexpectedField
			}
			amounts[i] = *in.Amount
		}
		return Exact{Amounts: amounts}, memberIDs, nil
	}
}

// Apply turns a policy, a total and an ordered member list into shares.
// It does not check that the shares add up to the total for percentage or
// exact policies; that is left to expense validation.
func Apply(policy Policy, amount decimal.Decimal, memberIDs []int64) ([]Share, error) {
	if err := checkMembers(memberIDs); err != nil {
		return nil, err
	}

	switch p := policy.(type) {
	case Equal:
		return ComputeEqualSplit(amount, memberIDs)

	case Percentage:
		if len(p.Percents) != len(memberIDs) {
			return nil, ErrLengthMismatch
		}
		amounts, err := ComputePercentageSplit(amount, p.Percents)
		if err != nil {
			return nil, err
		}
		shares := make([]Share, len(memberIDs))
		for i, id := range memberIDs {
			pct := p.Percents[i]
			shares[i] = Share{UserID: id, Amount: amounts[i], Percentage: &pct}
		}
		return shares, nil

	case Exact:
		if len(p.Amounts) != len(memberIDs) {
			return nil, ErrLengthMismatch
		}
		if err := money.RequirePositive("exact split", amount); err != nil {
			return nil, err
		}
		shares := make([]Share, len(memberIDs))
		for i, id := range memberIDs {
			shares[i] = Share{UserID: id, Amount: p.Amounts[i]}
		}
		return shares, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownSplitType, policy)
	}
}

// Amounts extracts the share amounts in order.
func Amounts(shares []Share) []decimal.Decimal {
	out := make([]decimal.Decimal, len(shares))
	for i, s := range shares {
		out[i] = s.Amount
	}
	return out
}

func checkMembers(memberIDs []int64) error {
	if len(memberIDs) == 0 {
		return &money.ArithmeticError{Op: "split", Reason: ErrNoParticipants.Error()}
	}
	seen := make(map[int64]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: user %d", ErrDuplicateMember, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// IsPolicyError reports whether err came from bad split input rather than
// from storage or another dependency.
func IsPolicyError(err error) bool {
	for _, target := range []error{
		ErrNoParticipants,
		ErrDuplicateMember,
		ErrMissingPercentage,
		ErrMissingExactAmount,
		ErrUnexpectedField,
		ErrPercentageOutOfRange,
		ErrLengthMismatch,
		ErrUnknownSplitType,
		money.ErrArithmetic,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
