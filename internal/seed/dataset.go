// Package seed loads demo data into a fresh environment through the regular
// services, so seeded expenses pass the same validation as API requests.
package seed

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/momosplit/internal/expense/split"
)

// ErrInvalidDataset is wrapped by every Dataset.Validate failure
var ErrInvalidDataset = errors.New("invalid seed dataset")

// Dataset is a set of users and groups referring to each other by key
type Dataset struct {
	Users  []UserSpec  `yaml:"users"`
	Groups []GroupSpec `yaml:"groups"`
}

// UserSpec describes one user. Key is only used inside the dataset.
type UserSpec struct {
	Key   string `yaml:"key"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone,omitempty"`
}

// GroupSpec describes a group, its members in join order and its expenses.
// The creator is always the first member.
type GroupSpec struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Currency    string        `yaml:"currency,omitempty"`
	Creator     string        `yaml:"creator"`
	Members     []string      `yaml:"members"`
	Expenses    []ExpenseSpec `yaml:"expenses"`
}

// ExpenseSpec describes an expense. Participants may be left out of an EQUAL
// split to share it between every member.
type ExpenseSpec struct {
	Description  string            `yaml:"description"`
	Amount       decimal.Decimal   `yaml:"amount"`
	PaidBy       string            `yaml:"paid_by"`
	SplitType    string            `yaml:"split_type"`
	Participants []ParticipantSpec `yaml:"participants,omitempty"`
}

// ParticipantSpec is one split owner. Set Percentage or Amount to match the
// split type.
type ParticipantSpec struct {
	User       string           `yaml:"user"`
	Percentage *decimal.Decimal `yaml:"percentage,omitempty"`
	Amount     *decimal.Decimal `yaml:"amount,omitempty"`
}

// MemberKeys returns the creator followed by the other members, without
// duplicates
func (g *GroupSpec) MemberKeys() []string {
	keys := []string{g.Creator}
	seen := map[string]bool{g.Creator: true}
	for _, m := range g.Members {
		if !seen[m] {
			seen[m] = true
			keys = append(keys, m)
		}
	}
	return keys
}

// Inputs resolves participant keys to split inputs
func (e *ExpenseSpec) Inputs(ids map[string]int64) []split.Input {
	inputs := make([]split.Input, len(e.Participants))
	for i, p := range e.Participants {
		inputs[i] = split.Input{
			UserID:     ids[p.User],
			Percentage: p.Percentage,
			Amount:     p.Amount,
		}
	}
	return inputs
}

// Validate checks that keys are unique and every reference resolves
func (d *Dataset) Validate() error {
	users := make(map[string]bool, len(d.Users))
	for _, u := range d.Users {
		if u.Key == "" {
			return fmt.Errorf("%w: user %q has no key", ErrInvalidDataset, u.Name)
		}
		if users[u.Key] {
			return fmt.Errorf("%w: duplicate user key %q", ErrInvalidDataset, u.Key)
		}
		users[u.Key] = true
	}

	for _, g := range d.Groups {
		if !users[g.Creator] {
			return fmt.Errorf("%w: group %q has unknown creator %q", ErrInvalidDataset, g.Name, g.Creator)
		}
		members := make(map[string]bool)
		for _, m := range g.MemberKeys() {
			if !users[m] {
				return fmt.Errorf("%w: group %q has unknown member %q", ErrInvalidDataset, g.Name, m)
			}
			members[m] = true
		}
		for _, e := range g.Expenses {
			if !members[e.PaidBy] {
				return fmt.Errorf("%w: expense %q is paid by non-member %q", ErrInvalidDataset, e.Description, e.PaidBy)
			}
			for _, p := range e.Participants {
				if !members[p.User] {
					return fmt.Errorf("%w: expense %q includes non-member %q", ErrInvalidDataset, e.Description, p.User)
				}
			}
		}
	}
	return nil
}
