package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fkhayef/momosplit/internal/expense"
	"github.com/fkhayef/momosplit/internal/group"
	"github.com/fkhayef/momosplit/internal/user"
)

// Users is the part of the user service the seeder needs
type Users interface {
	Create(ctx context.Context, req *user.CreateUserRequest) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// Groups is the part of the group service the seeder needs
type Groups interface {
	Create(ctx context.Context, creatorID int64, req *group.CreateGroupRequest) (*group.Group, error)
	AddMember(ctx context.Context, groupID int64, req *group.AddMemberRequest) (*group.GroupMember, error)
	AcceptInvitation(ctx context.Context, groupID, userID int64) (*group.GroupMember, error)
}

// Expenses is the part of the expense service the seeder needs
type Expenses interface {
	Create(ctx context.Context, actorID int64, req *expense.CreateExpenseRequest) (*expense.Expense, error)
}

// Result counts what a Seed call created
type Result struct {
	Users    int
	Groups   int
	Expenses int
	Skipped  bool
}

// Seeder writes a Provider's dataset through the services
type Seeder struct {
	provider Provider
	users    Users
	groups   Groups
	expenses Expenses
}

// NewSeeder creates a new seeder
func NewSeeder(provider Provider, users Users, groups Groups, expenses Expenses) *Seeder {
	return &Seeder{
		provider: provider,
		users:    users,
		groups:   groups,
		expenses: expenses,
	}
}

// Seed loads the dataset. Users that already exist (by email) are reused.
// When every user already exists the dataset is assumed to be loaded and
// nothing else is written.
func (s *Seeder) Seed(ctx context.Context) (*Result, error) {
	dataset, err := s.provider.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	if err := dataset.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}
	ids := make(map[string]int64, len(dataset.Users))
	for _, spec := range dataset.Users {
		existing, err := s.users.GetByEmail(ctx, spec.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			ids[spec.Key] = existing.ID
			continue
		}

		created, err := s.users.Create(ctx, &user.CreateUserRequest{
			Name:        spec.Name,
			Email:       spec.Email,
			PhoneNumber: spec.Phone,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed user %q: %w", spec.Key, err)
		}
		ids[spec.Key] = created.ID
		result.Users++
	}

	if len(dataset.Users) > 0 && result.Users == 0 {
		slog.InfoContext(ctx, "seed data already present, skipping groups")
		result.Skipped = true
		return result, nil
	}

	for _, spec := range dataset.Groups {
		n, err := s.seedGroup(ctx, spec, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to seed group %q: %w", spec.Name, err)
		}
		result.Groups++
		result.Expenses += n
	}

	slog.InfoContext(ctx, "seeded demo data",
		"users", result.Users,
		"groups", result.Groups,
		"expenses", result.Expenses,
	)
	return result, nil
}

func (s *Seeder) seedGroup(ctx context.Context, spec GroupSpec, ids map[string]int64) (int, error) {
	var description *string
	if spec.Description != "" {
		description = &spec.Description
	}

	creatorID := ids[spec.Creator]
	g, err := s.groups.Create(ctx, creatorID, &group.CreateGroupRequest{
		Name:        spec.Name,
		Description: description,
		Currency:    spec.Currency,
	})
	if err != nil {
		return 0, err
	}

	for _, key := range spec.MemberKeys()[1:] {
		userID := ids[key]
		if _, err := s.groups.AddMember(ctx, g.ID, &group.AddMemberRequest{UserID: userID, Role: group.MemberRoleMember}); err != nil {
			return 0, err
		}
		if _, err := s.groups.AcceptInvitation(ctx, g.ID, userID); err != nil {
			return 0, err
		}
	}

	for _, e := range spec.Expenses {
		payerID := ids[e.PaidBy]
		if _, err := s.expenses.Create(ctx, payerID, &expense.CreateExpenseRequest{
			GroupID:      g.ID,
			Description:  e.Description,
			Amount:       e.Amount,
			Currency:     spec.Currency,
			PaidBy:       payerID,
			SplitType:    e.SplitType,
			Participants: e.Inputs(ids),
		}); err != nil {
			return 0, fmt.Errorf("expense %q: %w", e.Description, err)
		}
	}

	return len(spec.Expenses), nil
}
